package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pageza/handlog/backend/internal/models"
	"github.com/pageza/handlog/backend/internal/service"
)

// DefaultRangeDays is the list window used when startDate is omitted
const DefaultRangeDays = 30

func parseMealID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid meal id %q", service.ErrValidation, c.Param("id"))
	}
	return uint(id), nil
}

// dateRange reads startDate and endDate. A missing endDate means today and a
// missing startDate means DefaultRangeDays before endDate.
func dateRange(c *gin.Context, today models.Date) (models.Date, models.Date, error) {
	end := today
	if raw := strings.TrimSpace(c.Query("endDate")); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			return models.Date{}, models.Date{}, fmt.Errorf("%w: endDate: %v", service.ErrValidation, err)
		}
		end = parsed
	}

	start := end.AddDays(-DefaultRangeDays)
	if raw := strings.TrimSpace(c.Query("startDate")); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			return models.Date{}, models.Date{}, fmt.Errorf("%w: startDate: %v", service.ErrValidation, err)
		}
		start = parsed
	}
	return start, end, nil
}
