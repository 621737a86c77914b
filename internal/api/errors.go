package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pageza/handlog/backend/internal/service"
	"github.com/pageza/handlog/backend/internal/types"
	"go.uber.org/zap"
)

var registerFieldNames sync.Once

// useJSONFieldNames makes validator report fields by their JSON name so
// binding errors read "meal_type is required" instead of "MealType".
func useJSONFieldNames() {
	registerFieldNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// respondError maps service errors onto HTTP statuses. Anything that is not a
// known sentinel is a 500 carrying the error text in details.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation failed",
			Details: strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": "),
		})
	case errors.Is(err, service.ErrMealNotFound):
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: service.ErrMealNotFound.Error()})
	case errors.Is(err, service.ErrMealNotFlagged):
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: service.ErrMealNotFlagged.Error()})
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "internal server error",
			Details: err.Error(),
		})
	}
}

// respondBindError reports a request body that failed to decode or validate
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describeFieldError(fe))
		}
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation failed",
			Details: strings.Join(msgs, "; "),
		})
		return
	}
	c.JSON(http.StatusBadRequest, types.ErrorResponse{
		Error:   "invalid request body",
		Details: err.Error(),
	})
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
