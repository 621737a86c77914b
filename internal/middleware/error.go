package middleware

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/handlog/backend/internal/types"
	"go.uber.org/zap"
)

// ErrorHandler recovers from panics in later handlers and answers with a JSON
// 500 instead of dropping the connection
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered interface{}) {
		logger.Error("panic recovered",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.Any("panic", recovered),
			zap.StackSkip("stack", 2))
		c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "internal server error",
			Details: fmt.Sprint(recovered),
		})
	})
}

// NotFound answers unknown routes with a JSON 404
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, types.ErrorResponse{
		Error:   "route not found",
		Details: c.Request.Method + " " + c.Request.URL.Path,
	})
}
