package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/logger"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler recovers from panics in later handlers and answers with a
// JSON 500. Errors attached with c.Error but left unanswered get the same
// treatment with their own message.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.FromContext(c.Request.Context(), log).Error("panic while serving request",
					zap.Any("panic", err),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			last := c.Errors.Last()
			logger.FromContext(c.Request.Context(), log).Error("request failed", zap.Error(last.Err))
			status := c.Writer.Status()
			if status < http.StatusBadRequest {
				status = http.StatusInternalServerError
			}
			c.JSON(status, ErrorResponse{Error: last.Error()})
		}
	}
}
