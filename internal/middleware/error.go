package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "pennywise/internal/errors"
	"pennywise/internal/logger"
)

// ErrorHandler renders the last error attached to the Gin context with
// c.Error as the JSON error envelope used by the handlers. It does nothing
// when a handler already wrote its own response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		log := logger.Get().With("request_id", RequestID(c), "path", c.Request.URL.Path)

		appErr := apperrors.ErrInternalServer
		if !errors.As(err, &appErr) {
			log.Errorw("unexpected error", "error", err.Error(), "method", c.Request.Method)
		} else if appErr.Internal != nil {
			log.Errorw("app error", "code", appErr.Code, "internal", appErr.Internal.Error())
		}

		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
	}
}

// NoRoute answers unknown paths with the NOT_FOUND error envelope.
func NoRoute(c *gin.Context) {
	_ = c.Error(apperrors.ErrNotFound)
}
