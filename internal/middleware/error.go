package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/styllobarber/styllobarber-api/internal/handler"
	apperrors "github.com/styllobarber/styllobarber-api/pkg/errors"
)

// ErrorHandler converts errors attached via c.Error into the standard
// response envelope. Most handlers respond directly; this is the net under
// anything that only records the error.
func ErrorHandler(log *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", c.GetString(ContextRequestID)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Msg("request error")
		}

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last().Err
		status := http.StatusInternalServerError
		message := "internal server error"
		if appErr, ok := lastErr.(*apperrors.AppError); ok {
			status = appErr.StatusCode()
			message = appErr.Message
		}
		c.JSON(status, handler.NewErrorResponse(message))
	}
}
