package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hmeyer/daypeak/internal/domain/dto"
	"github.com/hmeyer/daypeak/internal/logger"
)

// ErrorHandler converts errors attached to the Gin context (via c.Error)
// into a standardized JSON error response.
//
// Behavior:
//   - Runs the rest of the chain first.
//   - If handlers attached errors and no response body was written yet,
//     responds 500 with dto.NewErrorResponse wrapping the last error.
//   - Logs every attached error regardless.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 {
		return
	}

	last := c.Errors.Last().Err
	logger.L().Error().
		Err(last).
		Str("path", c.Request.URL.Path).
		Int("errors", len(c.Errors)).
		Msg("request finished with errors")

	if !c.Writer.Written() {
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error", last))
	}
}

// AbortWithError attaches the error to the Gin context and immediately
// responds with a standardized JSON error body.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
