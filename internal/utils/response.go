package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/pinmapa/pinmapa-backend/internal/errors"
)

// RespondError writes the single-field error body used across the API and
// stops the handler chain. Every failure response has the shape
// {"error": "<message>"}.
func RespondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// RespondAPIError sends a predefined APIError as a response.
func RespondAPIError(c *gin.Context, apiErr *apperrors.APIError) {
	RespondError(c, apiErr.Status, apiErr.Message)
}

// RespondInternalError maps an unexpected failure to a 500. The underlying
// detail is only leaked when debug mode is on; debug is process-wide
// configuration, never a per-request decision.
func RespondInternalError(c *gin.Context, err error, debug bool) {
	message := apperrors.ErrInternalServer.Message
	if debug && err != nil {
		message = err.Error()
	}
	RespondError(c, http.StatusInternalServerError, message)
}
