package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/orientame/onboarding-api/pkg/errors"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// respondServiceError maps application error kinds to HTTP statuses
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		respondError(c, http.StatusNotFound, "Not found", err)
	case errors.Is(err, apperrors.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, "Request conflicts with the current state", err)
	case errors.Is(err, apperrors.ErrGone):
		respondError(c, http.StatusGone, "Resource is closed", err)
	case errors.Is(err, apperrors.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
