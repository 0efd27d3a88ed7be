package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salvex/salvex-api/internal/intake"
	"github.com/salvex/salvex-api/internal/models"
	apperrors "github.com/salvex/salvex-api/pkg/errors"
)

// Caller-visible messages
const (
	msgSaveFailed       = "Failed to save inquiry"
	msgFetchFailed      = "Failed to fetch inquiries"
	msgMisconfiguration = "Server misconfiguration"
	msgInvalidEmail     = "Invalid email address"
	msgInvalidRequest   = "Invalid request body"
	msgNotFound         = "Inquiry not found"
)

// Classification codes carried in 400 bodies
const (
	CodeMissingField   = "missing_field"
	CodeInvalidEmail   = "invalid_email"
	CodeInvalidRequest = "invalid_request"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so errcheck is suppressed.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// respondRejection turns a validation failure into a 400 with a code the
// modal can branch on. It reports false for errors that are not validation
// failures.
func respondRejection(c *gin.Context, err error) bool {
	var missing *intake.MissingFieldError
	switch {
	case apperrors.As(err, &missing):
		attachError(c, err)
		c.JSON(http.StatusBadRequest, models.InquiryRejection{
			Error: "Missing required field: " + missing.Field,
			Code:  CodeMissingField,
			Field: missing.Field,
		})
		return true
	case apperrors.Is(err, intake.ErrInvalidEmail):
		attachError(c, err)
		c.JSON(http.StatusBadRequest, models.InquiryRejection{
			Error: msgInvalidEmail,
			Code:  CodeInvalidEmail,
			Field: intake.FieldEmail,
		})
		return true
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		attachError(c, err)
		c.JSON(http.StatusBadRequest, models.InquiryRejection{
			Error: msgInvalidRequest,
			Code:  CodeInvalidRequest,
		})
		return true
	}
	return false
}

// respondStoreError maps lookup and update failures for admin endpoints
func respondStoreError(c *gin.Context, err error, fallback string) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		respondError(c, http.StatusNotFound, msgNotFound, err)
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err.Error(), err)
	case apperrors.Is(err, apperrors.ErrMisconfigured):
		respondError(c, http.StatusInternalServerError, msgMisconfiguration, err)
	default:
		respondError(c, http.StatusInternalServerError, fallback, err)
	}
}
