package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pennywise/internal/analytics"
	apperrors "pennywise/internal/errors"
	"pennywise/internal/logger"
	"pennywise/internal/uuid"
)

const dateLayout = "2006-01-02"

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse is returned by operations that have nothing else to report.
type MessageResponse struct {
	Message string `json:"message"`
}

// parsePathID reads a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
//
//nolint:unparam // every resource currently uses "id"
func parsePathID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if !uuid.IsValid(id) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseDate accepts a calendar date (YYYY-MM-DD) or an RFC3339 timestamp.
// Calendar dates are read as UTC midnight.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// parseDateParam parses an optional query parameter with parseDate. A missing
// parameter yields nil.
func parseDateParam(c *gin.Context, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	t, err := parseDate(v)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"invalid "+name+" format, use RFC3339 or YYYY-MM-DD")
	}
	return &t, nil
}

// parseOptionalDate parses a date carried in a request body.
func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseDate(*value)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"invalid "+field+" format, use RFC3339 or YYYY-MM-DD")
	}
	return &t, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}

// respondWithAnalysis writes an analytics result under key. A computation
// that lacked history still answers 200, with the partial result next to an
// INSUFFICIENT_DATA error object.
func respondWithAnalysis(c *gin.Context, key string, result any, err error) {
	if err == nil {
		c.JSON(http.StatusOK, gin.H{key: result})
		return
	}

	var shortfall *analytics.InsufficientDataError
	if !errors.As(err, &shortfall) {
		respondWithError(c, err)
		return
	}
	c.JSON(apperrors.ErrInsufficientData.StatusCode, gin.H{
		key: result,
		"error": gin.H{
			"code":    apperrors.ErrInsufficientData.Code,
			"message": shortfall.Error(),
			"need":    shortfall.Need,
			"have":    shortfall.Have,
		},
	})
}
