// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/keyhouse/internal/errors"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// HandleErrorGin maps domain errors to HTTP status codes for Gin handlers.
// ErrInvalidInput maps to 400 — the automation API's validation failures
// are plain bad requests, not semantically-valid-but-unprocessable entities.
// ErrConflict's message here is a generic fallback; callers with a more
// specific message (e.g. secret creation's name-bound 409) should handle
// that case themselves before falling through to this mapper.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode int
	var errorResponse ErrorResponse

	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		errorResponse = ErrorResponse{Error: "not_found", Message: "The requested resource was not found"}

	case apperrors.Is(err, apperrors.ErrConflict):
		statusCode = http.StatusConflict
		errorResponse = ErrorResponse{Error: "conflict", Message: "A conflict occurred with the existing resource."}

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		errorResponse = ErrorResponse{Error: "validation_error", Message: err.Error()}

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{Error: "unauthorized", Message: "Authentication is required"}

	case apperrors.Is(err, apperrors.ErrForbidden):
		statusCode = http.StatusForbidden
		errorResponse = ErrorResponse{Error: "forbidden", Message: "You don't have permission to access this resource"}

	default:
		statusCode = http.StatusInternalServerError
		errorResponse = ErrorResponse{Error: "internal_error", Message: "An internal error occurred"}
	}

	if logger != nil {
		logLevel := slog.LevelError
		if statusCode == http.StatusConflict {
			logLevel = slog.LevelInfo
		}
		logger.Log(c.Request.Context(), logLevel, "request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

// HandleValidationErrorGin writes a 400 Bad Request response for validation
// errors raised outside the domain-error chain (e.g. request binding).
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
}
