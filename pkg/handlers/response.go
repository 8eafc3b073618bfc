package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/factlens-inc/factlens-engine/pkg/apperrors"
)

// ApiResponse is the envelope for successful responses.
type ApiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// ServiceError maps a service error onto the HTTP taxonomy and writes the
// response. Unexpected errors are logged with context and surfaced as an
// opaque internal error; no internal detail crosses the boundary.
func ServiceError(w http.ResponseWriter, err error, logger *zap.Logger, context string) {
	var ve *apperrors.ValidationError
	var status int
	var code, message string

	switch {
	case errors.As(err, &ve):
		status, code, message = http.StatusBadRequest, "validation_failed", ve.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		status, code, message = http.StatusNotFound, "not_found", "Resource not found"
	case errors.Is(err, apperrors.ErrConflict):
		status, code, message = http.StatusConflict, "conflict", "Resource already exists"
	case errors.Is(err, apperrors.ErrIllegalTransition):
		status, code, message = http.StatusConflict, "illegal_transition", "Status transition not permitted"
	case errors.Is(err, apperrors.ErrIneligible):
		status, code, message = http.StatusUnprocessableEntity, "ineligible", "Fact checker is not eligible"
	case errors.Is(err, apperrors.ErrForbidden):
		status, code, message = http.StatusForbidden, "forbidden", "Not allowed"
	default:
		logger.Error("Unexpected service error", zap.String("operation", context), zap.Error(err))
		status, code, message = http.StatusInternalServerError, "internal_error", "Internal server error"
	}

	if err := ErrorResponse(w, status, code, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}
