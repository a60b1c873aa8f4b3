package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/apperrors"
)

// ApiResponse is the envelope for every JSON API response.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(ApiResponse{
		Success: false,
		Error:   errorCode,
		Message: message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// writeData wraps data in a successful ApiResponse.
func writeData(w http.ResponseWriter, statusCode int, data any, logger *zap.Logger) {
	if err := WriteJSON(w, statusCode, ApiResponse{Success: true, Data: data}); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, statusCode int, errorCode, message string, logger *zap.Logger) {
	if err := ErrorResponse(w, statusCode, errorCode, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}

// writeServiceError maps a service error onto an HTTP status. Unexpected
// errors are logged and reported as 500 with the given code.
func writeServiceError(w http.ResponseWriter, err error, errorCode string, logger *zap.Logger) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error(), logger)
	case errors.Is(err, apperrors.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error(), logger)
	case errors.Is(err, apperrors.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error(), logger)
	default:
		logger.Error("Request failed", zap.String("error_code", errorCode), zap.Error(err))
		writeError(w, http.StatusInternalServerError, errorCode, err.Error(), logger)
	}
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, logger *zap.Logger) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error(), logger)
		return false
	}
	return true
}
