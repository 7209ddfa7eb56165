// Package api provides HTTP handlers and routing for the CMR granule link service.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// APIError is the JSON body of every error response.
type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	RequestID   string `json:"request_id,omitempty"`
}

// Error codes.
const (
	ErrCodeNotFound         = "NotFound"
	ErrCodeInvalidParameter = "InvalidParameterValue"
	ErrCodeServerError      = "ServerError"
	ErrCodeUpstreamError    = "UpstreamServiceError"
)

// WriteJSON writes a JSON response with the given status code and value.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	return writeEncoded(w, status, "application/json", v)
}

// WriteGeoJSON writes v with the application/geo+json media type.
func WriteGeoJSON(w http.ResponseWriter, status int, v any) error {
	return writeEncoded(w, status, "application/geo+json", v)
}

func writeEncoded(w http.ResponseWriter, status int, mediaType string, v any) error {
	w.Header().Set("Content-Type", mediaType)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response",
			slog.String("content_type", mediaType),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, APIError{Code: code, Description: message})
}

func writeError(w http.ResponseWriter, status int, body APIError) {
	if err := WriteJSON(w, status, body); err != nil {
		slog.Error("failed to write error response", slog.String("code", body.Code))
	}
}

// WriteInvalidParameter writes a 400 Bad Request error for invalid parameters.
func WriteInvalidParameter(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, ErrCodeInvalidParameter, message)
}

// WriteNotFound writes a 404 Not Found error response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// WriteUpstreamError writes a 502 Bad Gateway error for CMR failures.
func WriteUpstreamError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, ErrCodeUpstreamError, message)
}

// WriteInternalErrorWithRequestID writes a 500 error carrying the request ID.
func WriteInternalErrorWithRequestID(w http.ResponseWriter, message, requestID string) {
	writeError(w, http.StatusInternalServerError, APIError{
		Code:        ErrCodeServerError,
		Description: message,
		RequestID:   requestID,
	})
}
