package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// respondJSON encodes the payload into a pooled buffer before writing headers,
// so an encoding failure still yields a clean 500
func respondJSON(w http.ResponseWriter, status int, payload any) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Default().Error(LogMsgEncodeFailed, "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Default().Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// mapServiceError converts engine errors to an HTTP status and a message safe to show
func mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict, ErrMsgInsufficientStock
	case errors.Is(err, domain.ErrCapacityExceeded):
		return http.StatusConflict, ErrMsgCapacityExceeded
	case errors.Is(err, domain.ErrInvalidVariant):
		return http.StatusBadRequest, ErrMsgInvalidVariantError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	default:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}
}
