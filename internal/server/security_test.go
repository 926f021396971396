package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware(t *testing.T) {
	const apiKey = "secret-key"

	tests := []struct {
		name        string
		key         string
		providedKey string
		path        string
		want        int
	}{
		{"valid key", apiKey, apiKey, "/api/v1/status", http.StatusOK},
		{"invalid key", apiKey, "wrong-key", "/api/v1/status", http.StatusUnauthorized},
		{"missing key", apiKey, "", "/api/v1/status", http.StatusUnauthorized},
		{"public health", apiKey, "", "/healthz", http.StatusOK},
		{"public swagger", apiKey, "", "/swagger/index.html", http.StatusOK},
		{"empty key disables auth", "", "", "/api/v1/status", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AuthMiddleware(tt.key, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.providedKey != "" {
				req.Header.Set(HeaderAPIKey, tt.providedKey)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	var readErr error
	handler := RequestSizeLimitMiddleware(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		for readErr == nil {
			_, readErr = r.Body.Read(buf)
		}
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("short"))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.EqualError(t, readErr, "EOF")

	readErr = nil
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789abcdef"))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, readErr, &maxErr)
}
