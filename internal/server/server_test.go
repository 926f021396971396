package server

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
	"github.com/osse101/BrandishIdle_Go/internal/sse"
)

type stubStore struct{}

func (stubStore) Ping(context.Context) error { return nil }

func (stubStore) ListAssigned(context.Context, string) ([]domain.AssignedEntry, error) {
	return nil, nil
}

func (stubStore) Capacity(_ context.Context, ownerID string) (domain.CapacityInfo, error) {
	return domain.CapacityInfo{OwnerID: ownerID, Base: 3, Total: 3}, nil
}

func (stubStore) Status() domain.MaintenanceStatus {
	return domain.MaintenanceStatus{ActiveTasks: 2}
}

func (stubStore) OwnerEvents(_ context.Context, ownerID string, _ int) ([]repository.EventLogEntry, error) {
	return []repository.EventLogEntry{{ID: 1, EventType: "producer.assigned", OwnerID: ownerID}}, nil
}

func newTestRouter(apiKey string) http.Handler {
	s := stubStore{}
	return NewRouter(Options{APIKey: apiKey, Version: "test"}, Dependencies{Store: s, Ledger: s, Status: s, Journal: s})
}

func get(h http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Auth(t *testing.T) {
	router := newTestRouter("secret")

	tests := []struct {
		name   string
		path   string
		header map[string]string
		want   int
	}{
		{"health is public", "/healthz", nil, http.StatusOK},
		{"readiness is public", "/readyz", nil, http.StatusOK},
		{"version is public", "/version", nil, http.StatusOK},
		{"metrics are public", "/metrics", nil, http.StatusOK},
		{"api requires key", "/api/v1/status", nil, http.StatusUnauthorized},
		{"wrong key", "/api/v1/status", map[string]string{HeaderAPIKey: "nope"}, http.StatusUnauthorized},
		{"right key", "/api/v1/status", map[string]string{HeaderAPIKey: "secret"}, http.StatusOK},
		{"owner route", "/api/v1/owners/o1/capacity", map[string]string{HeaderAPIKey: "secret"}, http.StatusOK},
		{"owner events", "/api/v1/owners/o1/events", map[string]string{HeaderAPIKey: "secret"}, http.StatusOK},
		{"stream not mounted without hub", "/api/v1/events", map[string]string{HeaderAPIKey: "secret"}, http.StatusNotFound},
		{"unknown route", "/api/v1/nope", map[string]string{HeaderAPIKey: "secret"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(router, tt.path, tt.header)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_EmptyKeyDisablesAuth(t *testing.T) {
	rec := get(newTestRouter(""), "/api/v1/owners/o1/assigned", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"owner_id":"o1"`)
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	rec := get(newTestRouter(""), "/healthz", nil)

	expected := map[string]string{
		HeaderContentType:    HeaderValueNoSniff,
		HeaderFrameOptions:   HeaderValueDeny,
		HeaderReferrerPolicy: HeaderValueReferrerStrictOrigin,
		HeaderCacheControl:   HeaderValueNoStore,
	}
	for header, want := range expected {
		assert.Equal(t, want, rec.Header().Get(header), header)
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name      string
		remote    string
		forwarded string
		trusted   []string
		want      string
	}{
		{"direct peer", "192.0.2.1:1234", "", nil, "192.0.2.1"},
		{"untrusted peer ignores header", "192.0.2.1:1234", "198.51.100.7", nil, "192.0.2.1"},
		{"trusted proxy uses rightmost hop", "10.0.0.1:80", "203.0.113.9, 198.51.100.7", []string{"10.0.0.1"}, "198.51.100.7"},
		{"unparseable remote", "garbage", "", nil, "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set(HeaderForwardedFor, tt.forwarded)
			}
			assert.Equal(t, tt.want, extractIP(req, tt.trusted))
		})
	}
}

func TestLoggingMiddleware_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set(HeaderAPIKey, "secret-key-123")
	req.Header.Set(HeaderAuthorization, "Bearer mytoken")
	req.Header.Set("User-Agent", "TestAgent")
	loggingMiddleware(next).ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	require.Contains(t, out, LogMsgRequestHeaders)
	assert.NotContains(t, out, "secret-key-123")
	assert.NotContains(t, out, "Bearer mytoken")
	assert.Contains(t, out, "TestAgent")
	assert.Contains(t, out, "status=418")
}

func TestRouter_EventStreamFlushesThroughMiddleware(t *testing.T) {
	hub := sse.NewHub()
	hub.Start()
	t.Cleanup(hub.Stop)

	s := stubStore{}
	srv := httptest.NewServer(NewRouter(Options{APIKey: "secret"}, Dependencies{Store: s, Ledger: s, Status: s, Hub: hub}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events?owner=o1", nil)
	require.NoError(t, err)
	req.Header.Set(HeaderAPIKey, "secret")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, "id: ")

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
}
