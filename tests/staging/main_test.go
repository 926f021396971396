//go:build staging

package staging

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

var (
	stagingURL string
	client     *http.Client
)

func TestMain(m *testing.M) {
	stagingURL = os.Getenv("API_URL")
	if stagingURL == "" {
		stagingURL = "http://localhost:8080"
	}

	client = &http.Client{
		Timeout: 10 * time.Second,
	}

	os.Exit(m.Run())
}

func newRequest(t *testing.T, path string) *http.Request {
	t.Helper()
	url := fmt.Sprintf("%s%s", stagingURL, path)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	if apiKey := os.Getenv("API_KEY"); apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	return req
}

// get performs a GET against the deployment and returns the drained body
func get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	req := newRequest(t, path)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request to %s: %v", req.URL, err)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	return resp, body
}
