//go:build staging

package staging

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"
)

const smokeOwner = "staging-smoke-owner"

func TestEngineStatus(t *testing.T) {
	resp, body := get(t, "/api/v1/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var status struct {
		ActiveTasks int `json:"active_tasks"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if status.ActiveTasks < 0 {
		t.Errorf("Expected a non-negative task count, got %d", status.ActiveTasks)
	}
}

func TestOwnerEndpoints(t *testing.T) {
	t.Run("capacity", func(t *testing.T) {
		resp, body := get(t, "/api/v1/owners/"+smokeOwner+"/capacity")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}
		var info struct {
			Total int `json:"total"`
		}
		if err := json.Unmarshal(body, &info); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if info.Total < 1 {
			t.Errorf("Expected at least one slot, got %d", info.Total)
		}
	})

	t.Run("assigned", func(t *testing.T) {
		resp, body := get(t, "/api/v1/owners/"+smokeOwner+"/assigned")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}
		if !strings.Contains(string(body), `"assigned":[`) {
			t.Errorf("Expected an assigned array, got %s", body)
		}
	})

	t.Run("events", func(t *testing.T) {
		resp, body := get(t, "/api/v1/owners/"+smokeOwner+"/events?limit=5")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}
		if !strings.Contains(string(body), `"events":[`) {
			t.Errorf("Expected an events array, got %s", body)
		}
	})
}

func TestEventStreamConnects(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req := newRequest(t, "/api/v1/events?owner="+smokeOwner).WithContext(ctx)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to open stream: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if scanner.Text() == "event: connected" {
			return
		}
	}
	t.Fatalf("Stream closed before the connected event: %v", scanner.Err())
}
