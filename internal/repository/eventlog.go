package repository

import (
	"context"
	"time"
)

// EventLog defines storage for the production event journal
type EventLog interface {
	// LogEvent stores an event
	LogEvent(ctx context.Context, entry EventLogEntry) error

	// GetEvents retrieves events matching the filter, newest first
	GetEvents(ctx context.Context, filter EventLogFilter) ([]EventLogEntry, error)

	// CleanupOldEvents removes events created before the given instant
	CleanupOldEvents(ctx context.Context, before time.Time) (int64, error)
}

// EventLogEntry represents a journaled event
type EventLogEntry struct {
	ID        int64          `json:"id"`
	EventType string         `json:"event_type"`
	OwnerID   string         `json:"owner_id"`
	Payload   map[string]any `json:"payload"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// EventLogFilter filters journal queries. Empty fields match everything.
type EventLogFilter struct {
	OwnerID   string
	EventType string
	Since     *time.Time
	Limit     int
}
