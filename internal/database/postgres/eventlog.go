package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

// DefaultEventQueryLimit caps journal queries without an explicit limit
const DefaultEventQueryLimit = 100

// LogEvent appends one journal entry
func (s *Store) LogEvent(ctx context.Context, entry repository.EventLogEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO production_events (event_type, owner_id, payload, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		entry.EventType, entry.OwnerID, entry.Payload, entry.Metadata, createdAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLogEvent, err)
	}
	return nil
}

// GetEvents returns the journal entries matching the filter, newest first
func (s *Store) GetEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	var (
		conds []string
		args  []any
	)
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		conds = append(conds, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if filter.EventType != "" {
		args = append(args, filter.EventType)
		conds = append(conds, fmt.Sprintf("event_type = $%d", len(args)))
	}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultEventQueryLimit
	}
	args = append(args, limit)

	query := `SELECT id, event_type, owner_id, payload, metadata, created_at FROM production_events`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetEvents, err)
	}
	defer rows.Close()

	var entries []repository.EventLogEntry
	for rows.Next() {
		var e repository.EventLogEntry
		if err := rows.Scan(&e.ID, &e.EventType, &e.OwnerID, &e.Payload, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetEvents, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetEvents, err)
	}
	return entries, nil
}

// CleanupOldEvents deletes entries created before the instant
func (s *Store) CleanupOldEvents(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM production_events WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCleanupEvents, err)
	}
	return tag.RowsAffected(), nil
}
