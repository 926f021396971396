package memory

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

// LogEvent appends one journal entry
func (s *Store) LogEvent(ctx context.Context, entry repository.EventLogEntry) error {
	if err := s.fault("LogEvent"); err != nil {
		return err
	}
	s.journalMu.Lock()
	defer s.journalMu.Unlock()

	s.nextEventID++
	entry.ID = s.nextEventID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.Payload = maps.Clone(entry.Payload)
	entry.Metadata = maps.Clone(entry.Metadata)
	s.journal = append(s.journal, entry)
	return nil
}

// GetEvents returns the journal entries matching the filter, newest first
func (s *Store) GetEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	if err := s.fault("GetEvents"); err != nil {
		return nil, err
	}
	s.journalMu.Lock()
	defer s.journalMu.Unlock()

	var out []repository.EventLogEntry
	for _, e := range slices.Backward(s.journal) {
		if filter.OwnerID != "" && e.OwnerID != filter.OwnerID {
			continue
		}
		if filter.EventType != "" && e.EventType != filter.EventType {
			continue
		}
		if filter.Since != nil && e.CreatedAt.Before(*filter.Since) {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// CleanupOldEvents deletes entries created before the instant
func (s *Store) CleanupOldEvents(ctx context.Context, before time.Time) (int64, error) {
	if err := s.fault("CleanupOldEvents"); err != nil {
		return 0, err
	}
	s.journalMu.Lock()
	defer s.journalMu.Unlock()

	kept := s.journal[:0]
	for _, e := range s.journal {
		if !e.CreatedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	removed := int64(len(s.journal) - len(kept))
	s.journal = kept
	return removed, nil
}
