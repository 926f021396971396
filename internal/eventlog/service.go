package eventlog

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/event"
	"github.com/osse101/BrandishIdle_Go/internal/logger"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

// JournaledTypes are the events written to the journal. Ticks are streamed
// but not stored.
var JournaledTypes = []event.Type{
	event.ProducerAssigned,
	event.ProducerUnassigned,
	event.AssignmentRemoved,
}

// Service journals engine events and serves them back per owner
type Service interface {
	// Subscribe registers the journal on the bus
	Subscribe(bus event.Bus)

	// OwnerEvents returns the newest journal entries of an owner
	OwnerEvents(ctx context.Context, ownerID string, limit int) ([]repository.EventLogEntry, error)

	// CleanupOldEvents removes entries older than the retention period
	CleanupOldEvents(ctx context.Context, retention time.Duration) (int64, error)
}

type service struct {
	repo repository.EventLog
	now  func() time.Time
}

// NewService creates a new event journal service
func NewService(repo repository.EventLog) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Subscribe(bus event.Bus) {
	for _, eventType := range JournaledTypes {
		bus.Subscribe(eventType, s.handleEvent)
	}
	logger.FromContext(context.Background()).Info(LogMsgSubscribed, "types", JournaledTypes)
}

// handleEvent stores one event. A storage error is returned so the publisher
// can retry it.
func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := event.DecodePayload[map[string]any](evt.Payload)
	if err != nil {
		log.Warn(LogMsgPayloadNotEncoded, "type", evt.Type, "error", err)
		return nil
	}

	entry := repository.EventLogEntry{
		EventType: string(evt.Type),
		OwnerID:   evt.OwnerID,
		Payload:   payload,
		Metadata:  evt.Metadata,
		CreatedAt: evt.OccurredAt,
	}
	if err := s.repo.LogEvent(ctx, entry); err != nil {
		log.Error(LogMsgFailedToLogEvent, "error", err, "type", evt.Type)
		return fmt.Errorf("%s: %w", ErrMsgFailedToLogEvent, err)
	}

	log.Debug(LogMsgEventLogged, "type", evt.Type, "owner_id", evt.OwnerID)
	return nil
}

func (s *service) OwnerEvents(ctx context.Context, ownerID string, limit int) ([]repository.EventLogEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultOwnerEventLimit
	case limit > MaxOwnerEventLimit:
		limit = MaxOwnerEventLimit
	}

	entries, err := s.repo.GetEvents(ctx, repository.EventLogFilter{OwnerID: ownerID, Limit: limit})
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgFailedToGetEvents, "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetEvents, err)
	}
	return entries, nil
}

func (s *service) CleanupOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	count, err := s.repo.CleanupOldEvents(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCleanup, err)
	}
	return count, nil
}
