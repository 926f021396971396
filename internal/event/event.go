package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a production engine event
type Event struct {
	Version    string         `json:"version"`
	Type       Type           `json:"type"`
	OwnerID    string         `json:"owner_id"`
	Payload    any            `json:"payload"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Event types
const (
	ProducerAssigned   Type = "producer.assigned"
	ProducerUnassigned Type = "producer.unassigned"
	ProductionTicked   Type = "production.ticked"
	AssignmentRemoved  Type = "assignment.removed"
)

// AllTypes lists every event type the engine publishes
var AllTypes = []Type{ProducerAssigned, ProducerUnassigned, ProductionTicked, AssignmentRemoved}

// Metadata keys
const (
	MetaOperation = "operation"
	MetaReason    = "reason"
)

// TransferPayloadV1 is the payload of producer.assigned and producer.unassigned
type TransferPayloadV1 struct {
	OwnerID     string `json:"owner_id"`
	VariantKey  string `json:"variant_key"`
	Quantity    int    `json:"quantity"`
	Assigned    int    `json:"assigned"`
	Partial     bool   `json:"partial,omitempty"`
	Unscheduled bool   `json:"unscheduled,omitempty"`
}

// TickPayloadV1 is the payload of production.ticked
type TickPayloadV1 struct {
	OwnerID    string   `json:"owner_id"`
	VariantKey string   `json:"variant_key"`
	Quantity   int      `json:"quantity"`
	Coins      int64    `json:"coins"`
	Gems       int64    `json:"gems"`
	Critical   bool     `json:"critical"`
	Degraded   []string `json:"degraded,omitempty"`
}

// RemovedPayloadV1 is the payload of assignment.removed
type RemovedPayloadV1 struct {
	OwnerID    string `json:"owner_id"`
	VariantKey string `json:"variant_key"`
	Quantity   int    `json:"quantity"`
}

// NewTransferEvent builds the event of one committed single-variant transfer.
// in selects producer.assigned over producer.unassigned.
func NewTransferEvent(op string, in bool, res domain.TransferResult) Event {
	eventType := ProducerUnassigned
	if in {
		eventType = ProducerAssigned
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		OwnerID: res.OwnerID,
		Payload: TransferPayloadV1{
			OwnerID:     res.OwnerID,
			VariantKey:  res.Variant.Key(),
			Quantity:    res.Transferred,
			Assigned:    res.Remaining,
			Partial:     in && res.Transferred < res.Requested,
			Unscheduled: in && !res.Scheduled,
		},
		Metadata:   map[string]any{MetaOperation: op},
		OccurredAt: time.Now(),
	}
}

// NewTickEvent builds the event of one committed tick
func NewTickEvent(res domain.TickResult) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ProductionTicked,
		OwnerID: res.Key.OwnerID,
		Payload: TickPayloadV1{
			OwnerID:    res.Key.OwnerID,
			VariantKey: res.Key.VariantKey,
			Quantity:   res.Quantity,
			Coins:      res.Coins,
			Gems:       res.Gems,
			Critical:   res.Multipliers.Critical,
			Degraded:   res.Multipliers.Degraded,
		},
		OccurredAt: res.At,
	}
}

// NewRemovedEvent builds the event of a stale assignment deleted by reconciliation
func NewRemovedEvent(entry domain.AssignedEntry, reason string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    AssignmentRemoved,
		OwnerID: entry.OwnerID,
		Payload: RemovedPayloadV1{
			OwnerID:    entry.OwnerID,
			VariantKey: entry.Variant.Key(),
			Quantity:   entry.Quantity,
		},
		Metadata:   map[string]any{MetaReason: reason},
		OccurredAt: time.Now(),
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber of the event type synchronously. All handlers
// run even when one fails.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
