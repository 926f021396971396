package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/BrandishIdle_Go/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe forwards every engine event type to the hub
func (s *Subscriber) Subscribe() {
	types := make([]string, 0, len(event.AllTypes))
	for _, t := range event.AllTypes {
		s.bus.Subscribe(t, s.forward)
		types = append(types, string(t))
	}
	slog.Info(LogMsgSubscribed, "types", types)
}

// forward never fails; a slow stream must not push the event into the retry queue
func (s *Subscriber) forward(_ context.Context, evt event.Event) error {
	s.hub.Broadcast(string(evt.Type), evt.OwnerID, evt.Payload)
	return nil
}
