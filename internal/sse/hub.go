package sse

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/BrandishIdle_Go/internal/metrics"
)

// Client represents a connected SSE client
type Client struct {
	ID           string
	EventChannel chan Event
	EventFilter  map[string]bool // nil means all event types
	OwnerFilter  string          // empty means all owners
}

func (c *Client) accepts(evt Event) bool {
	if c.EventFilter != nil && !c.EventFilter[evt.Type] {
		return false
	}
	return c.OwnerFilter == "" || c.OwnerFilter == evt.OwnerID
}

// Hub manages SSE client connections and event broadcasting
type Hub struct {
	clients    map[string]*Client
	broadcast  chan Event
	register   chan *Client
	unregister chan string
	mu         sync.RWMutex
	shutdown   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// NewHub creates a new SSE Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan Event, BroadcastBufferSize),
		register:   make(chan *Client, ClientChannelBuffer),
		unregister: make(chan string, ClientChannelBuffer),
		shutdown:   make(chan struct{}),
	}
}

// Start starts the hub's broadcast loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop shuts the hub down and closes every client channel. Safe to call twice.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		for _, client := range h.clients {
			close(client.EventChannel)
		}
		metrics.EventStreamClients.Sub(float64(len(h.clients)))
		h.clients = make(map[string]*Client)
		h.mu.Unlock()
	})
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			metrics.EventStreamClients.Inc()

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[clientID]; ok {
				close(client.EventChannel)
				delete(h.clients, clientID)
				metrics.EventStreamClients.Dec()
			}
			h.mu.Unlock()

		case evt := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				if !client.accepts(evt) {
					continue
				}
				select {
				case client.EventChannel <- evt:
				default:
					slog.Debug(LogMsgClientLagging, "client_id", client.ID, "type", evt.Type)
				}
			}
			h.mu.RUnlock()

		case <-h.shutdown:
			return
		}
	}
}

// Register adds a client interested in eventTypes (all when empty) for
// ownerID (all when empty). After Stop the returned client's channel is
// already closed.
func (h *Hub) Register(eventTypes []string, ownerID string) *Client {
	client := &Client{
		ID:           uuid.New().String(),
		EventChannel: make(chan Event, ClientEventBuffer),
		OwnerFilter:  ownerID,
	}

	if len(eventTypes) > 0 {
		client.EventFilter = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			client.EventFilter[t] = true
		}
	}

	select {
	case h.register <- client:
	case <-h.shutdown:
		close(client.EventChannel)
	}
	return client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.shutdown:
	}
}

// Broadcast queues an event for every interested client. It never blocks;
// when the buffer is full the event is dropped.
func (h *Hub) Broadcast(eventType, ownerID string, payload any) {
	evt := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		OwnerID:   ownerID,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}

	select {
	case h.broadcast <- evt:
	default:
		slog.Warn(LogMsgBroadcastDropped, "type", eventType, "owner_id", ownerID)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSEMessage renders an event in text/event-stream framing
func FormatSSEMessage(evt Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}

	msg := "id: " + evt.ID + "\n"
	msg += "event: " + evt.Type + "\n"
	msg += "data: " + string(data) + "\n\n"

	return []byte(msg), nil
}
