package sse

// Event is one message on the stream
type Event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	OwnerID   string `json:"owner_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Payload   any    `json:"payload"`
}

// ConnectedPayload greets a new client with its id and the filters it asked for
type ConnectedPayload struct {
	ClientID string   `json:"client_id"`
	Types    []string `json:"types,omitempty"`
	Owner    string   `json:"owner,omitempty"`
}
