package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 256

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 64

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 10
)

// KeepaliveInterval is how often idle streams get a ping
const KeepaliveInterval = 30 * time.Second

// Stream-level event types; engine events keep their bus type names
const (
	EventTypeConnected = "connected"
	EventTypeKeepalive = "keepalive"
)

// Query parameters of the stream endpoint
const (
	ParamTypes = "types"
	ParamOwner = "owner"
)

// Response headers
const (
	HeaderContentType  = "Content-Type"
	HeaderCacheControl = "Cache-Control"
	HeaderConnection   = "Connection"

	ContentTypeEventStream = "text/event-stream"
	CacheControlNoCache    = "no-cache"
	ConnectionKeepAlive    = "keep-alive"
)

// Error messages
const (
	ErrMsgStreamingUnsupported = "Streaming not supported"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgBroadcastDropped   = "SSE broadcast buffer full, event dropped"
	LogMsgClientLagging      = "SSE client buffer full, event skipped"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgFormatError        = "Failed to format SSE event"
	LogMsgSubscribed         = "SSE subscriber registered for event types"
)
