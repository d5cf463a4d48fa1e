package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 256

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 64

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 16
)

// SSE connection settings
const (
	// KeepaliveInterval is how often to send keepalive pings
	KeepaliveInterval = 30 * time.Second
)

// Query parameters
const (
	QueryParamGame  = "game"
	QueryParamTypes = "types"
)

// Stream-level event types. Game events keep their bus type names.
const (
	EventTypeConnected = "connected"
	EventTypeKeepalive = "keepalive"
)

// Log messages
const (
	LogMsgClientConnected       = "SSE client connected"
	LogMsgClientDisconnected    = "SSE client disconnected"
	LogMsgEventBroadcast        = "Broadcasting SSE event"
	LogMsgBroadcastDropped      = "SSE broadcast buffer full, event dropped"
	LogMsgClientLagging         = "SSE client buffer full, event skipped"
	LogMsgWriteError            = "Failed to write SSE event"
	LogMsgSubscriberReady       = "SSE subscriber registered for event types"
	ErrMsgStreamingNotSupported = "SSE not supported"
)
