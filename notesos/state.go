package notesos

// ConnectionState represents the current state of the realtime channel.
type ConnectionState int

const (
	// StateIdle means no connection has been attempted yet.
	StateIdle ConnectionState = iota

	// StateConnecting means the client is dialing the server.
	StateConnecting

	// StateOpen means the channel is established and delivering messages.
	StateOpen

	// StateReconnecting means an unexpected close occurred and a backoff
	// timer is pending.
	StateReconnecting

	// StateExhausted means the automatic retry ceiling was reached; only a
	// manual Connect leaves this state.
	StateExhausted

	// StateClosed means the caller disconnected intentionally.
	StateClosed
)

// String returns the string representation of a ConnectionState.
func (s ConnectionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateReconnecting:
		return "reconnecting"
	case StateExhausted:
		return "exhausted"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// StateEvent represents a state change event.
type StateEvent struct {
	OldState ConnectionState
	NewState ConnectionState
	Error    error // Optional error that caused the state change
}
