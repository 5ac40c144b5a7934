package realtime

// State represents the connection lifecycle state of a Manager.
// Exactly one state exists per Manager; transitions are published to all
// registered state-change subscribers in the order they occur.
type State int32

const (
	// StateDisconnected means no connection exists and none is being attempted.
	StateDisconnected State = iota
	// StateConnecting means the initial connection attempt is in flight.
	StateConnecting
	// StateConnected means the push connection is established.
	StateConnected
	// StateReconnecting means an established session dropped and automatic
	// recovery is in progress.
	StateReconnecting
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	}
	return "unknown"
}

// Connected reports whether the state represents an established connection.
func (s State) Connected() bool {
	return s == StateConnected
}
