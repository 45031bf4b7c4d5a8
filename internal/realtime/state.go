package realtime

type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosed
	StateErrored
	StateReconnecting
	// StateFailed is reached when reconnection attempts are exhausted.
	StateFailed
	// StateDisconnected is the manual terminal close.
	StateDisconnected
)

var stateNames = map[State]string{
	StateIdle:         "idle",
	StateConnecting:   "connecting",
	StateOpen:         "open",
	StateClosed:       "closed",
	StateErrored:      "errored",
	StateReconnecting: "reconnecting",
	StateFailed:       "failed",
	StateDisconnected: "disconnected",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Active reports whether a loop is running or about to run for this state.
func (s State) Active() bool {
	switch s {
	case StateIdle, StateFailed, StateDisconnected:
		return false
	default:
		return true
	}
}

// Status is emitted to the Handler on every state transition.
type Status struct {
	State             State
	ReconnectAttempts int
}

func (s Status) Connected() bool {
	return s.State == StateOpen
}
