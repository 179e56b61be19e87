package app

// State represents the current application state.
type State int

const (
	StateIdle     State = iota // Ready for user input
	StateAwaiting              // Waiting for the assistant reply
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaiting:
		return "awaiting"
	default:
		return "unknown"
	}
}
