package execution

// State is the life cycle position of a run
type State int

const (
	StateIdle State = iota
	StateDispatching
	StateStreaming
	StateCompleted
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Active reports whether the run can still be cancelled
func (s State) Active() bool {
	return s == StateDispatching || s == StateStreaming
}

// Terminal reports whether the run is over
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}
