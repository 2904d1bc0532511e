package pipeline

// State is the pipeline lifecycle state.
type State int32

const (
	// Running accepts and decodes frames.
	Running State = iota
	// ShuttingDown rejects new frames; the consumer drains what is queued.
	ShuttingDown
	// Stopped means the consumer has exited.
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting_down"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}
