package channel

// State is the controller's visible state. Exactly one is active at a time.
type State int

const (
	// StateIdle means the channel is ready for a new interaction.
	StateIdle State = iota

	// StateRecording means a background interaction task is in flight.
	StateRecording

	// StateError means the channel failed and needs an explicit reset.
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
