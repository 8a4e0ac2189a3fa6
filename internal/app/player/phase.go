// Package player provides the playback session state machine and its
// supporting contracts: the engine interface, stream URL resolution,
// failure classification and playlist navigation.
package player

// Phase represents the playback session lifecycle phase.
type Phase int

const (
	PhaseIdle    Phase = iota // No station (initial, or after close)
	PhaseLoading              // Stream acquisition in progress
	PhasePlaying              // Audio output active
	PhasePaused               // Resource held, output suspended
	PhaseErrored              // Last attempt failed; retry/setStation valid
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseErrored:
		return "errored"
	default:
		return "unknown"
	}
}
