// Package state provides the process-wide shared player state: the one
// channel through which the playback session and the view layer
// communicate.
package state

import "github.com/wavedial/wavedial/internal/domain/station"

// EventType represents a shared state change.
type EventType int

const (
	EventPlaylistChanged   EventType = iota // Active playlist replaced
	EventStationChanged                     // Current station requested or cleared
	EventPlayingChanged                     // Play/pause flag flipped
	EventVisibilityChanged                  // Player bar shown or hidden
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventPlaylistChanged:
		return "playlist_changed"
	case EventStationChanged:
		return "station_changed"
	case EventPlayingChanged:
		return "playing_changed"
	case EventVisibilityChanged:
		return "visibility_changed"
	default:
		return "unknown"
	}
}

// Event is a shared state change notification. Station is nil for
// events that do not carry one and for a cleared current station.
type Event struct {
	Type    EventType
	Station *station.Station
	Playing bool
	Visible bool
}
