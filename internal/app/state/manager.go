package state

import (
	"sync"

	"github.com/google/uuid"

	"github.com/wavedial/wavedial/internal/domain/station"
)

const eventBufferSize = 16

// Manager holds the shared player state with thread-safe access. It is
// created once at application start and lives for the process lifetime.
//
// Writer discipline: only the playback session writes the playing flag
// and clears the current station; only view components replace the
// playlist and request a station. Each field having exactly one writer
// category avoids lost updates between views.
type Manager struct {
	mu sync.RWMutex

	playlist station.Playlist
	current  *station.Station
	playing  bool
	visible  bool

	subs map[string]chan Event
}

// New creates a new shared state manager.
func New() *Manager {
	return &Manager{
		subs: make(map[string]chan Event),
	}
}

// Subscribe registers a new subscriber and returns its id and event
// channel. Events are delivered best-effort: a subscriber that stops
// draining its channel loses events rather than blocking writers.
func (m *Manager) Subscribe() (string, <-chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	ch := make(chan Event, eventBufferSize)
	m.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber.
func (m *Manager) Unsubscribe(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, id)
}

// SetPlaylist replaces the active playlist wholesale. Replacing the
// playlist never changes the currently playing station; only future
// navigation operates on the new playlist.
func (m *Manager) SetPlaylist(pl station.Playlist) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.playlist = make(station.Playlist, len(pl))
	copy(m.playlist, pl)
	m.broadcastLocked(Event{Type: EventPlaylistChanged, Playing: m.playing, Visible: m.visible})
}

// Playlist returns a copy of the active playlist.
func (m *Manager) Playlist() station.Playlist {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pl := make(station.Playlist, len(m.playlist))
	copy(pl, m.playlist)
	return pl
}

// RequestStation sets the current station on behalf of a view and makes
// the player visible. The playback session observes the change and
// drives the engine; views never touch the engine directly.
func (m *Manager) RequestStation(st *station.Station) {
	if st == nil {
		m.ClearStation()
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *st
	m.current = &cp
	m.visible = true
	m.broadcastLocked(Event{Type: EventStationChanged, Station: &cp, Playing: m.playing, Visible: true})
}

// ClearStation clears the current station and hides the player. Called
// by the playback session on close; a no-op when nothing is set.
func (m *Manager) ClearStation() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return
	}
	m.current = nil
	m.visible = false
	m.broadcastLocked(Event{Type: EventStationChanged, Playing: m.playing})
}

// CurrentStation returns a copy of the current station, if any.
func (m *Manager) CurrentStation() (*station.Station, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil, false
	}
	cp := *m.current
	return &cp, true
}

// SetPlaying mirrors the session phase into the shared playing flag.
// Only the playback session calls this.
func (m *Manager) SetPlaying(playing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.playing == playing {
		return
	}
	m.playing = playing
	m.broadcastLocked(Event{Type: EventPlayingChanged, Station: m.current, Playing: playing, Visible: m.visible})
}

// IsPlaying returns the shared play/pause flag.
func (m *Manager) IsPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.playing
}

// SetVisible shows or hides the player bar without touching playback.
func (m *Manager) SetVisible(visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.visible == visible {
		return
	}
	m.visible = visible
	m.broadcastLocked(Event{Type: EventVisibilityChanged, Station: m.current, Playing: m.playing, Visible: visible})
}

// IsVisible returns the player visibility flag.
func (m *Manager) IsVisible() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.visible
}

// broadcastLocked fans an event out to all subscribers without
// blocking. Must be called with m.mu held.
func (m *Manager) broadcastLocked(e Event) {
	for _, ch := range m.subs {
		select {
		case ch <- e:
		default:
			// Subscriber not draining; drop.
		}
	}
}
