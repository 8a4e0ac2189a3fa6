package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavedial/wavedial/internal/domain/station"
)

func TestManager_PlaylistReplacedWholesale(t *testing.T) {
	m := New()

	first := station.Playlist{{StationUUID: "a"}, {StationUUID: "b"}}
	m.SetPlaylist(first)
	assert.Len(t, m.Playlist(), 2)

	m.SetPlaylist(station.Playlist{{StationUUID: "c"}})
	pl := m.Playlist()
	require.Len(t, pl, 1)
	assert.Equal(t, "c", pl[0].StationUUID)
}

func TestManager_PlaylistIsCopied(t *testing.T) {
	m := New()

	src := station.Playlist{{StationUUID: "a", Name: "A"}}
	m.SetPlaylist(src)
	src[0].Name = "mutated"

	pl := m.Playlist()
	assert.Equal(t, "A", pl[0].Name)

	// Mutating the returned copy must not leak back either.
	pl[0].Name = "mutated again"
	assert.Equal(t, "A", m.Playlist()[0].Name)
}

func TestManager_RequestAndClearStation(t *testing.T) {
	m := New()

	_, ok := m.CurrentStation()
	assert.False(t, ok)
	assert.False(t, m.IsVisible())

	m.RequestStation(&station.Station{StationUUID: "a", Name: "A"})
	current, ok := m.CurrentStation()
	require.True(t, ok)
	assert.Equal(t, "A", current.Name)
	assert.True(t, m.IsVisible(), "requesting a station shows the player")

	m.ClearStation()
	_, ok = m.CurrentStation()
	assert.False(t, ok)
	assert.False(t, m.IsVisible())
}

func TestManager_RequestNilClearsStation(t *testing.T) {
	m := New()

	m.RequestStation(&station.Station{StationUUID: "a"})
	m.RequestStation(nil)

	_, ok := m.CurrentStation()
	assert.False(t, ok)
}

func TestManager_ReplacingPlaylistKeepsCurrentStation(t *testing.T) {
	m := New()

	m.RequestStation(&station.Station{StationUUID: "a", Name: "A"})
	m.SetPlaying(true)

	m.SetPlaylist(station.Playlist{{StationUUID: "x"}, {StationUUID: "y"}})

	current, ok := m.CurrentStation()
	require.True(t, ok)
	assert.Equal(t, "A", current.Name)
	assert.True(t, m.IsPlaying())
}

func TestManager_SubscribeReceivesChanges(t *testing.T) {
	m := New()
	id, ch := m.Subscribe()
	defer m.Unsubscribe(id)

	m.RequestStation(&station.Station{StationUUID: "a", Name: "A"})

	ev := <-ch
	assert.Equal(t, EventStationChanged, ev.Type)
	require.NotNil(t, ev.Station)
	assert.Equal(t, "A", ev.Station.Name)
	assert.True(t, ev.Visible)

	m.SetPlaying(true)
	ev = <-ch
	assert.Equal(t, EventPlayingChanged, ev.Type)
	assert.True(t, ev.Playing)

	// No event for a no-op write.
	m.SetPlaying(true)
	select {
	case ev = <-ch:
		t.Fatalf("unexpected event %v for unchanged state", ev.Type)
	default:
	}
}

func TestManager_SlowSubscriberDoesNotBlockWriters(t *testing.T) {
	m := New()
	id, _ := m.Subscribe()
	defer m.Unsubscribe(id)

	// Never drained; writers must not block once the buffer fills.
	for i := 0; i < eventBufferSize*2; i++ {
		m.SetPlaying(i%2 == 0)
	}
}

func TestManager_UnsubscribeStopsDelivery(t *testing.T) {
	m := New()
	id, ch := m.Subscribe()
	m.Unsubscribe(id)

	m.SetPlaying(true)

	select {
	case _, open := <-ch:
		assert.False(t, open)
	default:
		// Nothing delivered, which is what we want.
	}
}

func TestManager_VisibilityIndependentOfPlayback(t *testing.T) {
	m := New()

	m.RequestStation(&station.Station{StationUUID: "a"})
	m.SetPlaying(true)

	m.SetVisible(false)
	assert.False(t, m.IsVisible())
	assert.True(t, m.IsPlaying(), "hiding the bar must not stop playback")

	m.SetVisible(true)
	assert.True(t, m.IsVisible())
}
