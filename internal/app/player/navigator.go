package player

import "github.com/wavedial/wavedial/internal/domain/station"

// Next returns the station after current in the playlist, wrapping
// around at the end. It returns false when the playlist is empty or the
// current station is not in it (stale navigation context, silent no-op).
func Next(pl station.Playlist, current *station.Station) (station.Station, bool) {
	return neighbor(pl, current, 1)
}

// Previous returns the station before current in the playlist, wrapping
// around at the start. Same not-found semantics as Next.
func Previous(pl station.Playlist, current *station.Station) (station.Station, bool) {
	return neighbor(pl, current, -1)
}

func neighbor(pl station.Playlist, current *station.Station, step int) (station.Station, bool) {
	if len(pl) == 0 {
		return station.Station{}, false
	}
	idx := pl.IndexOf(current)
	if idx < 0 {
		return station.Station{}, false
	}
	n := len(pl)
	return pl[(idx+step+n)%n], true
}
