package station

// Playlist is the ordered station list defining next/previous navigation
// order for the player. A view replaces it wholesale whenever the user
// starts playback from that view's result set.
type Playlist []Station

// IndexOf returns the position of the given station in the playlist by
// identity match, or -1 if it is not present.
func (p Playlist) IndexOf(st *Station) int {
	if st == nil {
		return -1
	}
	for i := range p {
		if Same(&p[i], st) {
			return i
		}
	}
	return -1
}

// Names returns the display names of all stations, in order.
func (p Playlist) Names() []string {
	names := make([]string, len(p))
	for i := range p {
		names[i] = p[i].Name
	}
	return names
}
