package player

import "github.com/wavedial/wavedial/internal/domain/station"

// ResolveURL selects the stream URL to attempt for a station: the
// pre-resolved URL when non-empty, otherwise the nominal URL. The second
// return value is false when the station carries no usable URL at all,
// a terminal condition the session maps to KindNoStreamURL without any
// network attempt.
func ResolveURL(st *station.Station) (string, bool) {
	if st == nil {
		return "", false
	}
	if st.URLResolved != "" {
		return st.URLResolved, true
	}
	if st.URL != "" {
		return st.URL, true
	}
	return "", false
}
