// Package station provides the Station domain entity.
package station

import "strconv"

// Station represents a radio station record as served by the backend.
// The front-end treats it as read-only; all fields besides the identity
// pair are descriptive metadata.
type Station struct {
	ID          int64  `json:"id"`
	StationUUID string `json:"stationUuid"` // Globally unique station UUID (may be empty)
	Name        string `json:"name"`
	URL         string `json:"url"`         // Nominal stream URL
	URLResolved string `json:"urlResolved"` // Pre-resolved stream URL (preferred when set)
	Favicon     string `json:"favicon,omitempty"`
	Country     string `json:"country,omitempty"`
	Language    string `json:"language,omitempty"`
	Tags        string `json:"tags,omitempty"`
	Bitrate     int    `json:"bitrate,omitempty"`
	IsFavorite  bool   `json:"favorite"`
}

// Key returns the identity used for station comparison:
// the station UUID when present, otherwise the numeric id.
func (s *Station) Key() string {
	if s.StationUUID != "" {
		return s.StationUUID
	}
	return "id:" + strconv.FormatInt(s.ID, 10)
}

// Same reports whether two station records describe the same station.
func Same(a, b *Station) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Key() == b.Key()
}
