package player

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wavedial/wavedial/internal/domain/station"
)

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name        string
		station     *station.Station
		expected    string
		expectFound bool
	}{
		{
			name:        "prefers resolved URL",
			station:     &station.Station{URL: "http://a", URLResolved: "http://b"},
			expected:    "http://b",
			expectFound: true,
		},
		{
			name:        "falls back to nominal URL",
			station:     &station.Station{URL: "http://a"},
			expected:    "http://a",
			expectFound: true,
		},
		{
			name:        "absent when neither is set",
			station:     &station.Station{Name: "silent"},
			expectFound: false,
		},
		{
			name:        "absent for nil station",
			station:     nil,
			expectFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, ok := ResolveURL(tt.station)
			assert.Equal(t, tt.expectFound, ok)
			assert.Equal(t, tt.expected, url)
		})
	}
}
