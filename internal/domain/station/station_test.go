package station

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSame(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *Station
		expected bool
	}{
		{
			name:     "same uuid",
			a:        &Station{StationUUID: "u1", ID: 1},
			b:        &Station{StationUUID: "u1", ID: 2},
			expected: true,
		},
		{
			name:     "uuid takes precedence over id",
			a:        &Station{StationUUID: "u1", ID: 1},
			b:        &Station{StationUUID: "u2", ID: 1},
			expected: false,
		},
		{
			name:     "falls back to numeric id",
			a:        &Station{ID: 7},
			b:        &Station{ID: 7},
			expected: true,
		},
		{
			name:     "different ids without uuid",
			a:        &Station{ID: 7},
			b:        &Station{ID: 8},
			expected: false,
		},
		{
			name:     "uuid on one side only",
			a:        &Station{StationUUID: "u1", ID: 7},
			b:        &Station{ID: 7},
			expected: false,
		},
		{
			name:     "nil is never the same",
			a:        nil,
			b:        &Station{ID: 7},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Same(tt.a, tt.b))
		})
	}
}

func TestPlaylist_IndexOf(t *testing.T) {
	pl := Playlist{
		{StationUUID: "a", Name: "A"},
		{StationUUID: "b", Name: "B"},
		{ID: 3, Name: "C"},
	}

	assert.Equal(t, 0, pl.IndexOf(&Station{StationUUID: "a"}))
	assert.Equal(t, 1, pl.IndexOf(&Station{StationUUID: "b"}))
	assert.Equal(t, 2, pl.IndexOf(&Station{ID: 3}))
	assert.Equal(t, -1, pl.IndexOf(&Station{StationUUID: "z"}))
	assert.Equal(t, -1, pl.IndexOf(nil))
	assert.Equal(t, -1, Playlist{}.IndexOf(&Station{StationUUID: "a"}))
}

func TestPlaylist_Names(t *testing.T) {
	pl := Playlist{{Name: "A"}, {Name: "B"}}
	assert.Equal(t, []string{"A", "B"}, pl.Names())
	assert.Empty(t, Playlist{}.Names())
}
