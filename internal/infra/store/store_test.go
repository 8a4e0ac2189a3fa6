package store

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestStore_ClientIDIsStable(t *testing.T) {
	s, path := openTestStore(t)

	id, err := s.ClientID()
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err, "client id should be a uuid")

	again, err := s.ClientID()
	require.NoError(t, err)
	assert.Equal(t, id, again)

	// Survives reopening the database.
	require.NoError(t, s.Close())
	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	persisted, err := reopened.ClientID()
	require.NoError(t, err)
	assert.Equal(t, id, persisted)
}

func TestStore_TokensRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)

	token, refresh, err := s.Tokens()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, refresh)

	require.NoError(t, s.SaveTokens("t1", "r1"))

	token, refresh, err = s.Tokens()
	require.NoError(t, err)
	assert.Equal(t, "t1", token)
	assert.Equal(t, "r1", refresh)
}

func TestStore_EmptyTokensClear(t *testing.T) {
	s, _ := openTestStore(t)

	require.NoError(t, s.SaveTokens("t1", "r1"))
	require.NoError(t, s.SaveTokens("", ""))

	token, refresh, err := s.Tokens()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, refresh)
}

func TestStore_OutputRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)

	_, _, found, err := s.Output()
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SaveOutput(0.37, true))

	volume, muted, found, err := s.Output()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 0.37, volume)
	assert.True(t, muted)

	require.NoError(t, s.SaveOutput(1.0, false))

	volume, muted, found, err = s.Output()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1.0, volume)
	assert.False(t, muted)
}
