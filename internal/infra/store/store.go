// Package store provides local client state persistence on bbolt: the
// installation id, the saved token pair and the last volume/mute.
// Search results are deliberately never cached here.
package store

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

var clientBucket = []byte("client")

var (
	keyClientID = []byte("client_id")
	keyTokens   = []byte("tokens")
	keyOutput   = []byte("output")
)

// Store is the local state database.
type Store struct {
	db *bbolt.DB
}

// tokenPair is the persisted auth token pair.
type tokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// outputState is the persisted volume/mute state.
type outputState struct {
	Volume float64 `json:"volume"`
	Muted  bool    `json:"muted"`
}

// Open opens (creating if needed) the store at the given path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "could not open local store")
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(clientBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not create client bucket")
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ClientID returns the stable installation id, generating and
// persisting one on first use.
func (s *Store) ClientID() (string, error) {
	var id string
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(clientBucket)
		if v := b.Get(keyClientID); v != nil {
			id = string(v)
			return nil
		}
		id = uuid.New().String()
		return b.Put(keyClientID, []byte(id))
	})
	if err != nil {
		return "", errors.Wrap(err, "could not load client id")
	}
	return id, nil
}

// SaveTokens persists the auth token pair. Empty tokens clear it.
func (s *Store) SaveTokens(token, refreshToken string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(clientBucket)
		if token == "" && refreshToken == "" {
			return b.Delete(keyTokens)
		}
		value, err := json.Marshal(tokenPair{Token: token, RefreshToken: refreshToken})
		if err != nil {
			return errors.Wrap(err, "error serializing tokens")
		}
		return b.Put(keyTokens, value)
	})
}

// Tokens returns the persisted token pair, empty when none is saved.
func (s *Store) Tokens() (string, string, error) {
	var pair tokenPair
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(clientBucket).Get(keyTokens)
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &pair)
	})
	if err != nil {
		return "", "", errors.Wrap(err, "could not load tokens")
	}
	return pair.Token, pair.RefreshToken, nil
}

// SaveOutput persists the volume/mute state.
func (s *Store) SaveOutput(volume float64, muted bool) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		value, err := json.Marshal(outputState{Volume: volume, Muted: muted})
		if err != nil {
			return errors.Wrap(err, "error serializing output state")
		}
		return tx.Bucket(clientBucket).Put(keyOutput, value)
	})
}

// Output returns the persisted volume/mute state. The second value is
// false when nothing was saved yet.
func (s *Store) Output() (float64, bool, bool, error) {
	var st outputState
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(clientBucket).Get(keyOutput)
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &st)
	})
	if err != nil {
		return 0, false, false, errors.Wrap(err, "could not load output state")
	}
	return st.Volume, st.Muted, found, nil
}
