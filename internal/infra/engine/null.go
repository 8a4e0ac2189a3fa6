package engine

import (
	"sync"

	"github.com/wavedial/wavedial/internal/app/player"
)

// Null is a silent engine for headless runs and smoke tests: every load
// reports ready immediately and playback succeeds without producing
// audio.
type Null struct {
	mu     sync.Mutex
	events player.Events
	loaded bool
}

// NewNull creates a null engine.
func NewNull() *Null {
	return &Null{}
}

// Load records the load and reports readiness asynchronously.
func (n *Null) Load(url string, ev player.Events) error {
	n.mu.Lock()
	n.events = ev
	n.loaded = true
	n.mu.Unlock()

	// Deliver off the caller's stack, as a real engine would.
	go ev.EmitReady()
	return nil
}

// Play succeeds when a resource is loaded.
func (n *Null) Play() error {
	n.mu.Lock()
	ev := n.events
	loaded := n.loaded
	n.mu.Unlock()

	if !loaded {
		return &player.Error{Kind: player.KindUnknown}
	}
	go ev.EmitPlaying()
	return nil
}

// Pause suspends the pretend output.
func (n *Null) Pause() error {
	n.mu.Lock()
	ev := n.events
	n.mu.Unlock()

	go ev.EmitPaused()
	return nil
}

// SetVolume is a no-op.
func (n *Null) SetVolume(float64) error { return nil }

// SetMuted is a no-op.
func (n *Null) SetMuted(bool) error { return nil }

// Release detaches the current load.
func (n *Null) Release() error {
	n.mu.Lock()
	n.events = player.Events{}
	n.loaded = false
	n.mu.Unlock()
	return nil
}
