package player

// Events carries the lifecycle callbacks for one load. A new Load
// supersedes the previous one; engines must stop delivering events for
// superseded loads. Any callback may be nil.
type Events struct {
	OnReady     func()               // Resource buffered enough to attempt play
	OnPlaying   func()               // Output started or resumed
	OnPaused    func()               // Output suspended
	OnBuffering func()               // Transient stall during playback
	OnFailed    func(kind ErrorKind) // Load or playback failed
}

// EmitReady invokes OnReady if set.
func (e Events) EmitReady() {
	if e.OnReady != nil {
		e.OnReady()
	}
}

// EmitPlaying invokes OnPlaying if set.
func (e Events) EmitPlaying() {
	if e.OnPlaying != nil {
		e.OnPlaying()
	}
}

// EmitPaused invokes OnPaused if set.
func (e Events) EmitPaused() {
	if e.OnPaused != nil {
		e.OnPaused()
	}
}

// EmitBuffering invokes OnBuffering if set.
func (e Events) EmitBuffering() {
	if e.OnBuffering != nil {
		e.OnBuffering()
	}
}

// EmitFailed invokes OnFailed if set.
func (e Events) EmitFailed(kind ErrorKind) {
	if e.OnFailed != nil {
		e.OnFailed(kind)
	}
}

// Engine wraps a single audio output resource. It is exclusively owned
// by the playback session; no other component may drive it directly.
//
// Engines must not hold internal locks while invoking Events callbacks,
// since the session re-enters its own lock from them.
type Engine interface {
	// Load begins asynchronous acquisition of the given stream. It
	// replaces any pending load; only the most recent load's events
	// may be delivered.
	Load(url string, ev Events) error

	// Play starts or resumes output on the loaded resource. A refusal
	// is returned as a classified *Error.
	Play() error

	// Pause suspends output without releasing the resource.
	Pause() error

	// SetVolume sets the output level as a fraction in [0,1].
	SetVolume(v float64) error

	// SetMuted silences output without altering the volume level.
	SetMuted(muted bool) error

	// Release stops output and releases the underlying resource. No
	// events are delivered after Release returns.
	Release() error
}
