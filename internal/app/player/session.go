package player

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/wavedial/wavedial/internal/app/state"
	"github.com/wavedial/wavedial/internal/domain/station"
)

// DefaultLoadTimeout bounds how long a stream load may take before the
// session gives up with KindTimeout.
const DefaultLoadTimeout = 15 * time.Second

// Config holds session configuration.
type Config struct {
	LoadTimeout   time.Duration // Zero means DefaultLoadTimeout
	InitialVolume float64       // Clamped to [0,1]
	InitialMuted  bool
}

// Session is the playback session state machine. It owns the engine
// exclusively, orchestrates one station's lifecycle
// (idle → loading → playing ⇄ paused, with failure and retry
// transitions) and mirrors the playing flag into shared state so views
// never poll the engine.
//
// A generation counter guards against late callbacks from superseded
// loads: a slow-to-fail old stream can never overwrite the state of a
// newly selected station.
type Session struct {
	mu sync.Mutex

	engine Engine
	shared *state.Manager

	phase     Phase
	current   *station.Station
	streamURL string
	volume    float64
	muted     bool
	lastErr   *Error

	gen         uint64
	loaded      bool
	loadTimer   *time.Timer
	loadTimeout time.Duration
}

// NewSession creates a playback session around the given engine and
// shared state. Volume and mute persist across station changes.
func NewSession(engine Engine, shared *state.Manager, cfg Config) *Session {
	timeout := cfg.LoadTimeout
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	return &Session{
		engine:      engine,
		shared:      shared,
		phase:       PhaseIdle,
		volume:      clampVolume(cfg.InitialVolume),
		muted:       cfg.InitialMuted,
		loadTimeout: timeout,
	}
}

// Run drives the session from shared state changes: station requests
// from views become SetStation calls, until ctx is done. Intended to be
// run in its own goroutine.
func (s *Session) Run(ctx context.Context) {
	id, ch := s.shared.Subscribe()
	defer s.shared.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			if ev.Type != state.EventStationChanged {
				continue
			}
			s.SetStation(ev.Station)
		}
	}
}

// SetStation makes the given station current and starts loading its
// stream. A nil station is equivalent to Close. Requesting the station
// that is already live is a no-op; requesting a different one tears the
// current engine resource down first, so no two stations ever play
// concurrently.
func (s *Session) SetStation(st *station.Station) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st == nil {
		s.closeLocked()
		return
	}

	if station.Same(st, s.current) {
		switch s.phase {
		case PhaseLoading, PhasePlaying, PhasePaused:
			return
		}
	}

	// Supersede any pending load before touching the resource.
	s.gen++
	s.stopLoadTimerLocked()
	s.releaseLocked()

	cp := *st
	s.current = &cp
	s.lastErr = nil

	url, ok := ResolveURL(&cp)
	if !ok {
		s.streamURL = ""
		zlog.Warn().Str("station", cp.Name).Msg("player: station has no stream URL")
		s.failLocked(KindNoStreamURL)
		return
	}

	s.streamURL = url
	s.startLoadLocked()
}

// Play starts or resumes playback. Calling it while already playing is
// a no-op. From Errored(AutoplayBlocked) it performs the manual-gesture
// recovery: a direct engine play on the already buffered resource, not
// a fresh load.
func (s *Session) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhasePlaying:
		return
	case PhasePaused:
		s.attemptPlayLocked()
	case PhaseErrored:
		if s.lastErr != nil && s.lastErr.Kind == KindAutoplayBlocked && s.loaded {
			s.attemptPlayLocked()
		}
	}
}

// Pause suspends playback without releasing the resource.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePlaying {
		return
	}
	if err := s.engine.Pause(); err != nil {
		zlog.Warn().Err(err).Msg("player: pause failed")
	}
	s.phase = PhasePaused
	s.shared.SetPlaying(false)
}

// Retry recovers from Errored. The load is re-issued with the exact URL
// that failed; AutoplayBlocked instead re-attempts play on the resource
// already held.
func (s *Session) Retry() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseErrored || s.current == nil {
		return
	}

	if s.lastErr != nil && s.lastErr.Kind == KindAutoplayBlocked && s.loaded {
		s.attemptPlayLocked()
		return
	}

	if s.streamURL == "" {
		// NoStreamUrl is terminal; re-resolving cannot be proven futile
		// but will land back here when the record is unchanged.
		url, ok := ResolveURL(s.current)
		if !ok {
			s.failLocked(KindNoStreamURL)
			return
		}
		s.streamURL = url
	}
	s.startLoadLocked()
}

// Close releases the engine resource and returns the session to Idle,
// clearing station and error. Valid in every state.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

// SetVolume sets the output level, a fraction in [0,1]. It persists
// across station changes and applies immediately when a resource is
// loaded, otherwise on the next load.
func (s *Session) SetVolume(v float64) {
	v = clampVolume(v)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.volume = v
	if s.loaded {
		if err := s.engine.SetVolume(v); err != nil {
			zlog.Warn().Err(err).Msg("player: set volume failed")
		}
	}
}

// SetMuted silences or restores output. Muting does not alter the
// volume level; unmuting restores it exactly.
func (s *Session) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.muted = muted
	if s.loaded {
		if err := s.engine.SetMuted(muted); err != nil {
			zlog.Warn().Err(err).Msg("player: set muted failed")
		}
	}
}

// Volume returns the session volume.
func (s *Session) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// Muted returns the session mute flag.
func (s *Session) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// CurrentStation returns a copy of the station being played or
// prepared, if any.
func (s *Session) CurrentStation() (*station.Station, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, false
	}
	cp := *s.current
	return &cp, true
}

// LastError returns the classified error of the last failed attempt.
func (s *Session) LastError() (ErrorKind, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastErr == nil {
		return KindUnknown, false
	}
	return s.lastErr.Kind, true
}

// startLoadLocked begins a new load attempt for s.streamURL: bumps the
// generation, enters Loading, arms the load timeout and applies the
// persisted volume/mute to the fresh resource.
func (s *Session) startLoadLocked() {
	s.lastErr = nil
	s.gen++
	gen := s.gen
	s.phase = PhaseLoading
	s.shared.SetPlaying(false)
	s.stopLoadTimerLocked()

	zlog.Debug().Str("url", s.streamURL).Uint64("gen", gen).Msg("player: loading stream")

	err := s.engine.Load(s.streamURL, Events{
		OnReady:     func() { s.onReady(gen) },
		OnPlaying:   func() { s.onPlaying(gen) },
		OnPaused:    func() { s.onPaused(gen) },
		OnBuffering: func() { s.onBuffering(gen) },
		OnFailed:    func(k ErrorKind) { s.onFailed(gen, k) },
	})
	if err != nil {
		zlog.Error().Err(err).Str("url", s.streamURL).Msg("player: load failed to start")
		s.failLocked(classifyErr(err))
		return
	}
	s.loaded = true

	if err := s.engine.SetVolume(s.volume); err != nil {
		zlog.Debug().Err(err).Msg("player: applying volume to new load failed")
	}
	if err := s.engine.SetMuted(s.muted); err != nil {
		zlog.Debug().Err(err).Msg("player: applying mute to new load failed")
	}

	s.loadTimer = time.AfterFunc(s.loadTimeout, func() { s.onLoadTimeout(gen) })
}

// attemptPlayLocked asks the engine to start output and lands in
// Playing or Errored. Engine refusals arrive as classified errors.
func (s *Session) attemptPlayLocked() {
	if err := s.engine.Play(); err != nil {
		kind := classifyErr(err)
		zlog.Warn().Err(err).Str("kind", kind.String()).Msg("player: play refused")
		s.failLocked(kind)
		return
	}
	s.lastErr = nil
	s.phase = PhasePlaying
	s.shared.SetPlaying(true)
}

// failLocked records a classified failure and settles in Errored, a
// stable state from which Retry and SetStation remain valid.
func (s *Session) failLocked(kind ErrorKind) {
	s.stopLoadTimerLocked()
	s.lastErr = &Error{Kind: kind}
	s.phase = PhaseErrored
	s.shared.SetPlaying(false)
}

// closeLocked tears the session down to Idle.
func (s *Session) closeLocked() {
	if s.phase == PhaseIdle && s.current == nil {
		return
	}

	s.gen++
	s.stopLoadTimerLocked()
	s.releaseLocked()
	s.phase = PhaseIdle
	s.current = nil
	s.streamURL = ""
	s.lastErr = nil
	s.shared.SetPlaying(false)
	s.shared.ClearStation()
}

// releaseLocked deterministically stops output and frees the engine
// resource before a new one may be acquired.
func (s *Session) releaseLocked() {
	if !s.loaded {
		return
	}
	if err := s.engine.Release(); err != nil {
		zlog.Warn().Err(err).Msg("player: release failed")
	}
	s.loaded = false
}

func (s *Session) stopLoadTimerLocked() {
	if s.loadTimer != nil {
		s.loadTimer.Stop()
		s.loadTimer = nil
	}
}

// Engine event handlers. Each compares the load generation first so
// callbacks from superseded loads are discarded unacted upon.

func (s *Session) onReady(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.phase != PhaseLoading {
		return
	}
	s.stopLoadTimerLocked()
	s.attemptPlayLocked()
}

func (s *Session) onPlaying(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return
	}
	switch s.phase {
	case PhaseLoading:
		s.stopLoadTimerLocked()
		fallthrough
	case PhasePaused:
		s.phase = PhasePlaying
		s.shared.SetPlaying(true)
	}
}

func (s *Session) onPaused(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.phase != PhasePlaying {
		return
	}
	s.phase = PhasePaused
	s.shared.SetPlaying(false)
}

func (s *Session) onBuffering(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return
	}
	zlog.Debug().Msg("player: buffering")
}

func (s *Session) onFailed(gen uint64, kind ErrorKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		zlog.Debug().Str("kind", kind.String()).Msg("player: ignoring failure from superseded load")
		return
	}
	zlog.Warn().Str("kind", kind.String()).Msg("player: engine reported failure")
	s.failLocked(kind)
}

// onLoadTimeout fires when a load exceeds the timeout with neither
// ready nor failure. The generation is bumped so any engine callback
// for the expired load arriving later is disregarded.
func (s *Session) onLoadTimeout(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.phase != PhaseLoading {
		return
	}
	zlog.Warn().Str("url", s.streamURL).Dur("timeout", s.loadTimeout).Msg("player: load timed out")
	s.gen++
	s.releaseLocked()
	s.failLocked(KindTimeout)
}

// classifyErr extracts the kind from a classified engine error, mapping
// anything else to KindUnknown.
func classifyErr(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

func clampVolume(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
