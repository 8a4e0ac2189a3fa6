// Package mpv implements the audio engine on top of an mpv process
// driven over its JSON IPC socket.
package mpv

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/wavedial/wavedial/internal/app/player"
)

const (
	socketCheckRetries  = 20
	socketCheckInterval = 100 * time.Millisecond
	commandReadDeadline = 500 * time.Millisecond
)

// Settings holds mpv engine settings, decoded from the engine settings
// map in the configuration.
type Settings struct {
	Binary     string   `mapstructure:"binary" default:"mpv"`
	SocketPath string   `mapstructure:"socket_path"`
	ExtraArgs  []string `mapstructure:"extra_args"`
	CacheSecs  int      `mapstructure:"cache_secs" default:"10" validate:"gte=0,lte=300"`
}

// command is a single mpv IPC command.
type command struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id,omitempty"`
}

// message is anything mpv writes on the IPC socket: command responses
// carry Error/RequestID, events carry Event.
type message struct {
	Error     string `json:"error"`
	Data      any    `json:"data"`
	RequestID int    `json:"request_id"`
	Event     string `json:"event"`
	Name      string `json:"name"`
	Reason    string `json:"reason"`
	FileError string `json:"file_error"`
}

// Engine drives one mpv process. Commands travel over short-lived
// connections (yielding their responses inline); a persistent
// connection receives events and feeds the current load's callbacks.
type Engine struct {
	mu       sync.Mutex
	settings Settings

	cmd      *exec.Cmd
	eventsMu sync.Mutex
	events   player.Events
	loaded   bool
	closed   bool
}

// New creates an mpv engine from the raw settings map.
func New(raw map[string]any) (*Engine, error) {
	var settings Settings
	if err := mapstructure.Decode(raw, &settings); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&settings); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(&settings); err != nil {
		return nil, errors.Wrap(err, "invalid settings")
	}
	if settings.SocketPath == "" {
		settings.SocketPath = filepath.Join(os.TempDir(), fmt.Sprintf("wavedial-mpv-%d.sock", os.Getpid()))
	}

	os.Remove(settings.SocketPath)
	return &Engine{settings: settings}, nil
}

// Load starts (if needed) the mpv process and replaces whatever it is
// playing with the given stream. The previous load's events are
// replaced first, so only the most recent load reports back.
func (e *Engine) Load(url string, ev player.Events) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return errors.New("engine is closed")
	}
	if err := e.ensureRunningLocked(); err != nil {
		return err
	}

	e.setEvents(ev)
	e.loaded = true

	// "replace" discards the current file; mpv reports its end with
	// reason "stop", which the event loop ignores.
	if _, err := e.roundTrip(command{Command: []any{"loadfile", url, "replace"}}); err != nil {
		return err
	}
	return nil
}

// Play resumes output on the loaded stream.
func (e *Engine) Play() error {
	return e.setProperty("pause", false)
}

// Pause suspends output, keeping the stream open.
func (e *Engine) Pause() error {
	return e.setProperty("pause", true)
}

// SetVolume sets the output level. mpv volume is 0..100.
func (e *Engine) SetVolume(v float64) error {
	return e.setProperty("volume", v*100)
}

// SetMuted silences output without changing the volume property.
func (e *Engine) SetMuted(muted bool) error {
	return e.setProperty("mute", muted)
}

// Release stops playback and detaches the current load's callbacks.
func (e *Engine) Release() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setEvents(player.Events{})
	e.loaded = false
	if !e.processRunningLocked() {
		return nil
	}
	_, err := e.roundTrip(command{Command: []any{"stop"}})
	return err
}

// Close terminates the mpv process and removes the socket.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	e.setEvents(player.Events{})
	if e.processRunningLocked() {
		if err := e.cmd.Process.Kill(); err != nil {
			zlog.Warn().Err(err).Msg("mpv: error terminating process")
		}
		e.cmd = nil
	}
	os.Remove(e.settings.SocketPath)
	return nil
}

func (e *Engine) setProperty(name string, value any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.processRunningLocked() {
		return errors.New("mpv is not running")
	}
	resp, err := e.roundTrip(command{Command: []any{"set_property", name, value}, RequestID: 1})
	if err != nil {
		return err
	}
	if resp != nil && resp.Error != "success" {
		return errors.Newf("mpv refused set_property %s: %s", name, resp.Error)
	}
	return nil
}

func (e *Engine) processRunningLocked() bool {
	return e.cmd != nil && e.cmd.Process != nil
}

// ensureRunningLocked spawns mpv idle with the IPC server and starts
// the event loop once the socket appears. Must be called with e.mu held.
func (e *Engine) ensureRunningLocked() error {
	if e.processRunningLocked() {
		if e.cmd.ProcessState != nil && e.cmd.ProcessState.Exited() {
			e.cmd = nil
		} else {
			return nil
		}
	}

	zlog.Info().Str("binary", e.settings.Binary).Msg("mpv: starting process")
	args := []string{
		"--idle=yes",
		"--no-video",
		"--no-config",
		"--input-ipc-server=" + e.settings.SocketPath,
		fmt.Sprintf("--cache-secs=%d", e.settings.CacheSecs),
	}
	args = append(args, e.settings.ExtraArgs...)

	cmd := exec.Command(e.settings.Binary, args...)
	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "could not start mpv process")
	}

	for i := 0; i < socketCheckRetries; i++ {
		if _, err := os.Stat(e.settings.SocketPath); err == nil {
			e.cmd = cmd
			if err := e.startEventLoopLocked(); err != nil {
				cmd.Process.Kill()
				e.cmd = nil
				return err
			}
			zlog.Info().Msg("mpv: socket detected, process ready")
			return nil
		}
		time.Sleep(socketCheckInterval)
	}

	cmd.Process.Kill()
	return errors.Newf("mpv started but socket did not appear at %s", e.settings.SocketPath)
}

// startEventLoopLocked opens the persistent event connection, subscribes
// to the properties the session cares about and spawns the reader.
func (e *Engine) startEventLoopLocked() error {
	conn, err := net.Dial("unix", e.settings.SocketPath)
	if err != nil {
		return errors.Wrap(err, "could not connect to mpv event socket")
	}

	enc := json.NewEncoder(conn)
	observed := []string{"pause", "paused-for-cache"}
	for i, prop := range observed {
		if err := enc.Encode(command{Command: []any{"observe_property", i + 1, prop}}); err != nil {
			conn.Close()
			return errors.Wrapf(err, "could not observe %s", prop)
		}
	}

	go e.readEvents(conn)
	return nil
}

// readEvents consumes the persistent event connection for the lifetime
// of the mpv process and translates mpv events to engine events.
// Callbacks are invoked without any engine lock held; the session
// re-enters its own lock from them.
func (e *Engine) readEvents(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var msg message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			zlog.Warn().Err(err).Str("line", scanner.Text()).Msg("mpv: could not parse event line")
			continue
		}
		if msg.Event == "" {
			continue
		}
		e.dispatch(msg)
	}
	if err := scanner.Err(); err != nil {
		zlog.Debug().Err(err).Msg("mpv: event socket closed")
	}
}

func (e *Engine) dispatch(msg message) {
	ev := e.currentEvents()

	switch msg.Event {
	case "file-loaded":
		ev.EmitReady()

	case "playback-restart":
		ev.EmitPlaying()

	case "end-file":
		switch msg.Reason {
		case "error":
			ev.EmitFailed(mapFileError(msg.FileError))
		case "eof":
			// A live stream has no natural end; reaching one means
			// the transport dropped.
			ev.EmitFailed(player.KindNetworkError)
		default:
			// "stop"/"quit"/"redirect" are deliberate teardowns.
		}

	case "property-change":
		switch msg.Name {
		case "pause":
			if paused, ok := msg.Data.(bool); ok {
				if paused {
					ev.EmitPaused()
				} else {
					ev.EmitPlaying()
				}
			}
		case "paused-for-cache":
			if stalled, ok := msg.Data.(bool); ok && stalled {
				ev.EmitBuffering()
			}
		}
	}
}

func (e *Engine) setEvents(ev player.Events) {
	e.eventsMu.Lock()
	e.events = ev
	e.eventsMu.Unlock()
}

func (e *Engine) currentEvents() player.Events {
	e.eventsMu.Lock()
	defer e.eventsMu.Unlock()
	return e.events
}

// roundTrip sends commands over a short-lived connection and returns
// the first response, skipping event lines interleaved by mpv.
func (e *Engine) roundTrip(cmd command) (*message, error) {
	conn, err := net.Dial("unix", e.settings.SocketPath)
	if err != nil {
		return nil, errors.Wrap(err, "could not connect to mpv socket")
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(commandReadDeadline))

	if err := json.NewEncoder(conn).Encode(cmd); err != nil {
		return nil, errors.Wrap(err, "error sending mpv command")
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var msg message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			zlog.Warn().Err(err).Str("line", scanner.Text()).Msg("mpv: could not parse response line")
			continue
		}
		if msg.Event != "" {
			continue
		}
		return &msg, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading from mpv socket")
	}
	return nil, nil
}

// mapFileError classifies mpv's end-file error strings into the
// playback taxonomy.
func mapFileError(fileError string) player.ErrorKind {
	s := strings.ToLower(fileError)
	switch {
	case strings.Contains(s, "unrecognized") || strings.Contains(s, "format"):
		return player.KindFormatUnsupported
	case strings.Contains(s, "decod"):
		return player.KindDecodeError
	case strings.Contains(s, "loading failed") || strings.Contains(s, "network") || strings.Contains(s, "connect"):
		return player.KindNetworkError
	case strings.Contains(s, "abort") || strings.Contains(s, "interrupt"):
		return player.KindAborted
	default:
		return player.KindUnknown
	}
}
