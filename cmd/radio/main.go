// Package main provides the wavedial client entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/wavedial/wavedial/internal/app/console"
	"github.com/wavedial/wavedial/internal/app/player"
	"github.com/wavedial/wavedial/internal/app/state"
	"github.com/wavedial/wavedial/internal/infra/api"
	"github.com/wavedial/wavedial/internal/infra/config"
	"github.com/wavedial/wavedial/internal/infra/engine"
	"github.com/wavedial/wavedial/internal/infra/logger"
	"github.com/wavedial/wavedial/internal/infra/store"
)

var (
	app        = kingpin.New("wavedial", "radio station discovery and playback client")
	configPath = app.Flag("config", "Path to config file").Default("config/client.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stderr)").String()
	serverURL  = app.Flag("server", "Backend base URL (overrides config)").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	// Log to stderr by default so the prompt on stdout stays clean.
	loggerConfig := logger.Config{Output: "stderr", Level: "info"}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
		loggerConfig.File = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}
	if *serverURL != "" {
		cfg.Server.BaseURL = *serverURL
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Client error: %v", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to built-in defaults
// when the default path does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		zlog.Info().Str("path", path).Msg("no config file, using defaults")
		return config.Default()
	}
	zlog.Info().Str("path", path).Msg("loading config")
	return config.Load(path)
}

// run wires the client and hands control to the console. Using a
// separate function ensures defer statements execute even when
// returning with an error.
func run(cfg *config.Config) error {
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	clientID, err := st.ClientID()
	if err != nil {
		return err
	}

	apiClient, err := api.New(api.Config{
		BaseURL:  cfg.Server.BaseURL,
		Timeout:  time.Duration(cfg.Server.TimeoutMs) * time.Millisecond,
		ClientID: clientID,
	})
	if err != nil {
		return err
	}

	// Restore a saved session, if any.
	token, refresh, err := st.Tokens()
	if err != nil {
		return err
	}
	if token != "" || refresh != "" {
		apiClient.SetTokens(token, refresh)
		zlog.Debug().Msg("restored saved tokens")
	}

	eng, err := engine.FromConfig(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closer, ok := eng.(io.Closer); ok {
			closer.Close()
		}
	}()

	volume := cfg.Playback.InitialVolume
	muted := false
	if v, m, found, err := st.Output(); err == nil && found {
		volume, muted = v, m
	}

	shared := state.New()
	session := player.NewSession(eng, shared, player.Config{
		LoadTimeout:   time.Duration(cfg.Playback.LoadTimeoutMs) * time.Millisecond,
		InitialVolume: volume,
		InitialMuted:  muted,
	})
	defer session.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go session.Run(ctx)

	return console.New(apiClient, shared, session, st, os.Stdin, os.Stdout).Run(ctx)
}
