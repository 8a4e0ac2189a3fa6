// Package engine constructs the audio engine configured for the
// application.
package engine

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/wavedial/wavedial/internal/app/player"
	"github.com/wavedial/wavedial/internal/infra/config"
	"github.com/wavedial/wavedial/internal/infra/engine/mpv"
)

// FromConfig creates the engine named by the configuration. Engine
// settings are an opaque map here; each implementation decodes its own.
func FromConfig(cfg *config.Config) (player.Engine, error) {
	zlog.Debug().Str("type", cfg.Engine.Type).Msg("engine: creating")

	switch cfg.Engine.Type {
	case "mpv":
		eng, err := mpv.New(cfg.Engine.Settings)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create mpv engine")
		}
		return eng, nil

	case "null":
		return NewNull(), nil

	default:
		return nil, errors.Newf("unsupported engine type: %s", cfg.Engine.Type)
	}
}
