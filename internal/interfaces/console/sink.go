package console

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/NumberChiffre/SimpleLOBStream/internal/application/port"
)

// Sink logs published bundles instead of storing them. Used when Redis is
// disabled by config.
type Sink struct{}

func NewSink() port.Sink { return &Sink{} }

func (s *Sink) Publish(ctx context.Context, symbol string, payload []byte) error {
	log.Info().Str("symbol", symbol).RawJSON("bundle", payload).Msg("book update")
	return nil
}
