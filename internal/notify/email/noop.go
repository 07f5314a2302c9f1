package email

import (
	"context"

	"github.com/rs/zerolog"
)

// NoopSender logs instead of sending. Used when no provider API key is
// configured, so invite flows still complete in development.
type NoopSender struct {
	log zerolog.Logger
}

// NewNoopSender creates a logging-only sender.
func NewNoopSender(log zerolog.Logger) *NoopSender {
	return &NoopSender{log: log}
}

func (s *NoopSender) Send(_ context.Context, msg Message) error {
	s.log.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("email suppressed (no provider configured)")
	return nil
}
