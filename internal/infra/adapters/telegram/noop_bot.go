package telegram

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-productivity-coach/internal/domain/ports/adapter"
)

var _ adapter.MessengerAdapter = (*NoopBotAdapter)(nil)

// NoopBotAdapter implements adapter.MessengerAdapter for local/dev runs. It
// logs messages instead of hitting the Telegram API.
type NoopBotAdapter struct {
	log zerolog.Logger
}

func NewNoopBotAdapter(logger *zerolog.Logger) *NoopBotAdapter {
	return &NoopBotAdapter{log: logger.With().Str("component", "noop_bot").Logger()}
}

func (b *NoopBotAdapter) SendDirectMessage(ctx context.Context, tgID int64, text string) error {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	b.log.Info().Int64("tg_id", tgID).Str("text", text).Msg("noop send")
	return nil
}

func (b *NoopBotAdapter) FetchUser(ctx context.Context, tgID int64) (string, error) {
	return "dev-user", nil
}
