package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-productivity-coach/internal/config"
	"telegram-productivity-coach/internal/domain"
	"telegram-productivity-coach/internal/domain/ports/adapter"
	"telegram-productivity-coach/internal/usecase"
)

// RealBotAdapter polls Telegram updates via tgbotapi and fans them out to a
// worker pool. It also implements the outbound MessengerAdapter port used by
// the check-in engine.
type RealBotAdapter struct {
	bot     *tgbotapi.BotAPI
	cfg     *config.BotConfig
	users   usecase.UserUseCase
	conv    usecase.ConversationUseCase
	tracker adapter.TimeTrackingAdapter
	log     zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

var _ adapter.MessengerAdapter = (*RealBotAdapter)(nil)

func NewRealBotAdapter(
	cfg *config.BotConfig,
	users usecase.UserUseCase,
	conv usecase.ConversationUseCase,
	tracker adapter.TimeTrackingAdapter,
	logger *zerolog.Logger,
) (*RealBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if users == nil {
		return nil, errors.New("user usecase is nil")
	}
	if conv == nil {
		return nil, errors.New("conversation usecase is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	l := logger.With().Str("component", "telegram_bot").Logger()

	return &RealBotAdapter{
		bot:           bot,
		cfg:           cfg,
		users:         users,
		conv:          conv,
		tracker:       tracker,
		log:           l,
		updateWorkers: workers,
	}, nil
}

func (r *RealBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// SendDirectMessage implements the messenger port.
func (r *RealBotAdapter) SendDirectMessage(ctx context.Context, telegramID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(telegramID, text)
	_, err := r.bot.Send(msg)
	return err
}

// FetchUser resolves the chat's display handle. A Telegram API failure means
// the user blocked the bot or deleted the chat, which maps to ErrNotFound.
func (r *RealBotAdapter) FetchUser(ctx context.Context, telegramID int64) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	chat, err := r.bot.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: telegramID},
	})
	if err != nil {
		return "", fmt.Errorf("chat %d unreachable: %w", telegramID, domain.ErrNotFound)
	}
	if chat.UserName != "" {
		return chat.UserName, nil
	}
	return strings.TrimSpace(chat.FirstName + " " + chat.LastName), nil
}

func (r *RealBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil {
		return nil
	}
	msg := update.Message
	if msg.From == nil || !msg.Chat.IsPrivate() {
		return nil
	}
	tgID := msg.Chat.ID

	fields := strings.Fields(msg.Text)
	if len(fields) > 0 && strings.HasPrefix(fields[0], "/") {
		// "/set_time@BotName" -> "/set_time"
		command := strings.SplitN(fields[0], "@", 2)[0]
		return r.dispatchCommand(ctx, tgID, command, fields[1:])
	}

	if strings.TrimSpace(msg.Text) == "" {
		return nil
	}
	reply, err := r.conv.HandleInbound(ctx, tgID, msg.Text)
	if err != nil {
		if errors.Is(err, domain.ErrNotTracked) {
			return r.SendDirectMessage(ctx, tgID, "you're not set up yet. send /start to begin")
		}
		r.log.Error().Err(err).Int64("tg_id", tgID).Msg("inbound message failed")
		return r.SendDirectMessage(ctx, tgID, "sorry, something went wrong on my end. try again in a bit")
	}
	if strings.TrimSpace(reply) == "" {
		return nil
	}
	return r.SendDirectMessage(ctx, tgID, reply)
}
