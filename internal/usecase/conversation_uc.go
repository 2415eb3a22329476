package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-productivity-coach/internal/domain/model"
	"telegram-productivity-coach/internal/domain/ports/adapter"
	"telegram-productivity-coach/internal/domain/ports/repository"
	"telegram-productivity-coach/internal/infra/logging"
	"telegram-productivity-coach/internal/infra/metrics"
)

// Compile-time check
var _ ConversationUseCase = (*conversationUC)(nil)

// ConversationUseCase routes an inbound free-text message through the
// assistant and back.
type ConversationUseCase interface {
	HandleInbound(ctx context.Context, tgID int64, text string) (string, error)
}

const (
	contextLogDepth = 5
	historyTurns    = 15
)

type conversationUC struct {
	users UserUseCase
	ai    adapter.Assistant
	conv  repository.ConversationStateRepository
	track adapter.TimeTrackingAdapter
	now   func() time.Time
	log   *zerolog.Logger
}

func NewConversationUseCase(users UserUseCase, ai adapter.Assistant, conv repository.ConversationStateRepository, track adapter.TimeTrackingAdapter, logger *zerolog.Logger) *conversationUC {
	ucLog := logger.With().Str("component", "ConversationUC").Logger()
	return &conversationUC{
		users: users,
		ai:    ai,
		conv:  conv,
		track: track,
		now:   time.Now,
		log:   &ucLog,
	}
}

func (c *conversationUC) HandleInbound(ctx context.Context, tgID int64, text string) (string, error) {
	defer logging.TraceDuration(c.log, "ConversationUC.HandleInbound")()

	rec, err := c.users.Get(ctx, tgID)
	if err != nil {
		return "", err
	}

	now := c.now().UTC()
	state, err := c.conv.Get(ctx, tgID)
	if err != nil {
		c.log.Warn().Err(err).Int64("tg_id", tgID).Msg("conversation state unavailable, starting fresh")
		state = nil
	}
	if state == nil {
		state = &model.ConversationState{ID: uuid.NewString(), StartedAt: now}
	}

	// Journal the inbound text and the interaction time before anything that
	// can fail remotely.
	if err := c.users.Update(ctx, tgID, func(r *model.UserRecord) error {
		r.Touch(now)
		if state.Kind == model.CheckWeekly {
			r.AppendWeeklyPlan(now, text)
		} else {
			r.AppendDailyLog(now, text)
		}
		return nil
	}); err != nil {
		return "", err
	}

	reply, err := c.generate(ctx, rec, state, text)
	if err != nil {
		return "", err
	}

	state.Apply(reply.Memory)
	if reply.EndConversation {
		// The assistant considers this exchange settled: close the
		// conversation so the next message starts with a clean slate.
		if err := c.conv.Clear(ctx, tgID); err != nil {
			c.log.Warn().Err(err).Int64("tg_id", tgID).Msg("conversation state not cleared")
		}
	} else {
		state.AppendExchange(text, reply.Text, historyTurns)
		if err := c.conv.Set(ctx, tgID, state); err != nil {
			c.log.Warn().Err(err).Int64("tg_id", tgID).Msg("conversation state not saved")
		}
	}

	out := reply.Text
	if appendix := c.timeReport(ctx, rec, state.Kind); appendix != "" {
		out += "\n\n" + appendix
	}
	return out, nil
}

func (c *conversationUC) generate(ctx context.Context, rec *model.UserRecord, state *model.ConversationState, text string) (model.AssistantReply, error) {
	prompt := adapter.Prompt{
		Kind:        state.Kind,
		UserText:    text,
		ContextNote: ContextNote(rec),
		Memory:      state.Memory,
		History:     state.History,
	}

	start := time.Now()
	reply, err := c.ai.Generate(ctx, prompt)
	metrics.ObserveAILatency(float64(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		c.log.Error().Err(err).Int64("tg_id", rec.TelegramID).Msg("assistant call failed")
		return model.AssistantReply{}, err
	}
	return reply, nil
}

// timeReport renders the optional time-tracking appendix. Any failure here
// degrades to sending the assistant reply alone.
func (c *conversationUC) timeReport(ctx context.Context, rec *model.UserRecord, kind model.CheckKind) string {
	if !rec.Config.TimeTrackingEnabled || rec.Config.TimeTrackingKey == "" {
		return ""
	}
	loc, err := rec.Config.Location()
	if err != nil {
		return ""
	}

	now := c.now().In(loc)
	var start, end time.Time
	weekly := kind == model.CheckWeekly
	if weekly {
		end = now
		start = now.AddDate(0, 0, -7)
	} else {
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 1)
	}

	entries, err := c.track.FetchEntries(ctx, rec.Config.TimeTrackingKey, start, end)
	if err != nil {
		c.log.Warn().Err(err).Int64("tg_id", rec.TelegramID).Msg("time tracking fetch failed, appendix skipped")
		return ""
	}
	if weekly {
		return RenderWeeklyReport(entries)
	}
	return RenderDailyReport(entries)
}

// ContextNote summarizes the user's recent journal for the assistant prompt.
func ContextNote(rec *model.UserRecord) string {
	note := "User's recent activity:\n"
	if plan := rec.LatestWeeklyPlan(); plan != nil {
		note += "Latest weekly plan: " + plan.Text + "\n"
	} else {
		note += "Latest weekly plan: none\n"
	}
	logs := rec.RecentDailyLogs(contextLogDepth)
	if len(logs) == 0 {
		note += "Recent daily logs: none"
		return note
	}
	note += "Recent daily logs:"
	for _, l := range logs {
		note += "\n- " + l.Text
	}
	return note
}
