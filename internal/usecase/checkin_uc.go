package usecase

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-productivity-coach/internal/domain"
	"telegram-productivity-coach/internal/domain/model"
	"telegram-productivity-coach/internal/domain/ports/adapter"
	"telegram-productivity-coach/internal/domain/ports/repository"
	"telegram-productivity-coach/internal/domain/schedule"
	"telegram-productivity-coach/internal/infra/logging"
	"telegram-productivity-coach/internal/infra/metrics"
)

// Compile-time check
var _ CheckInUseCase = (*checkinUC)(nil)

// CheckInUseCase evaluates one check-in family across every tracked user.
type CheckInUseCase interface {
	// RunTick runs a single evaluation pass for kind at now. Returns how many
	// messages were dispatched. One user's bad state or unreachable chat never
	// aborts the pass for the remaining users.
	RunTick(ctx context.Context, kind model.CheckKind, now time.Time) (int, error)
}

type checkinUC struct {
	users UserUseCase
	bot   adapter.MessengerAdapter
	conv  repository.ConversationStateRepository
	log   *zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewCheckInUseCase(users UserUseCase, bot adapter.MessengerAdapter, conv repository.ConversationStateRepository, rng *rand.Rand, logger *zerolog.Logger) *checkinUC {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	ucLog := logger.With().Str("component", "CheckInUC").Logger()
	return &checkinUC{
		users: users,
		bot:   bot,
		conv:  conv,
		rng:   rng,
		log:   &ucLog,
	}
}

func (c *checkinUC) RunTick(ctx context.Context, kind model.CheckKind, now time.Time) (int, error) {
	defer logging.TraceDuration(c.log, "CheckInUC.RunTick")()

	if !kind.Valid() {
		return 0, domain.ErrInvalidArgument
	}
	fired := 0
	for _, rec := range c.users.Snapshot(ctx) {
		if c.evaluateUser(ctx, kind, now, rec) {
			fired++
		}
	}
	if fired > 0 {
		c.log.Info().Str("kind", string(kind)).Int("count", fired).Msg("check-ins dispatched")
	}
	return fired, nil
}

// evaluateUser runs the predicate for one user and, on fire, dispatches and
// persists the state delta. Reports whether a message went out.
func (c *checkinUC) evaluateUser(ctx context.Context, kind model.CheckKind, now time.Time, rec *model.UserRecord) bool {
	switch kind {
	case model.CheckActivity:
		return c.evaluateActivity(ctx, now, rec)
	default:
		return c.evaluateFixed(ctx, kind, now, rec)
	}
}

func (c *checkinUC) evaluateFixed(ctx context.Context, kind model.CheckKind, now time.Time, rec *model.UserRecord) bool {
	loc, err := rec.Config.Location()
	if err != nil {
		metrics.IncCheckinSkip(string(kind), "bad_timezone")
		c.log.Warn().Int64("tg_id", rec.TelegramID).Str("tz", rec.Config.Timezone).Msg("invalid timezone, user skipped this tick")
		return false
	}
	nowLocal := now.In(loc)

	due := false
	switch kind {
	case model.CheckMorning:
		due = schedule.DailyDue(nowLocal, rec.Config.MorningHour, rec.LastFired[kind])
	case model.CheckEvening:
		due = schedule.DailyDue(nowLocal, rec.Config.EveningHour, rec.LastFired[kind])
	case model.CheckWeekly:
		day, err := rec.Config.WeeklyReviewDay.Time()
		if err != nil {
			metrics.IncCheckinSkip(string(kind), "bad_weekday")
			c.log.Warn().Int64("tg_id", rec.TelegramID).Str("day", string(rec.Config.WeeklyReviewDay)).Msg("invalid weekday, user skipped this tick")
			return false
		}
		due = schedule.WeeklyDue(nowLocal, day, rec.Config.WeeklyReviewHour, rec.LastFired[kind])
	}
	if !due {
		return false
	}

	// Record the fire before dispatching: the guard exists to prevent a
	// duplicate prompt, and a failed send is not retried within the window.
	if err := c.users.Update(ctx, rec.TelegramID, func(r *model.UserRecord) error {
		r.MarkFired(kind, now)
		return nil
	}); err != nil {
		c.log.Error().Err(err).Int64("tg_id", rec.TelegramID).Msg("persisting fire guard failed")
		return false
	}

	return c.dispatch(ctx, kind, rec.TelegramID)
}

func (c *checkinUC) evaluateActivity(ctx context.Context, now time.Time, rec *model.UserRecord) bool {
	var last time.Time
	if rec.LastActivityCheck != nil {
		last = *rec.LastActivityCheck
	}
	interval := time.Duration(rec.Config.ActivityIntervalMinutes) * time.Minute
	if !schedule.ActivityDue(now, last, interval) {
		return false
	}

	// An elapsed check resets the due-timer whether or not the dice send a
	// message: that bounds check frequency to exactly the interval.
	if err := c.users.Update(ctx, rec.TelegramID, func(r *model.UserRecord) error {
		r.MarkActivityChecked(now)
		return nil
	}); err != nil {
		c.log.Error().Err(err).Int64("tg_id", rec.TelegramID).Msg("persisting activity check failed")
		return false
	}

	if !c.roll(rec.Config.ActivityProbability) {
		return false
	}
	return c.dispatch(ctx, model.CheckActivity, rec.TelegramID)
}

func (c *checkinUC) dispatch(ctx context.Context, kind model.CheckKind, tgID int64) bool {
	text := c.pick(kind)
	if err := c.bot.SendDirectMessage(ctx, tgID, text); err != nil {
		metrics.IncCheckinSkip(string(kind), "send_failed")
		c.log.Warn().Err(err).Int64("tg_id", tgID).Str("kind", string(kind)).Msg("check-in send failed")
		return false
	}

	// Open a conversation so the user's reply is routed with the right intent.
	state := &model.ConversationState{
		ID:        uuid.NewString(),
		Kind:      kind,
		StartedAt: time.Now().UTC(),
	}
	if prev, err := c.conv.Get(ctx, tgID); err == nil && prev != nil {
		state.Memory = prev.Memory // working memory outlives a single check-in
	}
	if err := c.conv.Set(ctx, tgID, state); err != nil {
		c.log.Warn().Err(err).Int64("tg_id", tgID).Msg("conversation state not recorded")
	}

	metrics.IncCheckinFired(string(kind))
	return true
}

func (c *checkinUC) pick(kind model.CheckKind) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return PickMessage(c.rng, kind)
}

func (c *checkinUC) roll(p float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return schedule.Roll(c.rng, p)
}
