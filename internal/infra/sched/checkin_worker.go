package sched

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"

	"telegram-productivity-coach/internal/domain/model"
	"telegram-productivity-coach/internal/usecase"
)

const tickTimeout = 30 * time.Second

// CheckInWorker drives the check-in engine: one cron job per check kind, all
// aligned to the top of the minute so fixed-hour checks observe minute zero.
type CheckInWorker struct {
	checkins usecase.CheckInUseCase
	log      zerolog.Logger

	sched gocron.Scheduler
}

func NewCheckInWorker(checkins usecase.CheckInUseCase, logger *zerolog.Logger) *CheckInWorker {
	l := logger.With().Str("component", "checkin_worker").Logger()
	return &CheckInWorker{checkins: checkins, log: l}
}

// Start registers the per-kind jobs and launches the scheduler. The jobs keep
// running until Stop is called; ctx bounds each individual tick, not the
// scheduler lifetime.
func (w *CheckInWorker) Start(ctx context.Context) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	w.sched = s

	kinds := append(append([]model.CheckKind{}, model.FixedKinds...), model.CheckActivity)
	for _, kind := range kinds {
		kind := kind
		if _, err := s.NewJob(
			gocron.CronJob("* * * * *", false),
			gocron.NewTask(func() { w.tick(ctx, kind) }),
		); err != nil {
			return err
		}
	}

	s.Start()
	w.log.Info().Msg("check-in scheduler started")
	return nil
}

func (w *CheckInWorker) tick(ctx context.Context, kind model.CheckKind) {
	ctx, cancel := context.WithTimeout(ctx, tickTimeout)
	defer cancel()

	fired, err := w.checkins.RunTick(ctx, kind, time.Now())
	if err != nil {
		w.log.Error().Err(err).Str("kind", string(kind)).Msg("tick failed")
		return
	}
	if fired > 0 {
		w.log.Info().Str("kind", string(kind)).Int("fired", fired).Msg("check-ins dispatched")
	}
}

func (w *CheckInWorker) Stop() error {
	if w.sched == nil {
		return nil
	}
	w.log.Info().Msg("stopping check-in scheduler")
	return w.sched.Shutdown()
}
