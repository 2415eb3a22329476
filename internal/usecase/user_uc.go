package usecase

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-productivity-coach/internal/domain"
	"telegram-productivity-coach/internal/domain/model"
	"telegram-productivity-coach/internal/domain/ports/repository"
	"telegram-productivity-coach/internal/infra/logging"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserUseCase owns the live user mapping. Every mutation happens under the
// registry lock and is written through to the store before returning, so the
// in-memory mapping and the persisted document never drift more than one call.
type UserUseCase interface {
	OptIn(ctx context.Context, tgID int64) (*model.UserRecord, error)
	OptOut(ctx context.Context, tgID int64) error
	Get(ctx context.Context, tgID int64) (*model.UserRecord, error)
	// Snapshot returns a copy of every tracked record for iteration outside
	// the lock. Mutations found during iteration go back through Update.
	Snapshot(ctx context.Context) []*model.UserRecord
	// Update applies fn to the user's record under the lock and persists the
	// result. fn returning an error aborts without persisting.
	Update(ctx context.Context, tgID int64, fn func(*model.UserRecord) error) error
	UpdateConfig(ctx context.Context, tgID int64, fn func(*model.UserConfig) error) error
}

type userUC struct {
	mu       sync.Mutex
	users    map[string]*model.UserRecord
	store    repository.UserStore
	defaults model.UserConfig
	now      func() time.Time
	log      *zerolog.Logger
}

// NewUserUseCase loads the persisted mapping once. defaults is the immutable
// seed config copied into every new user.
func NewUserUseCase(ctx context.Context, store repository.UserStore, defaults model.UserConfig, logger *zerolog.Logger) (*userUC, error) {
	users, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	ucLog := logger.With().Str("component", "UserUC").Logger()
	return &userUC{
		users:    users,
		store:    store,
		defaults: defaults,
		now:      time.Now,
		log:      &ucLog,
	}, nil
}

func userKey(tgID int64) string { return strconv.FormatInt(tgID, 10) }

func (u *userUC) OptIn(ctx context.Context, tgID int64) (*model.UserRecord, error) {
	defer logging.TraceDuration(u.log, "UserUC.OptIn")()

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, ok := u.users[userKey(tgID)]; ok {
		return nil, domain.ErrAlreadyTracked
	}
	rec, err := model.NewUserRecord(tgID, u.now().UTC(), u.defaults)
	if err != nil {
		return nil, err
	}
	u.users[userKey(tgID)] = rec
	if err := u.persistLocked(ctx); err != nil {
		delete(u.users, userKey(tgID))
		return nil, err
	}
	u.log.Info().Int64("tg_id", tgID).Msg("user opted in")
	cp := *rec
	return &cp, nil
}

func (u *userUC) OptOut(ctx context.Context, tgID int64) error {
	defer logging.TraceDuration(u.log, "UserUC.OptOut")()

	u.mu.Lock()
	defer u.mu.Unlock()

	rec, ok := u.users[userKey(tgID)]
	if !ok {
		return domain.ErrNotTracked
	}
	delete(u.users, userKey(tgID))
	if err := u.persistLocked(ctx); err != nil {
		u.users[userKey(tgID)] = rec
		return err
	}
	u.log.Info().Int64("tg_id", tgID).Msg("user opted out")
	return nil
}

func (u *userUC) Get(ctx context.Context, tgID int64) (*model.UserRecord, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	rec, ok := u.users[userKey(tgID)]
	if !ok {
		return nil, domain.ErrNotTracked
	}
	cp := copyRecord(rec)
	return cp, nil
}

func (u *userUC) Snapshot(ctx context.Context) []*model.UserRecord {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]*model.UserRecord, 0, len(u.users))
	for _, rec := range u.users {
		out = append(out, copyRecord(rec))
	}
	return out
}

func (u *userUC) Update(ctx context.Context, tgID int64, fn func(*model.UserRecord) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	rec, ok := u.users[userKey(tgID)]
	if !ok {
		return domain.ErrNotTracked
	}
	staged := copyRecord(rec)
	if err := fn(staged); err != nil {
		return err
	}
	u.users[userKey(tgID)] = staged
	if err := u.persistLocked(ctx); err != nil {
		u.users[userKey(tgID)] = rec
		return err
	}
	return nil
}

func (u *userUC) UpdateConfig(ctx context.Context, tgID int64, fn func(*model.UserConfig) error) error {
	return u.Update(ctx, tgID, func(rec *model.UserRecord) error {
		return fn(&rec.Config)
	})
}

// persistLocked writes the whole mapping through to the store. Persistence
// failure is surfaced to the caller; the caller rolls back the in-memory
// change so memory and disk stay consistent.
func (u *userUC) persistLocked(ctx context.Context) error {
	if err := u.store.Save(ctx, u.users); err != nil {
		u.log.Error().Err(err).Msg("user store save failed")
		return err
	}
	return nil
}

func copyRecord(rec *model.UserRecord) *model.UserRecord {
	cp := *rec
	if rec.LastFired != nil {
		cp.LastFired = make(map[model.CheckKind]time.Time, len(rec.LastFired))
		for k, v := range rec.LastFired {
			cp.LastFired[k] = v
		}
	}
	cp.DailyLogs = append([]model.LogEntry(nil), rec.DailyLogs...)
	cp.WeeklyPlans = append([]model.LogEntry(nil), rec.WeeklyPlans...)
	return &cp
}
