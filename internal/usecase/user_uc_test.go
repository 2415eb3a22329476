//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"telegram-productivity-coach/internal/domain"
	"telegram-productivity-coach/internal/domain/model"
)

func TestUserUC_OptInOptOut(t *testing.T) {
	ctx := context.Background()

	t.Run("opt-in creates record with defaults and persists", func(t *testing.T) {
		store := &MockUserStore{}
		users := newUsers(t, store)

		rec, err := users.OptIn(ctx, 42)
		if err != nil {
			t.Fatalf("OptIn() error = %v", err)
		}
		if rec.Config.MorningHour != 9 || rec.Config.EveningHour != 21 {
			t.Errorf("defaults not applied: %+v", rec.Config)
		}
		if store.SaveCount != 1 {
			t.Errorf("SaveCount = %d, want 1", store.SaveCount)
		}
		if _, ok := store.LastSaved["42"]; !ok {
			t.Error("persisted document missing user key")
		}
	})

	t.Run("double opt-in is rejected", func(t *testing.T) {
		users := newUsers(t, &MockUserStore{})
		if _, err := users.OptIn(ctx, 42); err != nil {
			t.Fatal(err)
		}
		if _, err := users.OptIn(ctx, 42); !errors.Is(err, domain.ErrAlreadyTracked) {
			t.Errorf("second OptIn() error = %v, want ErrAlreadyTracked", err)
		}
	})

	t.Run("opt-out removes everything, re-opt-in starts fresh", func(t *testing.T) {
		users := newUsers(t, &MockUserStore{})
		if _, err := users.OptIn(ctx, 42); err != nil {
			t.Fatal(err)
		}
		if err := users.UpdateConfig(ctx, 42, func(c *model.UserConfig) error {
			return c.SetMorningHour(6)
		}); err != nil {
			t.Fatal(err)
		}
		if err := users.OptOut(ctx, 42); err != nil {
			t.Fatalf("OptOut() error = %v", err)
		}
		if _, err := users.Get(ctx, 42); !errors.Is(err, domain.ErrNotTracked) {
			t.Errorf("Get() after opt-out = %v, want ErrNotTracked", err)
		}

		rec, err := users.OptIn(ctx, 42)
		if err != nil {
			t.Fatal(err)
		}
		if rec.Config.MorningHour != 9 {
			t.Errorf("re-opt-in MorningHour = %d, want default 9 (old config must not survive)", rec.Config.MorningHour)
		}
	})

	t.Run("opt-out of unknown user", func(t *testing.T) {
		users := newUsers(t, &MockUserStore{})
		if err := users.OptOut(ctx, 7); !errors.Is(err, domain.ErrNotTracked) {
			t.Errorf("OptOut() = %v, want ErrNotTracked", err)
		}
	})
}

func TestUserUC_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("setter rejection leaves record and store untouched", func(t *testing.T) {
		store := &MockUserStore{}
		users := newUsers(t, store)
		if _, err := users.OptIn(ctx, 42); err != nil {
			t.Fatal(err)
		}
		savesBefore := store.SaveCount

		err := users.UpdateConfig(ctx, 42, func(c *model.UserConfig) error {
			return c.SetMorningHour(24)
		})
		if !errors.Is(err, domain.ErrInvalidHour) {
			t.Fatalf("UpdateConfig() error = %v, want ErrInvalidHour", err)
		}
		if store.SaveCount != savesBefore {
			t.Errorf("store saved on rejected update")
		}
		rec, _ := users.Get(ctx, 42)
		if rec.Config.MorningHour != 9 {
			t.Errorf("MorningHour = %d, want unchanged 9", rec.Config.MorningHour)
		}
	})

	t.Run("save failure rolls back in-memory state", func(t *testing.T) {
		store := &MockUserStore{}
		users := newUsers(t, store)
		if _, err := users.OptIn(ctx, 42); err != nil {
			t.Fatal(err)
		}

		boom := errors.New("disk full")
		store.SaveFunc = func(ctx context.Context, m map[string]*model.UserRecord) error { return boom }

		err := users.UpdateConfig(ctx, 42, func(c *model.UserConfig) error {
			return c.SetEveningHour(22)
		})
		if !errors.Is(err, boom) {
			t.Fatalf("UpdateConfig() error = %v, want save failure", err)
		}
		rec, _ := users.Get(ctx, 42)
		if rec.Config.EveningHour != 21 {
			t.Errorf("EveningHour = %d, want rollback to 21", rec.Config.EveningHour)
		}
	})

	t.Run("snapshot copies are isolated from the registry", func(t *testing.T) {
		users := newUsers(t, &MockUserStore{})
		if _, err := users.OptIn(ctx, 42); err != nil {
			t.Fatal(err)
		}
		snap := users.Snapshot(ctx)
		if len(snap) != 1 {
			t.Fatalf("snapshot size = %d, want 1", len(snap))
		}
		snap[0].Config.MorningHour = 3

		rec, _ := users.Get(ctx, 42)
		if rec.Config.MorningHour != 9 {
			t.Errorf("registry mutated through snapshot copy")
		}
	})
}
