package model_test

import (
	"errors"
	"testing"
	"time"

	"telegram-productivity-coach/internal/domain"
	"telegram-productivity-coach/internal/domain/model"
)

func TestUserConfig_Setters(t *testing.T) {
	t.Run("hours", func(t *testing.T) {
		var c model.UserConfig
		for _, h := range []int{0, 9, 23} {
			if err := c.SetMorningHour(h); err != nil {
				t.Errorf("SetMorningHour(%d) = %v", h, err)
			}
		}
		for _, h := range []int{-1, 24, 100} {
			if err := c.SetMorningHour(h); !errors.Is(err, domain.ErrInvalidHour) {
				t.Errorf("SetMorningHour(%d) = %v, want ErrInvalidHour", h, err)
			}
			if err := c.SetEveningHour(h); !errors.Is(err, domain.ErrInvalidHour) {
				t.Errorf("SetEveningHour(%d) = %v, want ErrInvalidHour", h, err)
			}
		}
	})

	t.Run("activity check bounds", func(t *testing.T) {
		var c model.UserConfig
		cases := []struct {
			mins int
			prob float64
			want error
		}{
			{15, 0, nil},
			{240, 1, nil},
			{30, 0.3, nil},
			{14, 0.3, domain.ErrInvalidInterval},
			{241, 0.3, domain.ErrInvalidInterval},
			{30, -0.1, domain.ErrInvalidFraction},
			{30, 1.1, domain.ErrInvalidFraction},
		}
		for _, tc := range cases {
			err := c.SetActivityCheck(tc.mins, tc.prob)
			if !errors.Is(err, tc.want) {
				t.Errorf("SetActivityCheck(%d, %v) = %v, want %v", tc.mins, tc.prob, err, tc.want)
			}
		}
	})

	t.Run("rejected values never stick", func(t *testing.T) {
		var c model.UserConfig
		if err := c.SetActivityCheck(30, 0.3); err != nil {
			t.Fatal(err)
		}
		_ = c.SetActivityCheck(10, 0.5)
		if c.ActivityIntervalMinutes != 30 || c.ActivityProbability != 0.3 {
			t.Errorf("config mutated by rejected setter: %+v", c)
		}
	})

	t.Run("timezone", func(t *testing.T) {
		var c model.UserConfig
		if err := c.SetTimezone("Europe/Berlin"); err != nil {
			t.Fatal(err)
		}
		if _, err := c.Location(); err != nil {
			t.Errorf("Location() = %v", err)
		}
		for _, tz := range []string{"", "  ", "Not/AZone"} {
			if err := c.SetTimezone(tz); !errors.Is(err, domain.ErrInvalidTimezone) {
				t.Errorf("SetTimezone(%q) = %v, want ErrInvalidTimezone", tz, err)
			}
		}
	})

	t.Run("time tracking", func(t *testing.T) {
		var c model.UserConfig
		if err := c.EnableTimeTracking(" "); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("EnableTimeTracking(blank) = %v", err)
		}
		if err := c.EnableTimeTracking("key"); err != nil {
			t.Fatal(err)
		}
		if !c.TimeTrackingEnabled || c.TimeTrackingKey != "key" {
			t.Errorf("config = %+v", c)
		}
		c.DisableTimeTracking()
		if c.TimeTrackingEnabled {
			t.Error("still enabled after disable")
		}
	})
}

func TestParseWeekday(t *testing.T) {
	for _, s := range []string{"MON", "mon", " Sun "} {
		if _, err := model.ParseWeekday(s); err != nil {
			t.Errorf("ParseWeekday(%q) = %v", s, err)
		}
	}
	for _, s := range []string{"", "MONDAY", "XYZ"} {
		if _, err := model.ParseWeekday(s); !errors.Is(err, domain.ErrInvalidWeekday) {
			t.Errorf("ParseWeekday(%q) = %v, want ErrInvalidWeekday", s, err)
		}
	}
	wd, err := model.Weekday("WED").Time()
	if err != nil || wd != time.Wednesday {
		t.Errorf("Weekday(WED).Time() = %v, %v", wd, err)
	}
	if _, err := model.Weekday("???").Time(); !errors.Is(err, domain.ErrInvalidWeekday) {
		t.Errorf("corrupt weekday error = %v", err)
	}
}

func TestUserRecord(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	t.Run("creation copies defaults", func(t *testing.T) {
		defaults := model.UserConfig{MorningHour: 9}
		a, err := model.NewUserRecord(1, now, defaults)
		if err != nil {
			t.Fatal(err)
		}
		b, err := model.NewUserRecord(2, now, defaults)
		if err != nil {
			t.Fatal(err)
		}
		a.Config.MorningHour = 6
		if b.Config.MorningHour != 9 {
			t.Error("defaults shared between records")
		}
		if _, err := model.NewUserRecord(0, now, defaults); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("NewUserRecord(0) = %v", err)
		}
	})

	t.Run("activity mark is monotonic", func(t *testing.T) {
		rec, _ := model.NewUserRecord(1, now, model.UserConfig{})
		rec.MarkActivityChecked(now)
		rec.MarkActivityChecked(now.Add(-time.Hour)) // out-of-order tick
		if !rec.LastActivityCheck.Equal(now) {
			t.Errorf("LastActivityCheck = %v, want %v", rec.LastActivityCheck, now)
		}
	})

	t.Run("journal helpers", func(t *testing.T) {
		rec, _ := model.NewUserRecord(1, now, model.UserConfig{})
		if rec.LatestWeeklyPlan() != nil {
			t.Error("LatestWeeklyPlan on empty record")
		}
		for i := 0; i < 7; i++ {
			rec.AppendDailyLog(now.Add(time.Duration(i)*time.Hour), string(rune('a'+i)))
		}
		recent := rec.RecentDailyLogs(5)
		if len(recent) != 5 || recent[0].Text != "c" || recent[4].Text != "g" {
			t.Errorf("RecentDailyLogs(5) = %+v", recent)
		}
		if got := rec.RecentDailyLogs(0); got != nil {
			t.Errorf("RecentDailyLogs(0) = %+v", got)
		}

		rec.AppendWeeklyPlan(now, "plan a")
		rec.AppendWeeklyPlan(now.Add(time.Hour), "plan b")
		if plan := rec.LatestWeeklyPlan(); plan == nil || plan.Text != "plan b" {
			t.Errorf("LatestWeeklyPlan() = %+v", plan)
		}
	})
}

func TestConversationState(t *testing.T) {
	t.Run("memory delta application order", func(t *testing.T) {
		s := &model.ConversationState{Memory: map[string]string{"a": "1", "b": "2"}}
		s.Apply(&model.MemoryUpdate{
			Add:    map[string]string{"c": "3"},
			Update: map[string]string{"b": "20"},
			Delete: []string{"a"},
		})
		want := map[string]string{"b": "20", "c": "3"}
		if len(s.Memory) != len(want) {
			t.Fatalf("Memory = %+v, want %+v", s.Memory, want)
		}
		for k, v := range want {
			if s.Memory[k] != v {
				t.Errorf("Memory[%q] = %q, want %q", k, s.Memory[k], v)
			}
		}
		s.Apply(nil) // no-op
	})

	t.Run("history is trimmed to the turn budget", func(t *testing.T) {
		s := &model.ConversationState{}
		for i := 0; i < 5; i++ {
			s.AppendExchange("u", "a", 3)
		}
		if len(s.History) != 6 {
			t.Fatalf("History length = %d, want 6 (3 turns)", len(s.History))
		}
		if s.History[0].Role != "user" || s.History[5].Role != "assistant" {
			t.Error("trim broke the user/assistant pairing")
		}
	})
}
