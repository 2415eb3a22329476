package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("minimal config gets defaults", func(t *testing.T) {
		path := writeConfig(t, "bot:\n  token: \"123:abc\"\n")
		cfg, err := LoadConfig(path, false)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Bot.Workers != 8 {
			t.Errorf("Workers = %d, want 8", cfg.Bot.Workers)
		}
		if cfg.Store.Path != "user_data.json" {
			t.Errorf("Store.Path = %q", cfg.Store.Path)
		}
		if cfg.AI.DefaultModel != "gpt-4o-mini" || cfg.AI.MaxTokens != 1000 {
			t.Errorf("AI defaults = %+v", cfg.AI)
		}
		if cfg.TimeTracking.BaseURL != "https://api.clockify.me/api/v1" {
			t.Errorf("TimeTracking.BaseURL = %q", cfg.TimeTracking.BaseURL)
		}

		defaults, err := cfg.UserDefaults()
		if err != nil {
			t.Fatalf("UserDefaults() error = %v", err)
		}
		if defaults.MorningHour != 9 || defaults.EveningHour != 21 {
			t.Errorf("check-in defaults = %+v", defaults)
		}
		if defaults.WeeklyReviewDay != "SUN" || defaults.WeeklyReviewHour != 18 {
			t.Errorf("weekly defaults = %+v", defaults)
		}
		if defaults.ActivityIntervalMinutes != 30 || defaults.ActivityProbability != 0.3 {
			t.Errorf("activity defaults = %+v", defaults)
		}
		if defaults.Timezone != "UTC" {
			t.Errorf("Timezone = %q", defaults.Timezone)
		}
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		path := writeConfig(t, "log:\n  level: debug\n")
		if _, err := LoadConfig(path, false); err == nil {
			t.Error("LoadConfig() accepted a config without bot.token")
		}
	})

	t.Run("invalid defaults are rejected at load time", func(t *testing.T) {
		path := writeConfig(t, `bot:
  token: "123:abc"
defaults:
  morning_hour: 9
  evening_hour: 21
  weekly_review_day: FUNDAY
  timezone: UTC
`)
		if _, err := LoadConfig(path, false); err == nil {
			t.Error("LoadConfig() accepted an invalid weekly_review_day")
		}
	})

	t.Run("explicit values survive", func(t *testing.T) {
		path := writeConfig(t, `bot:
  token: "123:abc"
  workers: 4
redis:
  url: localhost:6379
defaults:
  morning_hour: 7
  evening_hour: 22
  weekly_review_day: fri
  weekly_review_hour: 17
  activity_interval_minutes: 60
  activity_probability: 0.5
  timezone: Europe/Berlin
`)
		cfg, err := LoadConfig(path, true)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if !cfg.Runtime.Dev {
			t.Error("dev flag not carried")
		}
		if cfg.Bot.Workers != 4 {
			t.Errorf("Workers = %d", cfg.Bot.Workers)
		}
		if cfg.Redis.URL != "localhost:6379" || cfg.Redis.TTL <= 0 {
			t.Errorf("Redis = %+v, want URL kept and TTL defaulted", cfg.Redis)
		}
		defaults, err := cfg.UserDefaults()
		if err != nil {
			t.Fatal(err)
		}
		if defaults.MorningHour != 7 || defaults.WeeklyReviewDay != "FRI" || defaults.Timezone != "Europe/Berlin" {
			t.Errorf("defaults = %+v", defaults)
		}
	})
}
