package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"telegram-productivity-coach/internal/domain/model"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string `yaml:"token"`
	Username string `yaml:"username"`
	Workers  int    `yaml:"workers"` // polling workers
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type StoreConfig struct {
	Path string `yaml:"path"` // user state document
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty -> in-process conversation state
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	OpenAIKey       string `yaml:"openai_key"`
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	DefaultModel    string `yaml:"default_model"`
	MaxTokens       int    `yaml:"max_tokens"`
	ConcurrentLimit int    `yaml:"concurrent_limit"` // max concurrent AI calls
}

type TimeTrackingConfig struct {
	BaseURL string `yaml:"base_url"`
}

type OpsConfig struct {
	Port int `yaml:"port"` // /health + /metrics
}

// DefaultsConfig seeds every new user's UserConfig. It is read once at
// startup and passed by value into user creation, never mutated afterwards.
type DefaultsConfig struct {
	MorningHour             int     `yaml:"morning_hour"`
	EveningHour             int     `yaml:"evening_hour"`
	WeeklyReviewDay         string  `yaml:"weekly_review_day"`
	WeeklyReviewHour        int     `yaml:"weekly_review_hour"`
	ActivityIntervalMinutes int     `yaml:"activity_interval_minutes"`
	ActivityProbability     float64 `yaml:"activity_probability"`
	Timezone                string  `yaml:"timezone"`
}

type Config struct {
	Bot          BotConfig          `yaml:"bot"`
	Log          LogConfig          `yaml:"log"`
	Store        StoreConfig        `yaml:"store"`
	Redis        RedisConfig        `yaml:"redis"`
	AI           AIConfig           `yaml:"ai"`
	TimeTracking TimeTrackingConfig `yaml:"time_tracking"`
	Ops          OpsConfig          `yaml:"ops"`
	Defaults     DefaultsConfig     `yaml:"defaults"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "user_data.json"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gpt-4o-mini"
	}
	if cfg.AI.MaxTokens <= 0 {
		cfg.AI.MaxTokens = 1000
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.TimeTracking.BaseURL == "" {
		cfg.TimeTracking.BaseURL = "https://api.clockify.me/api/v1"
	}
	if cfg.Ops.Port <= 0 {
		cfg.Ops.Port = 8080
	}
	applyDefaultUserConfig(&cfg.Defaults)

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if _, err := cfg.UserDefaults(); err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyDefaultUserConfig(d *DefaultsConfig) {
	if d.MorningHour == 0 && d.EveningHour == 0 && d.Timezone == "" {
		// section omitted entirely
		d.MorningHour = 9
		d.EveningHour = 21
	}
	if d.WeeklyReviewDay == "" {
		d.WeeklyReviewDay = "SUN"
	}
	if d.WeeklyReviewHour == 0 {
		d.WeeklyReviewHour = 18
	}
	if d.ActivityIntervalMinutes == 0 {
		d.ActivityIntervalMinutes = 30
	}
	if d.ActivityProbability == 0 {
		d.ActivityProbability = 0.3
	}
	if d.Timezone == "" {
		d.Timezone = "UTC"
	}
}

// UserDefaults validates the defaults section through the same setters user
// commands go through and returns the immutable per-user seed config.
func (c *Config) UserDefaults() (model.UserConfig, error) {
	var uc model.UserConfig
	if err := uc.SetMorningHour(c.Defaults.MorningHour); err != nil {
		return uc, err
	}
	if err := uc.SetEveningHour(c.Defaults.EveningHour); err != nil {
		return uc, err
	}
	day, err := model.ParseWeekday(c.Defaults.WeeklyReviewDay)
	if err != nil {
		return uc, err
	}
	if err := uc.SetWeeklyReview(day, c.Defaults.WeeklyReviewHour); err != nil {
		return uc, err
	}
	if err := uc.SetActivityCheck(c.Defaults.ActivityIntervalMinutes, c.Defaults.ActivityProbability); err != nil {
		return uc, err
	}
	if err := uc.SetTimezone(c.Defaults.Timezone); err != nil {
		return uc, err
	}
	return uc, nil
}
