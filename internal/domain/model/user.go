package model

import (
	"strings"
	"time"

	"telegram-productivity-coach/internal/domain"
)

// Weekday is the day of week as stored in user config ("MON".."SUN").
type Weekday string

const (
	Monday    Weekday = "MON"
	Tuesday   Weekday = "TUE"
	Wednesday Weekday = "WED"
	Thursday  Weekday = "THU"
	Friday    Weekday = "FRI"
	Saturday  Weekday = "SAT"
	Sunday    Weekday = "SUN"
)

var weekdays = map[Weekday]time.Weekday{
	Monday: time.Monday, Tuesday: time.Tuesday, Wednesday: time.Wednesday,
	Thursday: time.Thursday, Friday: time.Friday, Saturday: time.Saturday,
	Sunday: time.Sunday,
}

// ParseWeekday maps a config token like "mon" or "SUN" to a Weekday.
func ParseWeekday(s string) (Weekday, error) {
	d := Weekday(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := weekdays[d]; !ok {
		return "", domain.ErrInvalidWeekday
	}
	return d, nil
}

// Time returns the stdlib weekday, or an error when the stored value is
// corrupt (e.g. hand-edited state file).
func (d Weekday) Time() (time.Weekday, error) {
	wd, ok := weekdays[d]
	if !ok {
		return 0, domain.ErrInvalidWeekday
	}
	return wd, nil
}

// UserConfig is the per-user check-in configuration. All mutation goes
// through the validating setters so an invalid value is never stored.
type UserConfig struct {
	MorningHour             int     `json:"morning_hour"`
	EveningHour             int     `json:"evening_hour"`
	WeeklyReviewDay         Weekday `json:"weekly_review_day"`
	WeeklyReviewHour        int     `json:"weekly_review_hour"`
	ActivityIntervalMinutes int     `json:"activity_interval_minutes"`
	ActivityProbability     float64 `json:"activity_probability"`
	Timezone                string  `json:"timezone"`
	TimeTrackingEnabled     bool    `json:"time_tracking_enabled"`
	TimeTrackingKey         string  `json:"time_tracking_key,omitempty"`
}

func validHour(h int) bool { return h >= 0 && h <= 23 }

func (c *UserConfig) SetMorningHour(h int) error {
	if !validHour(h) {
		return domain.ErrInvalidHour
	}
	c.MorningHour = h
	return nil
}

func (c *UserConfig) SetEveningHour(h int) error {
	if !validHour(h) {
		return domain.ErrInvalidHour
	}
	c.EveningHour = h
	return nil
}

func (c *UserConfig) SetWeeklyReview(day Weekday, hour int) error {
	if _, err := day.Time(); err != nil {
		return err
	}
	if !validHour(hour) {
		return domain.ErrInvalidHour
	}
	c.WeeklyReviewDay = day
	c.WeeklyReviewHour = hour
	return nil
}

func (c *UserConfig) SetActivityCheck(intervalMinutes int, probability float64) error {
	if intervalMinutes < 15 || intervalMinutes > 240 {
		return domain.ErrInvalidInterval
	}
	if probability < 0 || probability > 1 {
		return domain.ErrInvalidFraction
	}
	c.ActivityIntervalMinutes = intervalMinutes
	c.ActivityProbability = probability
	return nil
}

func (c *UserConfig) SetTimezone(tz string) error {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return domain.ErrInvalidTimezone
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return domain.ErrInvalidTimezone
	}
	c.Timezone = tz
	return nil
}

func (c *UserConfig) EnableTimeTracking(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.ErrInvalidArgument
	}
	c.TimeTrackingKey = key
	c.TimeTrackingEnabled = true
	return nil
}

func (c *UserConfig) DisableTimeTracking() {
	c.TimeTrackingEnabled = false
}

// Location resolves the configured zone. Records written by older builds or
// edited by hand may carry an unknown zone; callers must skip the user on error.
func (c *UserConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, domain.ErrInvalidTimezone
	}
	return loc, nil
}

// LogEntry is a single free-text journal entry.
type LogEntry struct {
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

// UserRecord is the whole per-user state as persisted in the store document.
type UserRecord struct {
	TelegramID        int64                   `json:"telegram_id"`
	JoinedAt          time.Time               `json:"joined_at"`
	Config            UserConfig              `json:"config"`
	LastInteraction   *time.Time              `json:"last_interaction,omitempty"`
	LastActivityCheck *time.Time              `json:"last_activity_check,omitempty"`
	LastFired         map[CheckKind]time.Time `json:"last_fired,omitempty"`
	DailyLogs         []LogEntry              `json:"daily_logs"`
	WeeklyPlans       []LogEntry              `json:"weekly_plans"`
}

// NewUserRecord creates a fresh record at opt-in time. The defaults value is
// copied, so later edits to one user never leak into another.
func NewUserRecord(tgID int64, now time.Time, defaults UserConfig) (*UserRecord, error) {
	if tgID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &UserRecord{
		TelegramID: tgID,
		JoinedAt:   now,
		Config:     defaults,
		LastFired:  map[CheckKind]time.Time{},
	}, nil
}

// MarkActivityChecked advances the activity due-timer. It never moves
// backwards, even if ticks are delivered out of order.
func (u *UserRecord) MarkActivityChecked(t time.Time) {
	if u.LastActivityCheck != nil && u.LastActivityCheck.After(t) {
		return
	}
	u.LastActivityCheck = &t
}

// MarkFired records that a fixed-hour check fired, guarding against a second
// fire within the same hour window.
func (u *UserRecord) MarkFired(kind CheckKind, t time.Time) {
	if u.LastFired == nil {
		u.LastFired = map[CheckKind]time.Time{}
	}
	u.LastFired[kind] = t
}

func (u *UserRecord) Touch(t time.Time) { u.LastInteraction = &t }

func (u *UserRecord) AppendDailyLog(t time.Time, text string) {
	u.DailyLogs = append(u.DailyLogs, LogEntry{At: t, Text: text})
}

func (u *UserRecord) AppendWeeklyPlan(t time.Time, text string) {
	u.WeeklyPlans = append(u.WeeklyPlans, LogEntry{At: t, Text: text})
}

// RecentDailyLogs returns up to n most recent daily entries, oldest first.
func (u *UserRecord) RecentDailyLogs(n int) []LogEntry {
	if n <= 0 || len(u.DailyLogs) == 0 {
		return nil
	}
	if len(u.DailyLogs) > n {
		return u.DailyLogs[len(u.DailyLogs)-n:]
	}
	return u.DailyLogs
}

// LatestWeeklyPlan returns the most recent weekly plan, or nil.
func (u *UserRecord) LatestWeeklyPlan() *LogEntry {
	if len(u.WeeklyPlans) == 0 {
		return nil
	}
	return &u.WeeklyPlans[len(u.WeeklyPlans)-1]
}
