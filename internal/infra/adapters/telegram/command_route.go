package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"telegram-productivity-coach/internal/domain"
	"telegram-productivity-coach/internal/domain/model"
	"telegram-productivity-coach/internal/infra/logging"
)

const helpText = `here's what i can do:

/start - opt in to check-ins
/stop - opt out (your data is removed)
/config - show your current settings
/set_time morning <hour> - morning check-in hour (0-23)
/set_time evening <hour> - evening check-in hour (0-23)
/set_weekly_review <day> <hour> - e.g. /set_weekly_review SUN 18
/set_timezone <zone> - e.g. /set_timezone Europe/Berlin
/set_activity_check <minutes> <probability> - e.g. /set_activity_check 45 0.5
/set_clockify <api-key> - attach time reports to check-ins
/disable_clockify - stop attaching time reports
/help - this message

anything else you send me starts a conversation`

func (r *RealBotAdapter) dispatchCommand(ctx context.Context, tgID int64, command string, args []string) error {
	switch command {
	case "/start":
		return r.handleStart(ctx, tgID)
	case "/stop":
		return r.handleStop(ctx, tgID)
	case "/config":
		return r.handleShowConfig(ctx, tgID)
	case "/set_time":
		return r.handleSetTime(ctx, tgID, args)
	case "/set_weekly_review":
		return r.handleSetWeeklyReview(ctx, tgID, args)
	case "/set_timezone":
		return r.handleSetTimezone(ctx, tgID, args)
	case "/set_activity_check":
		return r.handleSetActivityCheck(ctx, tgID, args)
	case "/set_clockify":
		return r.handleSetClockify(ctx, tgID, args)
	case "/disable_clockify":
		return r.handleDisableClockify(ctx, tgID)
	case "/help":
		return r.SendDirectMessage(ctx, tgID, helpText)
	default:
		return r.SendDirectMessage(ctx, tgID, "i don't know that command. try /help")
	}
}

func (r *RealBotAdapter) handleStart(ctx context.Context, tgID int64) error {
	rec, err := r.users.OptIn(ctx, tgID)
	if errors.Is(err, domain.ErrAlreadyTracked) {
		return r.SendDirectMessage(ctx, tgID, "you're already set up! send /config to see your settings")
	}
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", tgID).Msg("opt-in failed")
		return r.SendDirectMessage(ctx, tgID, "couldn't set you up right now, try again in a bit")
	}
	greeting := "hey!"
	if handle, err := r.FetchUser(ctx, tgID); err == nil && handle != "" {
		greeting = fmt.Sprintf("hey %s!", handle)
	}
	text := fmt.Sprintf(
		"%s i'm your productivity coach. i'll check in every morning at %d:00 and evening at %d:00 (%s), plus a weekly review on %s.\n\nsend /help to see how to tune the schedule",
		greeting, rec.Config.MorningHour, rec.Config.EveningHour, rec.Config.Timezone, rec.Config.WeeklyReviewDay)
	return r.SendDirectMessage(ctx, tgID, text)
}

func (r *RealBotAdapter) handleStop(ctx context.Context, tgID int64) error {
	err := r.users.OptOut(ctx, tgID)
	if errors.Is(err, domain.ErrNotTracked) {
		return r.SendDirectMessage(ctx, tgID, "you weren't signed up. send /start if you want check-ins")
	}
	if err != nil {
		r.log.Error().Err(err).Int64("tg_id", tgID).Msg("opt-out failed")
		return r.SendDirectMessage(ctx, tgID, "couldn't process that, try again in a bit")
	}
	return r.SendDirectMessage(ctx, tgID, "done, no more check-ins. your data is gone. /start any time to come back")
}

func (r *RealBotAdapter) handleShowConfig(ctx context.Context, tgID int64) error {
	rec, err := r.users.Get(ctx, tgID)
	if errors.Is(err, domain.ErrNotTracked) {
		return r.notTracked(ctx, tgID)
	}
	if err != nil {
		return err
	}
	c := rec.Config
	tracking := "off"
	if c.TimeTrackingEnabled {
		tracking = "on"
	}
	text := fmt.Sprintf(`your settings:
- morning check-in: %d:00
- evening check-in: %d:00
- weekly review: %s %d:00
- activity checks: every %dm, probability %.2f
- timezone: %s
- time tracking: %s`,
		c.MorningHour, c.EveningHour,
		c.WeeklyReviewDay, c.WeeklyReviewHour,
		c.ActivityIntervalMinutes, c.ActivityProbability,
		c.Timezone, tracking)
	return r.SendDirectMessage(ctx, tgID, text)
}

func (r *RealBotAdapter) handleSetTime(ctx context.Context, tgID int64, args []string) error {
	if len(args) != 2 {
		return r.SendDirectMessage(ctx, tgID, "usage: /set_time morning|evening <hour>")
	}
	hour, convErr := strconv.Atoi(args[1])
	if convErr != nil {
		return r.SendDirectMessage(ctx, tgID, "hour must be a number from 0 to 23")
	}
	which := strings.ToLower(args[0])
	err := r.users.UpdateConfig(ctx, tgID, func(c *model.UserConfig) error {
		switch which {
		case "morning":
			return c.SetMorningHour(hour)
		case "evening":
			return c.SetEveningHour(hour)
		default:
			return domain.ErrInvalidArgument
		}
	})
	switch {
	case errors.Is(err, domain.ErrNotTracked):
		return r.notTracked(ctx, tgID)
	case errors.Is(err, domain.ErrInvalidHour):
		return r.SendDirectMessage(ctx, tgID, "hour must be from 0 to 23")
	case errors.Is(err, domain.ErrInvalidArgument):
		return r.SendDirectMessage(ctx, tgID, "usage: /set_time morning|evening <hour>")
	case err != nil:
		return err
	}
	return r.SendDirectMessage(ctx, tgID, fmt.Sprintf("%s check-in moved to %d:00", which, hour))
}

func (r *RealBotAdapter) handleSetWeeklyReview(ctx context.Context, tgID int64, args []string) error {
	if len(args) != 2 {
		return r.SendDirectMessage(ctx, tgID, "usage: /set_weekly_review <MON..SUN> <hour>")
	}
	day, dayErr := model.ParseWeekday(args[0])
	if dayErr != nil {
		return r.SendDirectMessage(ctx, tgID, "day must be one of MON TUE WED THU FRI SAT SUN")
	}
	hour, convErr := strconv.Atoi(args[1])
	if convErr != nil {
		return r.SendDirectMessage(ctx, tgID, "hour must be a number from 0 to 23")
	}
	err := r.users.UpdateConfig(ctx, tgID, func(c *model.UserConfig) error {
		return c.SetWeeklyReview(day, hour)
	})
	switch {
	case errors.Is(err, domain.ErrNotTracked):
		return r.notTracked(ctx, tgID)
	case errors.Is(err, domain.ErrInvalidHour):
		return r.SendDirectMessage(ctx, tgID, "hour must be from 0 to 23")
	case err != nil:
		return err
	}
	return r.SendDirectMessage(ctx, tgID, fmt.Sprintf("weekly review moved to %s %d:00", day, hour))
}

func (r *RealBotAdapter) handleSetTimezone(ctx context.Context, tgID int64, args []string) error {
	if len(args) != 1 {
		return r.SendDirectMessage(ctx, tgID, "usage: /set_timezone <zone>, e.g. /set_timezone Asia/Tokyo")
	}
	err := r.users.UpdateConfig(ctx, tgID, func(c *model.UserConfig) error {
		return c.SetTimezone(args[0])
	})
	switch {
	case errors.Is(err, domain.ErrNotTracked):
		return r.notTracked(ctx, tgID)
	case errors.Is(err, domain.ErrInvalidTimezone):
		return r.SendDirectMessage(ctx, tgID, "i don't know that timezone. use an IANA name like Europe/Berlin")
	case err != nil:
		return err
	}
	return r.SendDirectMessage(ctx, tgID, fmt.Sprintf("timezone set to %s", args[0]))
}

func (r *RealBotAdapter) handleSetActivityCheck(ctx context.Context, tgID int64, args []string) error {
	if len(args) != 2 {
		return r.SendDirectMessage(ctx, tgID, "usage: /set_activity_check <minutes> <probability>, e.g. /set_activity_check 45 0.5")
	}
	minutes, minErr := strconv.Atoi(args[0])
	prob, probErr := strconv.ParseFloat(args[1], 64)
	if minErr != nil || probErr != nil {
		return r.SendDirectMessage(ctx, tgID, "usage: /set_activity_check <minutes> <probability>")
	}
	err := r.users.UpdateConfig(ctx, tgID, func(c *model.UserConfig) error {
		return c.SetActivityCheck(minutes, prob)
	})
	switch {
	case errors.Is(err, domain.ErrNotTracked):
		return r.notTracked(ctx, tgID)
	case errors.Is(err, domain.ErrInvalidInterval):
		return r.SendDirectMessage(ctx, tgID, "interval must be between 15 and 240 minutes")
	case errors.Is(err, domain.ErrInvalidFraction):
		return r.SendDirectMessage(ctx, tgID, "probability must be between 0 and 1")
	case err != nil:
		return err
	}
	return r.SendDirectMessage(ctx, tgID,
		fmt.Sprintf("activity checks: every %dm with probability %.2f", minutes, prob))
}

func (r *RealBotAdapter) handleSetClockify(ctx context.Context, tgID int64, args []string) error {
	if len(args) != 1 {
		return r.SendDirectMessage(ctx, tgID, "usage: /set_clockify <api-key>")
	}
	if r.tracker == nil {
		return r.SendDirectMessage(ctx, tgID, "time tracking isn't enabled on this bot")
	}
	key := args[0]
	// Verify before storing so a typo'd key fails loudly here, not silently
	// at report time.
	if err := r.tracker.Authenticate(ctx, key); err != nil {
		if errors.Is(err, domain.ErrCredentialDenied) {
			return r.SendDirectMessage(ctx, tgID, "clockify rejected that key, double-check it")
		}
		r.log.Warn().Err(err).Int64("tg_id", tgID).Str("key", logging.Redact(key, false)).Msg("clockify verification failed")
		return r.SendDirectMessage(ctx, tgID, "couldn't reach clockify right now, try again in a bit")
	}
	err := r.users.UpdateConfig(ctx, tgID, func(c *model.UserConfig) error {
		return c.EnableTimeTracking(key)
	})
	switch {
	case errors.Is(err, domain.ErrNotTracked):
		return r.notTracked(ctx, tgID)
	case err != nil:
		return err
	}
	return r.SendDirectMessage(ctx, tgID, "clockify connected. i'll attach time reports to your check-ins")
}

func (r *RealBotAdapter) handleDisableClockify(ctx context.Context, tgID int64) error {
	err := r.users.UpdateConfig(ctx, tgID, func(c *model.UserConfig) error {
		c.DisableTimeTracking()
		return nil
	})
	switch {
	case errors.Is(err, domain.ErrNotTracked):
		return r.notTracked(ctx, tgID)
	case err != nil:
		return err
	}
	return r.SendDirectMessage(ctx, tgID, "time reports disabled")
}

func (r *RealBotAdapter) notTracked(ctx context.Context, tgID int64) error {
	return r.SendDirectMessage(ctx, tgID, "you're not set up yet. send /start to begin")
}
