// Package schedule holds the pure check-in predicates. Everything here is a
// function of explicit inputs — the callers own clocks, randomness and state.
package schedule

import (
	"math/rand"
	"time"
)

// DailyDue reports whether a fixed-hour daily check should fire at nowLocal
// (expressed in the user's zone). The poll cadence is one evaluation per
// minute, so the minute-zero equality holds for exactly one evaluation;
// lastFired additionally guards against a re-fire on the same local day if
// the cadence ever drifts.
func DailyDue(nowLocal time.Time, hour int, lastFired time.Time) bool {
	if nowLocal.Hour() != hour || nowLocal.Minute() != 0 {
		return false
	}
	return !sameLocalDay(lastFired, nowLocal)
}

// WeeklyDue is DailyDue constrained to a weekday, with a same-week guard.
func WeeklyDue(nowLocal time.Time, day time.Weekday, hour int, lastFired time.Time) bool {
	if nowLocal.Weekday() != day {
		return false
	}
	if nowLocal.Hour() != hour || nowLocal.Minute() != 0 {
		return false
	}
	return !sameISOWeek(lastFired, nowLocal)
}

// ActivityDue reports whether the probabilistic activity check is due: the
// timer is unset, or at least interval has elapsed since the last evaluation.
// Due-ness is independent of whether a message was ever dispatched — the
// caller resets the timer on every due evaluation, which bounds the check
// frequency to exactly one per interval.
func ActivityDue(now, lastCheck time.Time, interval time.Duration) bool {
	if lastCheck.IsZero() {
		return true
	}
	return now.Sub(lastCheck) >= interval
}

// Roll draws the dispatch gate for a due activity check.
func Roll(rng *rand.Rand, probability float64) bool {
	return rng.Float64() < probability
}

func sameLocalDay(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func sameISOWeek(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	a = a.In(b.Location())
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}
