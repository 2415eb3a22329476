package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	checkinsFired = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkins_fired_total",
			Help: "Check-in messages dispatched per kind.",
		},
		[]string{"kind"},
	)

	checkinSkips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkin_user_skips_total",
			Help: "Users skipped during a tick, by reason (bad_timezone/bad_weekday/send_failed).",
		},
		[]string{"kind", "reason"},
	)

	aiLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_reply_latency_ms",
			Help:    "Assistant round-trip latency distribution in milliseconds.",
			Buckets: []float64{50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"success"},
	)

	storeSaveErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "store_save_errors_total",
			Help: "Failed writes of the user state document.",
		},
	)

	timeTrackingCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "time_tracking_requests_total",
			Help: "Time-tracking API calls by outcome (ok/error).",
		},
		[]string{"outcome"},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			checkinsFired, checkinSkips, aiLatencyMs,
			storeSaveErrors, timeTrackingCalls,
		)
	})
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncCheckinFired(kind string) {
	checkinsFired.WithLabelValues(norm(kind)).Inc()
}

func IncCheckinSkip(kind, reason string) {
	checkinSkips.WithLabelValues(norm(kind), norm(reason)).Inc()
}

func ObserveAILatency(ms float64, success bool) {
	lbl := "true"
	if !success {
		lbl = "false"
	}
	aiLatencyMs.WithLabelValues(lbl).Observe(ms)
}

func IncStoreSaveError() { storeSaveErrors.Inc() }

func IncTimeTracking(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	timeTrackingCalls.WithLabelValues(outcome).Inc()
}
