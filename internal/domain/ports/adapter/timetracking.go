package adapter

import (
	"context"
	"time"
)

// TimeEntry is one tracked interval from the time-tracking service.
type TimeEntry struct {
	Start       time.Time
	End         time.Time
	Project     string
	Description string
}

// TimeTrackingAdapter is the port to the external time-tracking service.
// The credential is passed per call because each user carries their own key.
type TimeTrackingAdapter interface {
	// Authenticate verifies the credential can reach the service.
	Authenticate(ctx context.Context, apiKey string) error
	FetchEntries(ctx context.Context, apiKey string, start, end time.Time) ([]TimeEntry, error)
}
