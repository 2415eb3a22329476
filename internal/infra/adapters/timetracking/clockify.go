package timetracking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"telegram-productivity-coach/internal/domain"
	"telegram-productivity-coach/internal/domain/ports/adapter"
	"telegram-productivity-coach/internal/infra/metrics"
)

const requestTimeout = 15 * time.Second

// ClockifyAdapter talks to the Clockify REST API. Workspace and user IDs are
// resolved once per API key and cached, so report fetches cost a single call.
type ClockifyAdapter struct {
	client *resty.Client
	log    zerolog.Logger

	mu    sync.Mutex
	creds map[string]identity // api key -> resolved ids
}

type identity struct {
	userID      string
	workspaceID string
}

var _ adapter.TimeTrackingAdapter = (*ClockifyAdapter)(nil)

func NewClockifyAdapter(baseURL string, logger *zerolog.Logger) *ClockifyAdapter {
	l := logger.With().Str("component", "clockify_adapter").Logger()
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(requestTimeout)
	return &ClockifyAdapter{client: client, log: l, creds: make(map[string]identity)}
}

func (a *ClockifyAdapter) Authenticate(ctx context.Context, apiKey string) error {
	_, err := a.resolve(ctx, apiKey)
	return err
}

// resolve returns the user and workspace IDs for the key, fetching and
// caching them on first use.
func (a *ClockifyAdapter) resolve(ctx context.Context, apiKey string) (identity, error) {
	a.mu.Lock()
	if id, ok := a.creds[apiKey]; ok {
		a.mu.Unlock()
		return id, nil
	}
	a.mu.Unlock()

	var user struct {
		ID string `json:"id"`
	}
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", apiKey).
		SetResult(&user).
		Get("/user")
	if err != nil {
		metrics.IncTimeTracking(false)
		return identity{}, fmt.Errorf("fetch user profile: %w", err)
	}
	if resp.StatusCode() == 401 || resp.StatusCode() == 403 {
		metrics.IncTimeTracking(false)
		return identity{}, domain.ErrCredentialDenied
	}
	if resp.IsError() {
		metrics.IncTimeTracking(false)
		return identity{}, fmt.Errorf("fetch user profile: status %d", resp.StatusCode())
	}

	var workspaces []struct {
		ID string `json:"id"`
	}
	resp, err = a.client.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", apiKey).
		SetResult(&workspaces).
		Get("/workspaces")
	if err != nil {
		metrics.IncTimeTracking(false)
		return identity{}, fmt.Errorf("fetch workspaces: %w", err)
	}
	if resp.IsError() {
		metrics.IncTimeTracking(false)
		return identity{}, fmt.Errorf("fetch workspaces: status %d", resp.StatusCode())
	}
	if len(workspaces) == 0 {
		metrics.IncTimeTracking(false)
		return identity{}, fmt.Errorf("account has no workspaces: %w", domain.ErrNotFound)
	}

	id := identity{userID: user.ID, workspaceID: workspaces[0].ID}
	a.mu.Lock()
	a.creds[apiKey] = id
	a.mu.Unlock()
	metrics.IncTimeTracking(true)
	a.log.Debug().Str("workspace", id.workspaceID).Msg("resolved time-tracking identity")
	return id, nil
}

type timeEntryDTO struct {
	Description  string `json:"description"`
	TimeInterval struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	} `json:"timeInterval"`
	Project *struct {
		Name string `json:"name"`
	} `json:"project"`
}

func (a *ClockifyAdapter) FetchEntries(ctx context.Context, apiKey string, start, end time.Time) ([]adapter.TimeEntry, error) {
	id, err := a.resolve(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	var dtos []timeEntryDTO
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", apiKey).
		SetQueryParams(map[string]string{
			"start":     start.UTC().Format("2006-01-02T15:04:05Z"),
			"end":       end.UTC().Format("2006-01-02T15:04:05Z"),
			"hydrated":  "true",
			"page-size": "200",
		}).
		SetResult(&dtos).
		Get(fmt.Sprintf("/workspaces/%s/user/%s/time-entries", id.workspaceID, id.userID))
	if err != nil {
		metrics.IncTimeTracking(false)
		return nil, fmt.Errorf("fetch time entries: %w", err)
	}
	if resp.StatusCode() == 401 || resp.StatusCode() == 403 {
		metrics.IncTimeTracking(false)
		// Revoked keys should re-resolve next time instead of reusing stale IDs.
		a.mu.Lock()
		delete(a.creds, apiKey)
		a.mu.Unlock()
		return nil, domain.ErrCredentialDenied
	}
	if resp.IsError() {
		metrics.IncTimeTracking(false)
		return nil, fmt.Errorf("fetch time entries: status %d", resp.StatusCode())
	}
	metrics.IncTimeTracking(true)

	entries := make([]adapter.TimeEntry, 0, len(dtos))
	for _, d := range dtos {
		if d.TimeInterval.End.IsZero() {
			continue // still running
		}
		project := "No project"
		if d.Project != nil && d.Project.Name != "" {
			project = d.Project.Name
		}
		desc := d.Description
		if desc == "" {
			desc = "No description"
		}
		entries = append(entries, adapter.TimeEntry{
			Start:       d.TimeInterval.Start,
			End:         d.TimeInterval.End,
			Project:     project,
			Description: desc,
		})
	}
	return entries, nil
}
