package timetracking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-productivity-coach/internal/domain"
)

func newTestAdapter(t *testing.T, handler http.Handler) (*ClockifyAdapter, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	return NewClockifyAdapter(srv.URL, &log), srv
}

func clockifyHandler(profileCalls *int32) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		atomic.AddInt32(profileCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "user-1"}`))
	})
	mux.HandleFunc("/workspaces", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": "ws-1"}, {"id": "ws-2"}]`))
	})
	mux.HandleFunc("/workspaces/ws-1/user/user-1/time-entries", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") == "" || r.URL.Query().Get("end") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"description": "parser work", "project": {"name": "compiler"},
			 "timeInterval": {"start": "2026-08-28T09:00:00Z", "end": "2026-08-28T10:30:00Z"}},
			{"description": "", "project": null,
			 "timeInterval": {"start": "2026-08-28T11:00:00Z", "end": "2026-08-28T11:45:00Z"}},
			{"description": "running now", "project": {"name": "compiler"},
			 "timeInterval": {"start": "2026-08-28T12:00:00Z", "end": "0001-01-01T00:00:00Z"}}
		]`))
	})
	return mux
}

func TestClockifyAdapter_Authenticate(t *testing.T) {
	var calls int32
	a, _ := newTestAdapter(t, clockifyHandler(&calls))

	t.Run("valid key resolves and caches identity", func(t *testing.T) {
		if err := a.Authenticate(context.Background(), "good-key"); err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
		if err := a.Authenticate(context.Background(), "good-key"); err != nil {
			t.Fatalf("second Authenticate() error = %v", err)
		}
		if got := atomic.LoadInt32(&calls); got != 1 {
			t.Errorf("profile endpoint hit %d times, want 1 (cached)", got)
		}
	})

	t.Run("rejected key returns credential error", func(t *testing.T) {
		err := a.Authenticate(context.Background(), "bad-key")
		if !errors.Is(err, domain.ErrCredentialDenied) {
			t.Errorf("Authenticate() error = %v, want ErrCredentialDenied", err)
		}
	})
}

func TestClockifyAdapter_FetchEntries(t *testing.T) {
	var calls int32
	a, _ := newTestAdapter(t, clockifyHandler(&calls))

	start := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	entries, err := a.FetchEntries(context.Background(), "good-key", start, start.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("FetchEntries() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (open interval skipped)", len(entries))
	}
	if entries[0].Project != "compiler" || entries[0].Description != "parser work" {
		t.Errorf("entry[0] = %+v", entries[0])
	}
	if entries[1].Project != "No project" || entries[1].Description != "No description" {
		t.Errorf("entry[1] placeholders = %+v", entries[1])
	}
	if got := entries[0].End.Sub(entries[0].Start); got != 90*time.Minute {
		t.Errorf("entry[0] duration = %v, want 90m", got)
	}
}
