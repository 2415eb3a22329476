//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-productivity-coach/internal/domain/model"
	"telegram-productivity-coach/internal/domain/ports/adapter"
	"telegram-productivity-coach/internal/domain/ports/repository"
	"telegram-productivity-coach/internal/usecase"
)

// -----------------------------
// Utilities: tiny helpers
// -----------------------------

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func testDefaults(t *testing.T) model.UserConfig {
	t.Helper()
	var c model.UserConfig
	if err := c.SetMorningHour(9); err != nil {
		t.Fatal(err)
	}
	if err := c.SetEveningHour(21); err != nil {
		t.Fatal(err)
	}
	if err := c.SetWeeklyReview(model.Sunday, 18); err != nil {
		t.Fatal(err)
	}
	if err := c.SetActivityCheck(30, 0.3); err != nil {
		t.Fatal(err)
	}
	if err := c.SetTimezone("UTC"); err != nil {
		t.Fatal(err)
	}
	return c
}

func newUsers(t *testing.T, store repository.UserStore) usecase.UserUseCase {
	t.Helper()
	uc, err := usecase.NewUserUseCase(context.Background(), store, testDefaults(t), newTestLogger())
	if err != nil {
		t.Fatalf("NewUserUseCase: %v", err)
	}
	return uc
}

// =============================
// Repositories
// =============================

// ---- Mock UserStore ----

type MockUserStore struct {
	mu        sync.Mutex
	SaveCount int
	LastSaved map[string]*model.UserRecord

	LoadFunc func(ctx context.Context) (map[string]*model.UserRecord, error)
	SaveFunc func(ctx context.Context, users map[string]*model.UserRecord) error
}

var _ repository.UserStore = (*MockUserStore)(nil)

func (m *MockUserStore) Load(ctx context.Context) (map[string]*model.UserRecord, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return map[string]*model.UserRecord{}, nil
}

func (m *MockUserStore) Save(ctx context.Context, users map[string]*model.UserRecord) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, users)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCount++
	snapshot := make(map[string]*model.UserRecord, len(users))
	for k, v := range users {
		cp := *v
		snapshot[k] = &cp
	}
	m.LastSaved = snapshot
	return nil
}

// ---- Mock ConversationStateRepository ----

type MockConversationRepo struct {
	mu     sync.Mutex
	states map[int64]*model.ConversationState

	GetFunc   func(ctx context.Context, tgID int64) (*model.ConversationState, error)
	SetFunc   func(ctx context.Context, tgID int64, state *model.ConversationState) error
	ClearFunc func(ctx context.Context, tgID int64) error
}

var _ repository.ConversationStateRepository = (*MockConversationRepo)(nil)

func NewMockConversationRepo() *MockConversationRepo {
	return &MockConversationRepo{states: map[int64]*model.ConversationState{}}
}

func (m *MockConversationRepo) Get(ctx context.Context, tgID int64) (*model.ConversationState, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, tgID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[tgID], nil
}

func (m *MockConversationRepo) Set(ctx context.Context, tgID int64, state *model.ConversationState) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, tgID, state)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[tgID] = state
	return nil
}

func (m *MockConversationRepo) Clear(ctx context.Context, tgID int64) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, tgID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, tgID)
	return nil
}

func (m *MockConversationRepo) stored(tgID int64) *model.ConversationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[tgID]
}

// =============================
// Adapters
// =============================

// ---- Mock MessengerAdapter ----

type sentMessage struct {
	TgID int64
	Text string
}

type MockMessenger struct {
	mu   sync.Mutex
	Sent []sentMessage

	SendDirectMessageFunc func(ctx context.Context, tgID int64, text string) error
	FetchUserFunc         func(ctx context.Context, tgID int64) (string, error)
}

var _ adapter.MessengerAdapter = (*MockMessenger)(nil)

func (m *MockMessenger) SendDirectMessage(ctx context.Context, tgID int64, text string) error {
	if m.SendDirectMessageFunc != nil {
		return m.SendDirectMessageFunc(ctx, tgID, text)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sentMessage{TgID: tgID, Text: text})
	return nil
}

func (m *MockMessenger) FetchUser(ctx context.Context, tgID int64) (string, error) {
	if m.FetchUserFunc != nil {
		return m.FetchUserFunc(ctx, tgID)
	}
	return "tester", nil
}

func (m *MockMessenger) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// ---- Mock Assistant ----

type MockAssistant struct {
	mu      sync.Mutex
	Prompts []adapter.Prompt

	GenerateFunc func(ctx context.Context, p adapter.Prompt) (model.AssistantReply, error)
}

var _ adapter.Assistant = (*MockAssistant)(nil)

func (m *MockAssistant) Generate(ctx context.Context, p adapter.Prompt) (model.AssistantReply, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, p)
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, p)
	}
	return model.AssistantReply{Text: "ok"}, nil
}

// ---- Mock TimeTrackingAdapter ----

type MockTimeTracking struct {
	AuthenticateFunc func(ctx context.Context, apiKey string) error
	FetchEntriesFunc func(ctx context.Context, apiKey string, start, end time.Time) ([]adapter.TimeEntry, error)
}

var _ adapter.TimeTrackingAdapter = (*MockTimeTracking)(nil)

func (m *MockTimeTracking) Authenticate(ctx context.Context, apiKey string) error {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, apiKey)
	}
	return nil
}

func (m *MockTimeTracking) FetchEntries(ctx context.Context, apiKey string, start, end time.Time) ([]adapter.TimeEntry, error) {
	if m.FetchEntriesFunc != nil {
		return m.FetchEntriesFunc(ctx, apiKey, start, end)
	}
	return nil, nil
}
