// Package memory provides the in-process fallback for conversation state,
// used when no Redis URL is configured. State does not survive a restart.
package memory

import (
	"context"
	"sync"

	"telegram-productivity-coach/internal/domain/model"
	"telegram-productivity-coach/internal/domain/ports/repository"
)

var _ repository.ConversationStateRepository = (*ConversationRepo)(nil)

type ConversationRepo struct {
	mu     sync.Mutex
	states map[int64]*model.ConversationState
}

func NewConversationRepo() *ConversationRepo {
	return &ConversationRepo{states: map[int64]*model.ConversationState{}}
}

func (r *ConversationRepo) Get(ctx context.Context, tgID int64) (*model.ConversationState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[tgID]
	if !ok {
		return nil, nil
	}
	cp := *s
	cp.History = append([]model.ConversationMessage(nil), s.History...)
	cp.Memory = make(map[string]string, len(s.Memory))
	for k, v := range s.Memory {
		cp.Memory[k] = v
	}
	return &cp, nil
}

func (r *ConversationRepo) Set(ctx context.Context, tgID int64, state *model.ConversationState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *state
	r.states[tgID] = &cp
	return nil
}

func (r *ConversationRepo) Clear(ctx context.Context, tgID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, tgID)
	return nil
}
