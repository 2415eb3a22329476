package repository

import (
	"context"

	"telegram-productivity-coach/internal/domain/model"
)

// ConversationStateRepository keeps short-lived per-conversation context.
// Get returns (nil, nil) when no conversation is open for the user.
type ConversationStateRepository interface {
	Get(ctx context.Context, telegramID int64) (*model.ConversationState, error)
	Set(ctx context.Context, telegramID int64, state *model.ConversationState) error
	Clear(ctx context.Context, telegramID int64) error
}
