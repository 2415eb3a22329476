package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"telegram-productivity-coach/internal/domain/model"
	"telegram-productivity-coach/internal/domain/ports/repository"
)

var _ repository.ConversationStateRepository = (*ConversationRepo)(nil)

// ConversationRepo keeps per-conversation context in Redis with a TTL, so a
// stale conversation expires on its own and a restart keeps open ones.
type ConversationRepo struct {
	client RedisClient
	ttl    time.Duration
}

func NewConversationRepo(client RedisClient, ttl time.Duration) *ConversationRepo {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ConversationRepo{client: client, ttl: ttl}
}

func key(tgID int64) string { return fmt.Sprintf("conv_state:%d", tgID) }

func (r *ConversationRepo) Get(ctx context.Context, tgID int64) (*model.ConversationState, error) {
	data, err := r.client.Get(ctx, key(tgID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var state model.ConversationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *ConversationRepo) Set(ctx context.Context, tgID int64, state *model.ConversationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key(tgID), data, r.ttl)
}

func (r *ConversationRepo) Clear(ctx context.Context, tgID int64) error {
	return r.client.Del(ctx, key(tgID))
}
