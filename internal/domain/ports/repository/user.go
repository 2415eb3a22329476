package repository

import (
	"context"

	"telegram-productivity-coach/internal/domain/model"
)

// UserStore persists the whole user mapping as a single document. Load on a
// missing backing file returns an empty map; Save must be atomic so a crash
// mid-write never corrupts the previously committed document.
type UserStore interface {
	Load(ctx context.Context) (map[string]*model.UserRecord, error)
	Save(ctx context.Context, users map[string]*model.UserRecord) error
}
