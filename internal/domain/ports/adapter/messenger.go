package adapter

import "context"

// MessengerAdapter is the outbound port to the chat platform. The core only
// ever sends direct messages and resolves whether a user is still reachable.
type MessengerAdapter interface {
	SendDirectMessage(ctx context.Context, telegramID int64, text string) error
	// FetchUser resolves the user's handle; returns domain.ErrNotFound when
	// the user is no longer reachable.
	FetchUser(ctx context.Context, telegramID int64) (string, error)
}
