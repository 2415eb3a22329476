package adapter

import (
	"context"

	"telegram-productivity-coach/internal/domain/model"
)

// Message represents a chat message at the provider boundary.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// AIServiceAdapter is the raw provider port for LLM chat.
type AIServiceAdapter interface {
	ListModels(ctx context.Context) ([]string, error)
	// Chat returns only the assistant text.
	Chat(ctx context.Context, model string, messages []Message) (string, error)
}

// Prompt is everything the assistant needs to produce one coaching reply.
type Prompt struct {
	Kind        model.CheckKind // zero value means a general message
	UserText    string
	ContextNote string // recent plans/logs summary
	Memory      map[string]string
	History     []model.ConversationMessage
}

// Assistant is the structured LLM boundary consumed by the conversation
// router. Implementations own prompt construction and directive parsing, so
// the router receives a parsed reply rather than free text to scan.
type Assistant interface {
	Generate(ctx context.Context, p Prompt) (model.AssistantReply, error)
}
