package ai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"telegram-productivity-coach/internal/domain/model"
	"telegram-productivity-coach/internal/domain/ports/adapter"
)

// Coach turns raw chat completions into structured assistant replies. The
// control directives (END_CONVERSATION, MEMORY_UPDATE) are a contract with
// the system prompt; they are parsed out here so callers only ever see
// clean text plus a typed delta.
type Coach struct {
	svc   adapter.AIServiceAdapter
	model string
	log   zerolog.Logger
}

var _ adapter.Assistant = (*Coach)(nil)

func NewCoach(svc adapter.AIServiceAdapter, modelName string, logger *zerolog.Logger) *Coach {
	l := logger.With().Str("component", "ai_coach").Logger()
	return &Coach{svc: svc, model: modelName, log: l}
}

func (c *Coach) Generate(ctx context.Context, p adapter.Prompt) (model.AssistantReply, error) {
	msgs := make([]adapter.Message, 0, len(p.History)+2)
	msgs = append(msgs, adapter.Message{Role: "system", Content: systemPrompt})
	for _, h := range p.History {
		msgs = append(msgs, adapter.Message{Role: h.Role, Content: h.Content})
	}
	msgs = append(msgs, adapter.Message{
		Role:    "user",
		Content: buildUserPrompt(p.Kind, p.ContextNote, memoryNote(p.Memory), p.UserText),
	})

	raw, err := c.svc.Chat(ctx, c.model, msgs)
	if err != nil {
		return model.AssistantReply{}, err
	}

	reply := c.parse(raw)
	return reply, nil
}

const (
	memoryMarker = "MEMORY_UPDATE:"
	endMarker    = "END_CONVERSATION:"
)

func (c *Coach) parse(raw string) model.AssistantReply {
	reply := model.AssistantReply{}
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, memoryMarker):
			payload := strings.TrimSpace(strings.TrimPrefix(trimmed, memoryMarker))
			var delta model.MemoryUpdate
			if err := json.Unmarshal([]byte(payload), &delta); err != nil {
				c.log.Warn().Err(err).Msg("dropping malformed memory directive")
				continue
			}
			if !delta.Empty() {
				reply.Memory = &delta
			}
		case strings.HasPrefix(trimmed, endMarker):
			val := strings.TrimSpace(strings.TrimPrefix(trimmed, endMarker))
			reply.EndConversation = strings.EqualFold(val, "true")
		default:
			kept = append(kept, line)
		}
	}
	reply.Text = strings.TrimSpace(strings.Join(kept, "\n"))
	return reply
}
