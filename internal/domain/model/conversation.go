package model

import "time"

// ConversationMessage mirrors one turn of the exchange kept as short-term
// assistant context.
type ConversationMessage struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// ConversationState is the per-conversation context object: which check-in
// (if any) the user is replying to, the rolling exchange history, and the
// assistant's working memory. It lives outside the user store — in Redis with
// a TTL when configured, otherwise in process memory — and is disposable.
type ConversationState struct {
	ID        string                `json:"id"`
	Kind      CheckKind             `json:"kind"`
	History   []ConversationMessage `json:"history,omitempty"`
	Memory    map[string]string     `json:"memory,omitempty"`
	StartedAt time.Time             `json:"started_at"`
}

// AppendExchange records a user/assistant turn, trimming history to the most
// recent maxTurns pairs.
func (s *ConversationState) AppendExchange(userText, assistantText string, maxTurns int) {
	s.History = append(s.History,
		ConversationMessage{Role: "user", Content: userText},
		ConversationMessage{Role: "assistant", Content: assistantText},
	)
	if maxTurns > 0 && len(s.History) > maxTurns*2 {
		s.History = s.History[len(s.History)-maxTurns*2:]
	}
}

// MemoryUpdate is the structured memory delta carried in an assistant reply.
type MemoryUpdate struct {
	Add    map[string]string `json:"add,omitempty"`
	Update map[string]string `json:"update,omitempty"`
	Delete []string          `json:"delete,omitempty"`
}

func (m *MemoryUpdate) Empty() bool {
	return m == nil || (len(m.Add) == 0 && len(m.Update) == 0 && len(m.Delete) == 0)
}

// Apply folds the delta into the state's memory map.
func (s *ConversationState) Apply(m *MemoryUpdate) {
	if m.Empty() {
		return
	}
	if s.Memory == nil {
		s.Memory = map[string]string{}
	}
	for _, k := range m.Delete {
		delete(s.Memory, k)
	}
	for k, v := range m.Update {
		s.Memory[k] = v
	}
	for k, v := range m.Add {
		s.Memory[k] = v
	}
}

// AssistantReply is the structured result of one LLM round trip. Directive
// parsing happens at the adapter boundary; everything downstream consumes
// this struct and never scans reply text.
type AssistantReply struct {
	Text            string
	Memory          *MemoryUpdate
	EndConversation bool
}
