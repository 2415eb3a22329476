package ai

import (
	"fmt"
	"sort"
	"strings"

	"telegram-productivity-coach/internal/domain/model"
)

const systemPrompt = `You are a friendly and thoughtful productivity coach. Your personality:
- direct and concise, casual language, lowercase, minimal punctuation
- genuinely curious about the user's work, thoughtful and analytical
- encouraging but not overly enthusiastic
- break complex thoughts into numbered points, ask clarifying questions

When responding:
1. keep messages concise and direct
2. ask thoughtful follow-up questions
3. focus on practical next steps and learning opportunities

If the conversation can end, include the line:
END_CONVERSATION: true
If you want to keep discussing, include:
END_CONVERSATION: false

To remember, update or forget facts about the user, include one line:
MEMORY_UPDATE: {"add": {"key": "value"}, "update": {"key": "value"}, "delete": ["key"]}`

var kindInstructions = map[model.CheckKind]string{
	model.CheckMorning: `The user is sharing their plan for today: %s

Your role:
1. review their plan briefly but thoughtfully
2. ask any clarifying questions if needed
3. maybe suggest practical improvements
4. note anything worth remembering

keep it casual but focused on helping them have a productive day`,

	model.CheckEvening: `The user is sharing about their day: %s

Your role:
1. listen and understand what they did
2. ask about anything unclear
3. help them reflect on what worked/didnt work
4. note important things for memory

keep the tone casual but thoughtful. focus on learning and improvement rather than just praise`,

	model.CheckWeekly: `The user is reviewing their week: %s

Your role:
1. understand what they accomplished
2. ask about unclear points
3. help identify what worked/didnt work
4. note patterns or important learnings
5. think about adjustments for next week

keep the tone thoughtful but casual. focus on practical insights and improvements`,

	model.CheckActivity: `The user is sharing what they're working on: %s

keep it brief and casual. maybe ask a quick clarifying question if relevant.`,
}

const generalInstruction = `The user has sent this message: %s

First, determine what kind of message this is (a plan, a review, an activity
update, or a general message), then respond appropriately: provide relevant
feedback, ask clarifying questions if needed, and keep the conversation
engaging and supportive.`

func buildUserPrompt(kind model.CheckKind, contextNote, memoryNote, userText string) string {
	instruction, ok := kindInstructions[kind]
	if !ok {
		instruction = generalInstruction
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Context: %s\n", contextNote)
	if memoryNote != "" {
		fmt.Fprintf(&b, "Known facts about the user:\n%s\n", memoryNote)
	}
	fmt.Fprintf(&b, instruction, userText)
	return b.String()
}

func memoryNote(memory map[string]string) string {
	if len(memory) == 0 {
		return ""
	}
	keys := make([]string, 0, len(memory))
	for k := range memory {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, memory[k])
	}
	return strings.TrimRight(b.String(), "\n")
}
