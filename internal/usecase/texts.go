package usecase

import (
	"math/rand"

	"telegram-productivity-coach/internal/domain/model"
)

// Check-in prompts, casual on purpose. One is drawn uniformly at random per
// fire.
var checkinMessages = map[model.CheckKind][]string{
	model.CheckMorning: {
		"hey, what are you planning to work on today?",
		"what are you thinking of getting done today?",
		"hey there, what's the plan for today?",
	},
	model.CheckEvening: {
		"hey, how did your day go?",
		"what did you end up working on today?",
		"how was your day? what worked/didnt work?",
		"lets review what you got done today",
	},
	model.CheckWeekly: {
		"time for our weekly review! how did your week go?",
		"week's wrapping up - what got done, what slipped?",
	},
	model.CheckActivity: {
		"what are you working on rn?",
		"hey, hows the current task going?",
		"quick check - what are you up to?",
	},
}

// PickMessage selects the outbound text for a fired check-in.
func PickMessage(rng *rand.Rand, kind model.CheckKind) string {
	set := checkinMessages[kind]
	if len(set) == 0 {
		return ""
	}
	return set[rng.Intn(len(set))]
}
