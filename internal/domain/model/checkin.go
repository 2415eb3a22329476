package model

// CheckKind identifies one of the periodic check-in families.
type CheckKind string

const (
	CheckMorning  CheckKind = "morning"
	CheckEvening  CheckKind = "evening"
	CheckWeekly   CheckKind = "weekly"
	CheckActivity CheckKind = "activity"
)

// FixedKinds are the kinds guarded by a per-user last-fired timestamp.
var FixedKinds = []CheckKind{CheckMorning, CheckEvening, CheckWeekly}

func (k CheckKind) Valid() bool {
	switch k {
	case CheckMorning, CheckEvening, CheckWeekly, CheckActivity:
		return true
	}
	return false
}
