package session

// Stage is the orchestrator's position in a session.
type Stage int

const (
	StageBegin Stage = iota
	StageDecide
	StageLearn
	StageReview
	StageSpell
	StageRemediate
	StageHomophones
	StageComplete
)

func (s Stage) String() string {
	switch s {
	case StageBegin:
		return "begin"
	case StageDecide:
		return "decide"
	case StageLearn:
		return "learn"
	case StageReview:
		return "review"
	case StageSpell:
		return "spell"
	case StageRemediate:
		return "remediate"
	case StageHomophones:
		return "homophones"
	default:
		return "complete"
	}
}

// Title is the human-readable name shown in headers.
func (s Stage) Title() string {
	switch s {
	case StageBegin:
		return "Welcome"
	case StageDecide:
		return "Checking progress"
	case StageLearn:
		return "New sound"
	case StageReview:
		return "Review"
	case StageSpell:
		return "Spelling"
	case StageRemediate:
		return "Spelling with help"
	case StageHomophones:
		return "Homophones"
	default:
		return "Complete"
	}
}
