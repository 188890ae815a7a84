package model

// Step is one screen of the questionnaire.
type Step int

const (
	StepEmail Step = iota + 1
	StepAge
	StepTreatments
	StepPsychosis
	StepPregnancy
	StepInterests
)

// TotalSteps is the number of in-progress steps.
const TotalSteps = int(StepInterests)

func (s Step) String() string {
	switch s {
	case StepEmail:
		return "email"
	case StepAge:
		return "age"
	case StepTreatments:
		return "treatments"
	case StepPsychosis:
		return "psychosis"
	case StepPregnancy:
		return "pregnancy"
	case StepInterests:
		return "interests"
	default:
		return "unknown"
	}
}

// Direction only affects how front-ends animate a transition.
type Direction int

const (
	DirectionForward Direction = iota
	DirectionBack
)

// Outcome is the terminal flag of a session. OutcomeNone means the session is
// in progress at State.Step.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeDisqualified
	OutcomeSubmitted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDisqualified:
		return "disqualified"
	case OutcomeSubmitted:
		return "submitted"
	default:
		return "in_progress"
	}
}

// State is a snapshot of a session's position in the questionnaire.
type State struct {
	Step      Step
	Direction Direction
	Outcome   Outcome
	LastError string
}

// Terminal reports whether the session is disqualified or submitted.
func (s State) Terminal() bool {
	return s.Outcome != OutcomeNone
}

// Progress is the fraction of the questionnaire reached, in (0, 1].
func (s State) Progress() float64 {
	return float64(s.Step) / float64(TotalSteps)
}
