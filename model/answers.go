package model

// Field names a single entry of the answer set. Values match the JSON names
// sent to the collection endpoint.
type Field string

const (
	FieldEmail                Field = "email"
	FieldNewsletterOptIn      Field = "newsletterOptIn"
	FieldAgeConfirmed         Field = "ageConfirmed"
	FieldOfferedTwoTreatments Field = "offeredTwoTreatments"
	FieldPsychosis            Field = "psychosis"
	FieldPregnant             Field = "pregnant"
	FieldInterestReason       Field = "interestReason"
)

// AnswerSet holds every answer given in a session. A nil *bool means the
// question has not been answered yet and is sent as null.
type AnswerSet struct {
	Email                string   `json:"email"`
	NewsletterOptIn      bool     `json:"newsletterOptIn"`
	AgeConfirmed         *bool    `json:"ageConfirmed"`
	OfferedTwoTreatments *bool    `json:"offeredTwoTreatments"`
	Psychosis            *bool    `json:"psychosis"`
	Pregnant             *bool    `json:"pregnant"`
	InterestReason       []string `json:"interestReason"`
}

// NewAnswerSet returns the initial, all-unset answer set.
func NewAnswerSet() AnswerSet {
	return AnswerSet{InterestReason: []string{}}
}

// Clone returns a deep copy so callers can't reach back into session state.
func (a AnswerSet) Clone() AnswerSet {
	out := a
	out.AgeConfirmed = cloneBool(a.AgeConfirmed)
	out.OfferedTwoTreatments = cloneBool(a.OfferedTwoTreatments)
	out.Psychosis = cloneBool(a.Psychosis)
	out.Pregnant = cloneBool(a.Pregnant)
	out.InterestReason = append([]string{}, a.InterestReason...)
	return out
}

// SetBool records a yes/no answer. It reports false for fields that are not
// yes/no questions.
func (a *AnswerSet) SetBool(field Field, value bool) bool {
	switch field {
	case FieldNewsletterOptIn:
		a.NewsletterOptIn = value
	case FieldAgeConfirmed:
		a.AgeConfirmed = &value
	case FieldOfferedTwoTreatments:
		a.OfferedTwoTreatments = &value
	case FieldPsychosis:
		a.Psychosis = &value
	case FieldPregnant:
		a.Pregnant = &value
	default:
		return false
	}
	return true
}

// Bool returns the recorded answer for a yes/no field and whether it is set.
func (a AnswerSet) Bool(field Field) (bool, bool) {
	var v *bool
	switch field {
	case FieldNewsletterOptIn:
		return a.NewsletterOptIn, true
	case FieldAgeConfirmed:
		v = a.AgeConfirmed
	case FieldOfferedTwoTreatments:
		v = a.OfferedTwoTreatments
	case FieldPsychosis:
		v = a.Psychosis
	case FieldPregnant:
		v = a.Pregnant
	}
	if v == nil {
		return false, false
	}
	return *v, true
}

// HasInterest reports whether tag is currently selected.
func (a AnswerSet) HasInterest(tag string) bool {
	for _, t := range a.InterestReason {
		if t == tag {
			return true
		}
	}
	return false
}

// ToggleInterest adds tag at the end of the selection, or removes it if it is
// already selected.
func (a *AnswerSet) ToggleInterest(tag string) {
	for i, t := range a.InterestReason {
		if t == tag {
			a.InterestReason = append(a.InterestReason[:i:i], a.InterestReason[i+1:]...)
			return
		}
	}
	a.InterestReason = append(a.InterestReason, tag)
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	b := *v
	return &b
}
