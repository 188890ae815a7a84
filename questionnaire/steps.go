package questionnaire

import "EligibilityBot/model"

// transition describes a yes/no step: the field it records, where an accepted
// answer leads, and which answer disqualifies.
type transition struct {
	field        model.Field
	next         model.Step
	disqualifyOn bool
}

var transitions = map[model.Step]transition{
	model.StepAge:        {field: model.FieldAgeConfirmed, next: model.StepTreatments, disqualifyOn: false},
	model.StepTreatments: {field: model.FieldOfferedTwoTreatments, next: model.StepPsychosis, disqualifyOn: false},
	model.StepPsychosis:  {field: model.FieldPsychosis, next: model.StepPregnancy, disqualifyOn: true},
	model.StepPregnancy:  {field: model.FieldPregnant, next: model.StepInterests, disqualifyOn: true},
}

// FieldForStep returns the yes/no field asked at step, if any.
func FieldForStep(step model.Step) (model.Field, bool) {
	t, ok := transitions[step]
	return t.field, ok
}

func (t transition) disqualifies(value bool) bool {
	return value == t.disqualifyOn
}
