package questionnaire

import (
	"context"

	"EligibilityBot/model"
)

//go:generate mockgen -source=submitter.go -destination=mocks/submitter_mock.go -package=mocks

// Submitter performs the single outbound create of a finished answer set.
type Submitter interface {
	Submit(ctx context.Context, answers model.AnswerSet) error
}

// SubmitterFunc adapts a function to a Submitter.
type SubmitterFunc func(ctx context.Context, answers model.AnswerSet) error

func (f SubmitterFunc) Submit(ctx context.Context, answers model.AnswerSet) error {
	return f(ctx, answers)
}
