package model

import "errors"

var (
	ErrInvalidEmail       = errors.New("email address is not valid")
	ErrWrongStep          = errors.New("answer does not belong to the current step")
	ErrSessionClosed      = errors.New("questionnaire is already finished")
	ErrSubmissionInFlight = errors.New("submission already in progress")
	ErrSubmissionFailed   = errors.New("submission failed")
	ErrResetUnavailable   = errors.New("reset is only available after disqualification")
)
