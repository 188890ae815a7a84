package questionnaire

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"EligibilityBot/model"
)

// SubmissionNotice is recorded in State.LastError after a failed submission.
// Front-ends may show their own copy instead.
const SubmissionNotice = "Something went wrong. Please try again."

// Session is the state machine for one questionnaire run. It owns its answer
// set and state exclusively and is safe for concurrent use.
type Session struct {
	id string

	mu         sync.Mutex
	answers    model.AnswerSet
	state      model.State
	submitting bool
}

// NewSession starts a questionnaire at step 1 with an empty answer set.
func NewSession() *Session {
	return &Session{
		id:      uuid.NewString(),
		answers: model.NewAnswerSet(),
		state:   initialState(),
	}
}

func initialState() model.State {
	return model.State{Step: model.StepEmail, Direction: model.DirectionForward}
}

// ID identifies the session in logs. It is never submitted.
func (s *Session) ID() string {
	return s.id
}

// State returns a snapshot of the current position.
func (s *Session) State() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Answers returns a copy of the answer set.
func (s *Session) Answers() model.AnswerSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Clone()
}

// Submitting reports whether a submission is outstanding.
func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// mutable must be called with mu held.
func (s *Session) mutable() error {
	if s.state.Terminal() {
		return model.ErrSessionClosed
	}
	if s.submitting {
		return model.ErrSubmissionInFlight
	}
	return nil
}

// atStep must be called with mu held.
func (s *Session) atStep(step model.Step) error {
	if err := s.mutable(); err != nil {
		return err
	}
	if s.state.Step != step {
		return fmt.Errorf("%w: at %s, not %s", model.ErrWrongStep, s.state.Step, step)
	}
	return nil
}

// SetEmail records the email typed at step 1. Validation happens on Continue.
func (s *Session) SetEmail(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.atStep(model.StepEmail); err != nil {
		return err
	}
	s.answers.Email = email
	return nil
}

// SetNewsletterOptIn records the optional newsletter consent at step 1.
func (s *Session) SetNewsletterOptIn(optIn bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.atStep(model.StepEmail); err != nil {
		return err
	}
	s.answers.NewsletterOptIn = optIn
	return nil
}

// ToggleNewsletterOptIn flips the newsletter consent and returns the new value.
func (s *Session) ToggleNewsletterOptIn() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.atStep(model.StepEmail); err != nil {
		return s.answers.NewsletterOptIn, err
	}
	s.answers.NewsletterOptIn = !s.answers.NewsletterOptIn
	return s.answers.NewsletterOptIn, nil
}

// Continue advances past step 1. It is rejected while the email is malformed.
func (s *Session) Continue() (model.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.atStep(model.StepEmail); err != nil {
		return s.state, err
	}
	if !IsValidEmail(s.answers.Email) {
		return s.state, model.ErrInvalidEmail
	}
	s.state.LastError = ""
	s.state.Direction = model.DirectionForward
	s.state.Step = model.StepAge
	return s.state, nil
}

// Answer records a yes/no answer for the current step and moves to the next
// step or to the disqualified outcome.
func (s *Session) Answer(field model.Field, value bool) (model.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return s.state, err
	}
	t, ok := transitions[s.state.Step]
	if !ok || t.field != field {
		return s.state, fmt.Errorf("%w: %s is not asked at %s", model.ErrWrongStep, field, s.state.Step)
	}
	s.apply(field, value, t.next, t.disqualifies(value))
	return s.state, nil
}

// apply records the answer before looking at disqualification so the answer
// set always holds the literal answer given. Must be called with mu held.
func (s *Session) apply(field model.Field, value bool, next model.Step, disqualify bool) {
	s.answers.SetBool(field, value)
	s.state.Direction = model.DirectionForward
	if disqualify {
		s.state.Outcome = model.OutcomeDisqualified
		return
	}
	s.state.Step = next
}

// ToggleInterest selects or deselects an interest tag at step 6.
func (s *Session) ToggleInterest(tag string) (model.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.atStep(model.StepInterests); err != nil {
		return s.state, err
	}
	s.answers.ToggleInterest(tag)
	return s.state, nil
}

// Back returns to the previous step. It is a no-op at step 1.
func (s *Session) Back() (model.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return s.state, err
	}
	s.state.Direction = model.DirectionBack
	if s.state.Step > model.StepEmail {
		s.state.Step--
	}
	return s.state, nil
}

// Reset is the "start again" action offered after disqualification. It
// restores every answer to its initial value and returns to step 1.
func (s *Session) Reset() (model.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Outcome != model.OutcomeDisqualified {
		return s.state, model.ErrResetUnavailable
	}
	s.answers = model.NewAnswerSet()
	s.state = initialState()
	s.state.Direction = model.DirectionBack
	return s.state, nil
}

// Submit sends the answer set through sub. On success the session becomes
// submitted; on failure the step and answers are kept so the user can retry.
// Other operations are rejected while the call is outstanding.
func (s *Session) Submit(ctx context.Context, sub Submitter) (model.State, error) {
	s.mu.Lock()
	if err := s.atStep(model.StepInterests); err != nil {
		st := s.state
		s.mu.Unlock()
		return st, err
	}
	s.submitting = true
	s.state.LastError = ""
	answers := s.answers.Clone()
	s.mu.Unlock()

	err := sub.Submit(ctx, answers)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		s.state.LastError = SubmissionNotice
		return s.state, fmt.Errorf("%w: %w", model.ErrSubmissionFailed, err)
	}
	s.state.Outcome = model.OutcomeSubmitted
	return s.state, nil
}
