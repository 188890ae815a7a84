package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"EligibilityBot/content"
	"EligibilityBot/model"
	"EligibilityBot/questionnaire"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func newTestApp(t *testing.T, submitErr error) (*App, *[]model.AnswerSet) {
	t.Helper()
	var submitted []model.AnswerSet
	sub := questionnaire.SubmitterFunc(func(_ context.Context, answers model.AnswerSet) error {
		submitted = append(submitted, answers)
		return submitErr
	})
	return NewApp(sub, content.Default(), zerolog.Nop()), &submitted
}

// send feeds msg through Update. A submission command started by msg is run
// and its result fed back in; other commands (cursor blinks) are dropped.
func send(t *testing.T, app *App, msg tea.Msg) *App {
	t.Helper()
	next, cmd := app.Update(msg)
	a, ok := next.(*App)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	if cmd != nil && a.submitting {
		if result, ok := cmd().(submitResultMsg); ok {
			return send(t, a, result)
		}
	}
	return a
}

func toInterests(t *testing.T, app *App) *App {
	t.Helper()
	app = send(t, app, runes("jane@example.com"))
	app = send(t, app, key(tea.KeyEnter))
	for _, k := range []string{"y", "y", "n", "n"} {
		app = send(t, app, runes(k))
	}
	if got := app.session.State().Step; got != model.StepInterests {
		t.Fatalf("expected interests step, got %s", got)
	}
	return app
}

func TestEmailGateBlocksContinue(t *testing.T) {
	app, _ := newTestApp(t, nil)
	app = send(t, app, runes("jane@example"))
	app = send(t, app, key(tea.KeyEnter))

	if got := app.session.State().Step; got != model.StepEmail {
		t.Fatalf("invalid email must not advance, got step %s", got)
	}
	if !strings.Contains(app.View(), "Please enter a valid email.") {
		t.Fatalf("expected inline validation message in view")
	}

	app = send(t, app, runes(".com"))
	app = send(t, app, key(tea.KeyTab))
	app = send(t, app, key(tea.KeyEnter))
	if got := app.session.State().Step; got != model.StepAge {
		t.Fatalf("expected age step, got %s", got)
	}
	answers := app.session.Answers()
	if answers.Email != "jane@example.com" || !answers.NewsletterOptIn {
		t.Fatalf("unexpected answers after step 1: %+v", answers)
	}
}

func TestDisqualifyAndRestart(t *testing.T) {
	app, _ := newTestApp(t, nil)
	app = send(t, app, runes("jane@example.com"))
	app = send(t, app, key(tea.KeyEnter))
	app = send(t, app, runes("y"))
	app = send(t, app, runes("n"))

	if got := app.session.State().Outcome; got != model.OutcomeDisqualified {
		t.Fatalf("expected disqualified, got %s", got)
	}
	view := app.View()
	if !strings.Contains(view, "You're not eligible") || !strings.Contains(view, "https://indraclinic.com/wellness/breathwork") {
		t.Fatalf("disqualified view missing copy or links:\n%s", view)
	}

	app = send(t, app, runes("y"))
	if got := app.session.State().Outcome; got != model.OutcomeDisqualified {
		t.Fatalf("answers after disqualification must be ignored")
	}

	app = send(t, app, runes("r"))
	if got := app.session.State(); got.Step != model.StepEmail || got.Terminal() {
		t.Fatalf("expected reset to step 1, got %+v", got)
	}
	if app.email.Value() != "" {
		t.Fatalf("email input should be cleared on reset")
	}
	if got := app.session.Answers(); got.OfferedTwoTreatments != nil || got.AgeConfirmed != nil {
		t.Fatalf("answers not reset: %+v", got)
	}
}

func TestBackKeepsAnswers(t *testing.T) {
	app, _ := newTestApp(t, nil)
	app = send(t, app, runes("jane@example.com"))
	app = send(t, app, key(tea.KeyEnter))
	app = send(t, app, runes("y"))
	app = send(t, app, runes("b"))

	if got := app.session.State().Step; got != model.StepAge {
		t.Fatalf("expected age step after back, got %s", got)
	}
	if v := app.session.Answers().AgeConfirmed; v == nil || !*v {
		t.Fatalf("back must not clear the recorded answer")
	}
}

func TestInterestsAndSubmit(t *testing.T) {
	app, submitted := newTestApp(t, nil)
	app = toInterests(t, app)

	app = send(t, app, runes("j"))
	app = send(t, app, key(tea.KeySpace))
	app = send(t, app, runes("j"))
	app = send(t, app, runes("x"))
	want := []string{"Breathwork", "Meditation"}
	if got := app.session.Answers().InterestReason; strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("interests = %v, want %v", got, want)
	}

	app = send(t, app, key(tea.KeyEnter))
	if got := app.session.State().Outcome; got != model.OutcomeSubmitted {
		t.Fatalf("expected submitted, got %s", got)
	}
	if len(*submitted) != 1 {
		t.Fatalf("expected one submission, got %d", len(*submitted))
	}
	if !strings.Contains(app.View(), "Continue to Medical Questionnaire") {
		t.Fatalf("submitted view missing exit link")
	}

	app = send(t, app, runes("n"))
	if got := app.session.State(); got.Step != model.StepEmail || got.Terminal() {
		t.Fatalf("expected a fresh session, got %+v", got)
	}
}

func TestSubmitFailureStaysOnInterests(t *testing.T) {
	app, submitted := newTestApp(t, errors.New("status 503"))
	app = toInterests(t, app)
	app = send(t, app, runes("s"))

	st := app.session.State()
	if st.Step != model.StepInterests || st.Terminal() {
		t.Fatalf("failed submission must stay on interests, got %+v", st)
	}
	if app.submitting {
		t.Fatalf("submit trigger should be enabled again after failure")
	}
	if len(*submitted) != 1 {
		t.Fatalf("expected one attempt, got %d", len(*submitted))
	}
	if !strings.Contains(app.View(), "Something went wrong. Please try again.") {
		t.Fatalf("expected failure notice in view")
	}
}

func TestSubmitTriggerDisabledWhileOutstanding(t *testing.T) {
	app, _ := newTestApp(t, nil)
	app = toInterests(t, app)

	next, cmd := app.Update(key(tea.KeyEnter))
	app = next.(*App)
	if cmd == nil || !app.submitting {
		t.Fatalf("expected submission command")
	}
	next, second := app.Update(key(tea.KeyEnter))
	app = next.(*App)
	if second != nil {
		t.Fatalf("second submit must be ignored while the first is outstanding")
	}
	if app.notice != content.Default().Notices.Busy {
		t.Fatalf("expected busy notice, got %q", app.notice)
	}
}

func TestCtrlCQuits(t *testing.T) {
	app, _ := newTestApp(t, nil)
	_, cmd := app.Update(key(tea.KeyCtrlC))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestSubmitFailureShowsCatalogNotice(t *testing.T) {
	catalog := content.Default()
	catalog.Notices.SubmissionFailed = "Our servers are busy, please retry shortly."
	sub := questionnaire.SubmitterFunc(func(context.Context, model.AnswerSet) error {
		return errors.New("status 502")
	})
	app := toInterests(t, NewApp(sub, catalog, zerolog.Nop()))
	app = send(t, app, key(tea.KeyEnter))

	view := app.View()
	if !strings.Contains(view, "Our servers are busy, please retry shortly.") {
		t.Fatalf("expected catalog failure notice in view:\n%s", view)
	}
	if strings.Contains(view, questionnaire.SubmissionNotice) {
		t.Fatalf("built-in notice should be replaced by the catalog copy")
	}
}

func TestTabTogglesNewsletter(t *testing.T) {
	app, _ := newTestApp(t, nil)
	app = send(t, app, key(tea.KeyTab))
	app = send(t, app, key(tea.KeyTab))
	app = send(t, app, key(tea.KeyTab))
	if !app.session.Answers().NewsletterOptIn {
		t.Fatalf("three toggles should leave the opt-in set")
	}
}
