// Package tui is a terminal front-end for the eligibility questionnaire.
//
// It follows bubbletea's Elm architecture: App holds the questionnaire
// session, Update turns key presses into session operations, and View renders
// whatever state the session is in.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"EligibilityBot/content"
	"EligibilityBot/model"
	"EligibilityBot/questionnaire"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D4F56E"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E9E4F5"))
	questionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9A93AD"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D4F56E"))
	barFullStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D4F56E"))
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4B4563"))
	linkStyle     = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("#B9A6F2"))
	boxStyle      = lipgloss.NewStyle().Padding(1, 2)
)

const barWidth = 30

// submitResultMsg reports the end of a submission started by submitCmd.
type submitResultMsg struct {
	err error
}

// App is the bubbletea model for one questionnaire session.
type App struct {
	session   *questionnaire.Session
	submitter questionnaire.Submitter
	content   *content.Catalog
	logger    zerolog.Logger

	email      textinput.Model
	cursor     int    // highlighted interest at step 6
	notice     string // one-line feedback for the last key press
	submitting bool
}

// NewApp starts a fresh session that submits through submitter.
func NewApp(submitter questionnaire.Submitter, catalog *content.Catalog, logger zerolog.Logger) *App {
	if catalog == nil {
		catalog = content.Default()
	}
	a := &App{
		submitter: submitter,
		content:   catalog,
		logger:    logger,
	}
	a.start()
	return a
}

func (a *App) start() {
	a.session = questionnaire.NewSession()
	a.email = textinput.New()
	a.email.Placeholder = a.content.Steps.Email.Placeholder
	a.email.CharLimit = 254
	a.email.Focus()
	a.cursor = 0
	a.notice = ""
	a.submitting = false
	a.logger.Info().Str("session_id", a.session.ID()).Msg("questionnaire started")
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submitResultMsg:
		return a.handleSubmitResult(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		st := a.session.State()
		switch st.Outcome {
		case model.OutcomeSubmitted:
			return a.updateSubmitted(msg)
		case model.OutcomeDisqualified:
			return a.updateDisqualified(msg)
		}
		switch st.Step {
		case model.StepEmail:
			return a.updateEmail(msg)
		case model.StepInterests:
			return a.updateInterests(msg)
		default:
			return a.updateYesNo(st.Step, msg)
		}
	}
	if a.session.State().Step == model.StepEmail {
		var cmd tea.Cmd
		a.email, cmd = a.email.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) updateEmail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if _, err := a.session.Continue(); err != nil {
			a.setError(err)
			return a, nil
		}
		a.notice = ""
		a.email.Blur()
		return a, nil
	case tea.KeyTab:
		if _, err := a.session.ToggleNewsletterOptIn(); err != nil {
			a.setError(err)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.email, cmd = a.email.Update(msg)
	if err := a.session.SetEmail(a.email.Value()); err != nil {
		a.setError(err)
	}
	a.notice = ""
	return a, cmd
}

func (a *App) updateYesNo(step model.Step, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field, ok := questionnaire.FieldForStep(step)
	if !ok {
		return a, nil
	}
	var err error
	switch msg.String() {
	case "y", "Y":
		_, err = a.session.Answer(field, true)
	case "n", "N":
		_, err = a.session.Answer(field, false)
	case "b", "left", "esc":
		err = a.back()
	case "q":
		return a, tea.Quit
	default:
		return a, nil
	}
	if err != nil {
		a.setError(err)
		return a, nil
	}
	a.notice = ""
	if st := a.session.State(); st.Outcome == model.OutcomeDisqualified {
		a.logger.Info().Str("session_id", a.session.ID()).Str("step", step.String()).Msg("disqualified")
	}
	return a, nil
}

func (a *App) updateInterests(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.submitting {
		a.notice = a.content.Notices.Busy
		return a, nil
	}
	switch msg.String() {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.content.Interests)-1 {
			a.cursor++
		}
	case " ", "x":
		if _, err := a.session.ToggleInterest(a.content.Interests[a.cursor]); err != nil {
			a.setError(err)
		}
	case "enter", "s":
		a.submitting = true
		a.notice = a.content.Labels.Submitting
		return a, a.submitCmd()
	case "b", "left", "esc":
		if err := a.back(); err != nil {
			a.setError(err)
		}
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) updateDisqualified(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r", "enter":
		if _, err := a.session.Reset(); err != nil {
			a.setError(err)
			return a, nil
		}
		a.email.Reset()
		a.notice = ""
		a.cursor = 0
		return a, a.email.Focus()
	case "q", "esc":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) updateSubmitted(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		a.start()
		return a, textinput.Blink
	case "q", "esc", "enter":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) back() error {
	st, err := a.session.Back()
	if err != nil {
		return err
	}
	if st.Step == model.StepEmail {
		a.email.Focus()
	}
	return nil
}

func (a *App) submitCmd() tea.Cmd {
	sess, sub := a.session, a.submitter
	return func() tea.Msg {
		_, err := sess.Submit(context.Background(), sub)
		return submitResultMsg{err: err}
	}
}

func (a *App) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	a.submitting = false
	if msg.err != nil {
		a.logger.Error().Err(msg.err).Str("session_id", a.session.ID()).Msg("submission error")
		if !errors.Is(msg.err, model.ErrSubmissionFailed) {
			a.setError(msg.err)
			return a, nil
		}
		a.notice = ""
		return a, nil
	}
	a.logger.Info().Str("session_id", a.session.ID()).Msg("answers submitted")
	a.notice = ""
	return a, nil
}

func (a *App) setError(err error) {
	switch {
	case errors.Is(err, model.ErrInvalidEmail):
		a.notice = a.content.Steps.Email.Invalid
	case errors.Is(err, model.ErrSubmissionInFlight):
		a.notice = a.content.Notices.Busy
	case errors.Is(err, model.ErrSessionClosed):
		a.notice = a.content.Notices.Closed
	default:
		a.notice = a.content.Notices.Stale
	}
}

func (a *App) View() string {
	st := a.session.State()
	var b strings.Builder

	b.WriteString(titleStyle.Render(a.content.Header.Title))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(a.content.Header.Subtitle))
	b.WriteString("\n")

	switch st.Outcome {
	case model.OutcomeSubmitted:
		b.WriteString(a.viewScreen(a.content.Submitted))
		b.WriteString(hintStyle.Render("\nn: new questionnaire • q: quit"))
		return boxStyle.Render(b.String())
	case model.OutcomeDisqualified:
		b.WriteString(a.viewScreen(a.content.Disqualified))
		b.WriteString(hintStyle.Render(fmt.Sprintf("\nr: %s • q: quit", a.content.Disqualified.Restart)))
		return boxStyle.Render(b.String())
	}

	step := a.content.Step(st.Step)
	b.WriteString(questionStyle.Render(step.Title))
	b.WriteString("\n")
	if step.Hint != "" {
		b.WriteString(hintStyle.Render(step.Hint))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	answers := a.session.Answers()
	switch st.Step {
	case model.StepEmail:
		b.WriteString(a.email.View())
		b.WriteString("\n")
		if answers.Email != "" && !questionnaire.IsValidEmail(answers.Email) {
			b.WriteString(errorStyle.Render(step.Invalid))
			b.WriteString("\n")
		}
		label := a.content.Labels.NewsletterOff
		if answers.NewsletterOptIn {
			label = a.content.Labels.NewsletterOn
		}
		b.WriteString(label)
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("enter: " + a.content.Labels.Continue + " • tab: toggle newsletter • ctrl+c: quit"))
	case model.StepInterests:
		for i, option := range a.content.Interests {
			pointer := "  "
			if i == a.cursor {
				pointer = "> "
			}
			box := "[ ] "
			line := pointer + box + option
			if answers.HasInterest(option) {
				line = pointer + selectedStyle.Render("[x] "+option)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("space: select • enter: " + a.content.Labels.Submit + " • b: back • q: quit"))
	default:
		b.WriteString(hintStyle.Render("y: " + a.content.Labels.Yes + " • n: " + a.content.Labels.No + " • b: back • q: quit"))
	}

	if st.LastError != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(a.content.Notices.SubmissionFailed))
	}
	if a.notice != "" {
		b.WriteString("\n")
		b.WriteString(a.notice)
	}
	b.WriteString("\n\n")
	b.WriteString(progressBar(st))
	return boxStyle.Render(b.String())
}

func (a *App) viewScreen(s content.Screen) string {
	var b strings.Builder
	b.WriteString(questionStyle.Render(s.Title))
	b.WriteString("\n")
	if s.Body != "" {
		b.WriteString(s.Body)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for _, l := range s.Links {
		b.WriteString(fmt.Sprintf("• %s  %s\n", l.Title, linkStyle.Render(l.URL)))
	}
	return b.String()
}

func progressBar(st model.State) string {
	full := int(st.Progress() * barWidth)
	return barFullStyle.Render(strings.Repeat("█", full)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-full)) +
		fmt.Sprintf(" %d/%d", st.Step, model.TotalSteps)
}
