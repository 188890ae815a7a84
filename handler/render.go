package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot/models"

	"EligibilityBot/content"
	"EligibilityBot/model"
	"EligibilityBot/questionnaire"
)

const callbackPrefix = "elig:"

// Callback actions carried in inline button data, e.g. "elig:answer:psychosis:no".
const (
	actionAnswer   = "answer"
	actionOptIn    = "optin"
	actionContinue = "continue"
	actionBack     = "back"
	actionInterest = "interest"
	actionSubmit   = "submit"
	actionReset    = "reset"
)

func callbackData(parts ...string) string {
	return callbackPrefix + strings.Join(parts, ":")
}

func progressBar(step model.Step) string {
	n := int(step)
	return fmt.Sprintf("%s %d/%d", strings.Repeat("▰", n)+strings.Repeat("▱", model.TotalSteps-n), n, model.TotalSteps)
}

// renderScreen returns the message text and keyboard for the session's
// current state.
func renderScreen(c *content.Catalog, st model.State, answers model.AnswerSet) (string, models.ReplyMarkup) {
	switch st.Outcome {
	case model.OutcomeSubmitted:
		return screenText(c.Submitted), linkKeyboard(c.Submitted.Links, "")
	case model.OutcomeDisqualified:
		return screenText(c.Disqualified), linkKeyboard(c.Disqualified.Links, c.Disqualified.Restart)
	}

	step := c.Step(st.Step)
	var b strings.Builder
	b.WriteString(progressBar(st.Step))
	b.WriteString("\n\n")
	b.WriteString(step.Title)
	if step.Hint != "" {
		b.WriteString("\n\n")
		b.WriteString(step.Hint)
	}
	if st.Step == model.StepEmail && answers.Email != "" {
		fmt.Fprintf(&b, "\n\nEmail: %s", answers.Email)
		if !questionnaire.IsValidEmail(answers.Email) {
			b.WriteString("\n")
			b.WriteString(step.Invalid)
		}
	}
	if st.LastError != "" {
		b.WriteString("\n\n⚠️ ")
		b.WriteString(c.Notices.SubmissionFailed)
	}
	return b.String(), stepKeyboard(c, st.Step, answers)
}

func screenText(s content.Screen) string {
	if s.Body == "" {
		return s.Title
	}
	return s.Title + "\n\n" + s.Body
}

func stepKeyboard(c *content.Catalog, step model.Step, answers model.AnswerSet) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton

	switch step {
	case model.StepEmail:
		label := c.Labels.NewsletterOff
		if answers.NewsletterOptIn {
			label = c.Labels.NewsletterOn
		}
		rows = append(rows, []models.InlineKeyboardButton{{Text: label, CallbackData: callbackData(actionOptIn)}})
		if questionnaire.IsValidEmail(answers.Email) {
			rows = append(rows, []models.InlineKeyboardButton{{Text: c.Labels.Continue, CallbackData: callbackData(actionContinue)}})
		}
	case model.StepInterests:
		for i, option := range c.Interests {
			mark := "⬜ "
			if answers.HasInterest(option) {
				mark = "✅ "
			}
			rows = append(rows, []models.InlineKeyboardButton{{
				Text:         mark + option,
				CallbackData: callbackData(actionInterest, strconv.Itoa(i)),
			}})
		}
		rows = append(rows, []models.InlineKeyboardButton{{Text: c.Labels.Submit, CallbackData: callbackData(actionSubmit)}})
	default:
		field, ok := questionnaire.FieldForStep(step)
		if ok {
			rows = append(rows, []models.InlineKeyboardButton{
				{Text: c.Labels.Yes, CallbackData: callbackData(actionAnswer, string(field), "yes")},
				{Text: c.Labels.No, CallbackData: callbackData(actionAnswer, string(field), "no")},
			})
		}
	}

	if step > model.StepEmail {
		rows = append(rows, []models.InlineKeyboardButton{{Text: c.Labels.Back, CallbackData: callbackData(actionBack)}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func linkKeyboard(links []content.Link, restart string) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(links)+1)
	for _, l := range links {
		rows = append(rows, []models.InlineKeyboardButton{{Text: l.Title, URL: l.URL}})
	}
	if restart != "" {
		rows = append(rows, []models.InlineKeyboardButton{{Text: restart, CallbackData: callbackData(actionReset)}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
