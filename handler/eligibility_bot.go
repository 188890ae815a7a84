package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"EligibilityBot/content"
	"EligibilityBot/metrics"
	"EligibilityBot/model"
	"EligibilityBot/questionnaire"
)

// Messenger is the part of the Telegram API the handler talks to. *bot.Bot
// satisfies it.
type Messenger interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageReplyMarkup(ctx context.Context, params *bot.EditMessageReplyMarkupParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

type EligibilityBotHandler struct {
	sessions  *questionnaire.Registry
	submitter questionnaire.Submitter
	content   *content.Catalog
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

func NewEligibilityBotHandler(
	submitter questionnaire.Submitter,
	catalog *content.Catalog,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *EligibilityBotHandler {
	if catalog == nil {
		catalog = content.Default()
	}
	return &EligibilityBotHandler{
		sessions:  questionnaire.NewRegistry(),
		submitter: submitter,
		content:   catalog,
		metrics:   m,
		logger:    logger,
	}
}

// Register attaches the inline button handler to b.
func (h *EligibilityBotHandler) Register(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, callbackPrefix, bot.MatchTypePrefix, h.CallbackHandler)
}

// Handler handles text messages and commands. It is used as the bot's
// default handler.
func (h *EligibilityBotHandler) Handler(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleUpdate(ctx, b, update)
}

// CallbackHandler handles inline button presses.
func (h *EligibilityBotHandler) CallbackHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleUpdate(ctx, b, update)
}

// PruneSessions forgets conversations idle for longer than maxIdle.
func (h *EligibilityBotHandler) PruneSessions(maxIdle time.Duration) {
	if n := h.sessions.Prune(maxIdle); n > 0 {
		h.logger.Debug().Int("removed", n).Msg("idle sessions pruned")
	}
	h.metrics.SetActiveSessions(h.sessions.Len())
}

// RunPruner calls PruneSessions every interval until ctx is done.
func (h *EligibilityBotHandler) RunPruner(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.PruneSessions(maxIdle)
		}
	}
}

func (h *EligibilityBotHandler) handleUpdate(ctx context.Context, m Messenger, update *models.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, m, update.CallbackQuery)
	case update.Message != nil:
		h.handleMessage(ctx, m, update.Message)
	}
}

func (h *EligibilityBotHandler) handleMessage(ctx context.Context, m Messenger, msg *models.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch text {
	case "/start":
		sess := h.sessions.Restart(chatID)
		h.metrics.SetActiveSessions(h.sessions.Len())
		log := h.sessionLogger(chatID, sess)
		log.Info().Msg("questionnaire started")
		h.send(ctx, m, chatID, h.content.Header.Title+"\n"+h.content.Header.Subtitle, nil)
		h.sendScreen(ctx, m, chatID, sess)
		return
	case "/help":
		h.send(ctx, m, chatID, `Commands:
/start – Start the eligibility questionnaire again.
/back – Go back to the previous question.
/help – Show this message.`, nil)
		return
	}

	sess, created := h.sessions.Get(chatID)
	if created {
		h.metrics.SetActiveSessions(h.sessions.Len())
	}
	log := h.sessionLogger(chatID, sess)

	if text == "/back" {
		if _, err := sess.Back(); err != nil {
			h.sendFlowError(ctx, m, chatID, sess, err)
			return
		}
		h.sendScreen(ctx, m, chatID, sess)
		return
	}

	st := sess.State()
	if st.Terminal() {
		h.send(ctx, m, chatID, h.closedNotice(), nil)
		return
	}
	if st.Step != model.StepEmail {
		h.sendScreen(ctx, m, chatID, sess)
		return
	}

	if err := sess.SetEmail(text); err != nil {
		h.sendFlowError(ctx, m, chatID, sess, err)
		return
	}
	log.Debug().Bool("valid", questionnaire.IsValidEmail(text)).Msg("email entered")
	h.sendScreen(ctx, m, chatID, sess)
}

func (h *EligibilityBotHandler) handleCallback(ctx context.Context, m Messenger, cq *models.CallbackQuery) {
	chatID := cq.From.ID
	messageID := 0
	if cq.Message.Message != nil {
		chatID = cq.Message.Message.Chat.ID
		messageID = cq.Message.Message.ID
	}

	sess, created := h.sessions.Get(chatID)
	if created {
		h.metrics.SetActiveSessions(h.sessions.Len())
	}
	log := h.sessionLogger(chatID, sess)

	parts := strings.Split(strings.TrimPrefix(cq.Data, callbackPrefix), ":")
	action := parts[0]
	before := sess.State()

	var err error
	switch action {
	case actionOptIn:
		_, err = sess.ToggleNewsletterOptIn()
		if err == nil {
			h.ack(ctx, m, cq.ID, "")
			h.editKeyboard(ctx, m, chatID, messageID, sess)
			return
		}
	case actionContinue:
		_, err = sess.Continue()
	case actionAnswer:
		if len(parts) != 3 {
			err = fmt.Errorf("%w: malformed answer %q", model.ErrWrongStep, cq.Data)
			break
		}
		_, err = sess.Answer(model.Field(parts[1]), parts[2] == "yes")
	case actionBack:
		_, err = sess.Back()
	case actionInterest:
		var idx int
		if len(parts) == 2 {
			idx, err = strconv.Atoi(parts[1])
		}
		if len(parts) != 2 || err != nil || idx < 0 || idx >= len(h.content.Interests) {
			err = fmt.Errorf("%w: malformed interest %q", model.ErrWrongStep, cq.Data)
			break
		}
		_, err = sess.ToggleInterest(h.content.Interests[idx])
		if err == nil {
			h.ack(ctx, m, cq.ID, "")
			h.editKeyboard(ctx, m, chatID, messageID, sess)
			return
		}
	case actionSubmit:
		h.handleSubmit(ctx, m, cq, chatID, sess, log)
		return
	case actionReset:
		_, err = sess.Reset()
		if err == nil {
			log.Info().Msg("questionnaire reset after disqualification")
		}
	default:
		err = fmt.Errorf("%w: unknown action %q", model.ErrWrongStep, action)
	}

	if err != nil {
		h.ackFlowError(ctx, m, cq.ID, chatID, sess, err)
		return
	}
	h.ack(ctx, m, cq.ID, "")
	h.recordTransition(before, sess.State(), log)
	h.sendScreen(ctx, m, chatID, sess)
}

func (h *EligibilityBotHandler) handleSubmit(ctx context.Context, m Messenger, cq *models.CallbackQuery, chatID int64, sess *questionnaire.Session, log zerolog.Logger) {
	if sess.Submitting() {
		h.ack(ctx, m, cq.ID, h.content.Notices.Busy)
		return
	}
	h.ack(ctx, m, cq.ID, h.content.Labels.Submitting)

	start := time.Now()
	_, err := sess.Submit(ctx, h.submitter)
	if errors.Is(err, model.ErrSubmissionFailed) || err == nil {
		h.metrics.ObserveSubmission(err, time.Since(start))
	}
	switch {
	case err == nil:
		log.Info().Dur("took", time.Since(start)).Msg("answers submitted")
		h.sendScreen(ctx, m, chatID, sess)
	case errors.Is(err, model.ErrSubmissionFailed):
		log.Error().Err(err).Msg("submission error")
		h.sendScreen(ctx, m, chatID, sess)
	default:
		h.sendFlowError(ctx, m, chatID, sess, err)
	}
}

func (h *EligibilityBotHandler) recordTransition(before, after model.State, log zerolog.Logger) {
	if after.Direction != model.DirectionForward || before.Terminal() {
		return
	}
	if after.Outcome == model.OutcomeDisqualified {
		h.metrics.IncrementAnswer(before.Step.String())
		h.metrics.IncrementDisqualified(before.Step.String())
		log.Info().Str("step", before.Step.String()).Msg("disqualified")
		return
	}
	if after.Step != before.Step {
		h.metrics.IncrementAnswer(before.Step.String())
		log.Debug().Str("step", before.Step.String()).Str("next", after.Step.String()).Msg("answer accepted")
	}
}

func (h *EligibilityBotHandler) notice(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidEmail):
		return h.content.Steps.Email.Invalid
	case errors.Is(err, model.ErrSessionClosed):
		return h.closedNotice()
	case errors.Is(err, model.ErrSubmissionInFlight):
		return h.content.Notices.Busy
	default:
		return h.content.Notices.Stale
	}
}

func (h *EligibilityBotHandler) closedNotice() string {
	return h.content.Notices.Closed + " " + h.content.Notices.StartAgain
}

// ackFlowError answers the button press with a short notice. Stale buttons
// also get the current step re-sent so the user can carry on.
func (h *EligibilityBotHandler) ackFlowError(ctx context.Context, m Messenger, callbackID string, chatID int64, sess *questionnaire.Session, err error) {
	h.ack(ctx, m, callbackID, h.notice(err))
	if errors.Is(err, model.ErrWrongStep) || errors.Is(err, model.ErrResetUnavailable) {
		h.sendScreen(ctx, m, chatID, sess)
	}
}

func (h *EligibilityBotHandler) sendFlowError(ctx context.Context, m Messenger, chatID int64, sess *questionnaire.Session, err error) {
	h.send(ctx, m, chatID, h.notice(err), nil)
	if errors.Is(err, model.ErrWrongStep) {
		h.sendScreen(ctx, m, chatID, sess)
	}
}

func (h *EligibilityBotHandler) sendScreen(ctx context.Context, m Messenger, chatID int64, sess *questionnaire.Session) {
	text, markup := renderScreen(h.content, sess.State(), sess.Answers())
	h.send(ctx, m, chatID, text, markup)
}

func (h *EligibilityBotHandler) editKeyboard(ctx context.Context, m Messenger, chatID int64, messageID int, sess *questionnaire.Session) {
	if messageID == 0 {
		h.sendScreen(ctx, m, chatID, sess)
		return
	}
	_, markup := renderScreen(h.content, sess.State(), sess.Answers())
	_, err := m.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      chatID,
		MessageID:   messageID,
		ReplyMarkup: markup,
	})
	if err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("error editing keyboard")
	}
}

func (h *EligibilityBotHandler) send(ctx context.Context, m Messenger, chatID int64, text string, markup models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := m.SendMessage(ctx, params); err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("error sending message")
	}
}

func (h *EligibilityBotHandler) ack(ctx context.Context, m Messenger, callbackID, text string) {
	_, err := m.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("error answering callback query")
	}
}

func (h *EligibilityBotHandler) sessionLogger(chatID int64, sess *questionnaire.Session) zerolog.Logger {
	return h.logger.With().Int64("chat_id", chatID).Str("session_id", sess.ID()).Logger()
}
