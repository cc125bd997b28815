package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aboalhasanx/masters-quiz-bot/internal/subjects"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	parts := strings.Split(cb.Data, ":")

	switch parts[0] {
	case actionSubject:
		if len(parts) == 2 {
			h.showParts(ctx, cb, parts[1])
		}

	case actionQuiz:
		switch {
		case len(parts) == 4 && parts[1] == quizStart:
			h.startQuiz(ctx, cb, parts[2], parts[3])
		case len(parts) == 2 && parts[1] == quizExit:
			h.exitQuiz(ctx, cb)
		}

	case actionMenu:
		h.editText(cb, msgChooseSubject, buildSubjectsKeyboard())

	case actionStats:
		h.handleStatsCommand(ctx, cb.Message.Chat.ID, cb.From)

	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
	}

	// Remove the user's "clock".
	answer := tgbotapi.NewCallback(cb.ID, "")
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Error("callback answer error", zap.Error(err))
	}
}

// showParts lists the discoverable chapters of a subject.
func (h *Handler) showParts(ctx context.Context, cb *tgbotapi.CallbackQuery, subjectKey string) {
	subject, ok := subjects.Get(subjectKey)
	if !ok {
		h.editText(cb, msgUnknownSubject, nil)
		return
	}

	parts := h.catalog.ListParts(ctx, subject.Folder)
	if len(parts) == 0 {
		h.editText(cb, msgNoParts, buildBackKeyboard())
		return
	}

	h.editText(cb, buildPartsHeader(subject), buildPartsKeyboard(subject.Key, parts))
}

func (h *Handler) exitQuiz(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	userID := cb.From.ID
	chatID := cb.Message.Chat.ID

	summary, err := h.quizService.Abort(ctx, userID)
	if err != nil {
		h.handleAbortError(chatID, userID, err)
		return
	}

	msg := newHTMLMessage(chatID, buildAbortMessage(summary))
	msg.ReplyMarkup = buildQuizResultKeyboard()
	h.send(msg)
}

func (h *Handler) editText(cb *tgbotapi.CallbackQuery, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if kb != nil {
		edit.ReplyMarkup = kb
	}

	h.send(edit)
}
