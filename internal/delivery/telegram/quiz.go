package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aboalhasanx/masters-quiz-bot/internal/questions"
	"github.com/aboalhasanx/masters-quiz-bot/internal/service"
	"github.com/aboalhasanx/masters-quiz-bot/internal/subjects"
)

// Telegram quiz polls cap the question text length.
const maxPollQuestionLen = 250

func (h *Handler) startQuiz(ctx context.Context, cb *tgbotapi.CallbackQuery, subjectKey, chapterKey string) {
	userID := cb.From.ID
	chatID := cb.Message.Chat.ID

	subject, ok := subjects.Get(subjectKey)
	if !ok {
		h.editText(cb, msgUnknownSubject, nil)
		return
	}

	// Resolve the chapter back to its source reference; the listing is
	// served from cache on this path.
	var sourceRef string
	for _, part := range h.catalog.ListParts(ctx, subject.Folder) {
		if part.Key == chapterKey {
			sourceRef = part.SourceRef
			break
		}
	}
	if sourceRef == "" {
		h.editText(cb, msgNoParts, nil)
		return
	}

	result, err := h.quizService.Start(ctx, userID, subjectKey, chapterKey, sourceRef)
	if err != nil {
		h.logger.Error("failed to start quiz",
			zap.Int64("user_id", userID),
			zap.String("subject", subjectKey),
			zap.String("chapter", chapterKey),
			zap.Error(err),
		)

		switch {
		case errors.Is(err, questions.ErrSourceUnavailable):
			h.editText(cb, msgSourceUnavailable, nil)
		case errors.Is(err, questions.ErrInvalidFormat), errors.Is(err, questions.ErrSetNotFound):
			h.editText(cb, msgNoQuestions, nil)
		default:
			h.editText(cb, msgInternalError, nil)
		}
		return
	}

	h.editText(cb, buildStartMessage(subject, result), nil)
	h.sendQuestion(chatID, &result.First)

	hint := newHTMLMessage(chatID, msgExitHint)
	hint.ReplyMarkup = buildQuizExitKeyboard()
	h.send(hint)
}

func (h *Handler) sendQuestion(chatID int64, ev *service.QuestionEvent) {
	text := fmt.Sprintf("Q%d/%d: %s", ev.Index+1, ev.Total, truncate(ev.Text, maxPollQuestionLen))

	poll := tgbotapi.NewPoll(chatID, text, ev.Options...)
	poll.Type = "quiz"
	poll.IsAnonymous = false
	poll.CorrectOptionID = int64(ev.CorrectIndex)
	poll.Explanation = ev.Explanation

	h.send(poll)
}

func (h *Handler) handlePollAnswer(ctx context.Context, pa *tgbotapi.PollAnswer) {
	userID := pa.User.ID

	// Retracted votes arrive with no option ids.
	if len(pa.OptionIDs) == 0 {
		return
	}

	if !h.quizService.Active(userID) {
		h.logger.Debug("poll answer without active quiz",
			zap.Int64("user_id", userID),
		)
		return
	}

	result, err := h.quizService.Answer(ctx, userID, pa.OptionIDs[0])
	if err != nil {
		if errors.Is(err, service.ErrNoActiveQuiz) {
			return
		}
		h.logger.Error("failed to record answer",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		if errors.Is(err, service.ErrResultNotSaved) {
			// The attempt is persisted; the finish is retried later.
			h.send(newHTMLMessage(userID, msgResultNotSaved))
			return
		}
		// The pointer did not advance; the same question can be answered again.
		h.send(newHTMLMessage(userID, msgAnswerNotRecorded))
		return
	}

	if result.IsCorrect {
		h.send(newHTMLMessage(userID, msgCorrect))
	} else {
		h.send(newHTMLMessage(userID, msgWrong))
	}

	if result.Next != nil {
		h.sendQuestion(userID, result.Next)
		return
	}

	msg := newHTMLMessage(userID, buildResultMessage(result.Summary))
	msg.ReplyMarkup = buildQuizResultKeyboard()
	h.send(msg)
}

func (h *Handler) handleAbortError(chatID, userID int64, err error) {
	if errors.Is(err, service.ErrNoActiveQuiz) {
		h.send(newHTMLMessage(chatID, msgNoActiveQuiz))
		return
	}

	h.logger.Error("failed to abort quiz",
		zap.Int64("user_id", userID),
		zap.Error(err),
	)
	h.send(newHTMLMessage(chatID, msgInternalError))
}
