package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aboalhasanx/masters-quiz-bot/internal/domain/entities"
	"github.com/aboalhasanx/masters-quiz-bot/internal/infra/postgres/repository"
	"github.com/aboalhasanx/masters-quiz-bot/internal/service"
)

type UserService interface {
	EnsureUser(ctx context.Context, userID int64, username, firstName string) (*entities.User, error)
}

type QuizService interface {
	Start(ctx context.Context, userID int64, subjectKey, chapterKey, sourceRef string) (*service.StartResult, error)
	Answer(ctx context.Context, userID int64, selectedIndex int) (*service.AnswerResult, error)
	Abort(ctx context.Context, userID int64) (*service.AbortSummary, error)
	Active(userID int64) bool
}

type StatsService interface {
	UserStats(ctx context.Context, userID int64) (*repository.UserStats, error)
	WeeklyStats(ctx context.Context, userID int64) (*repository.WeeklyStats, error)
	SubjectProgress(ctx context.Context, userID int64) ([]repository.ChapterProgress, error)
	RecentSessions(ctx context.Context, userID int64, limit int) ([]*entities.QuizSession, error)
}

type QuestionCatalog interface {
	ListParts(ctx context.Context, folder string) []entities.Part
}

type Handler struct {
	bot          *tgbotapi.BotAPI
	logger       *zap.Logger
	userService  UserService
	quizService  QuizService
	statsService StatsService
	catalog      QuestionCatalog
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	userService UserService,
	quizService QuizService,
	statsService StatsService,
	catalog QuestionCatalog,
) *Handler {
	return &Handler{
		bot:          bot,
		logger:       logger,
		userService:  userService,
		quizService:  quizService,
		statsService: statsService,
		catalog:      catalog,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.PollAnswer != nil {
		h.handlePollAnswer(ctx, update.PollAnswer)
		return
	}

	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message, callback or poll answer")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	from := update.Message.From
	if _, err := h.userService.EnsureUser(ctx, from.ID, from.UserName, from.FirstName); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", from.ID),
			zap.Error(err),
		)
	}

	chatID := update.Message.Chat.ID

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start":
			h.send(buildWelcomeMessage(chatID, from.FirstName))

		case "stats":
			h.handleStatsCommand(ctx, chatID, from)

		case "progress":
			h.handleProgressCommand(ctx, chatID, from.ID)

		case "weekly":
			h.handleWeeklyCommand(ctx, chatID, from.ID)

		case "cancel":
			h.handleCancel(ctx, chatID, from.ID)

		case "help":
			h.send(newHTMLMessage(chatID, msgHelp))

		default:
			h.send(newHTMLMessage(chatID, msgUnknownCommand))
		}

		return
	}

	h.send(newHTMLMessage(chatID, msgUseStart))
}

func (h *Handler) handleCancel(ctx context.Context, chatID, userID int64) {
	summary, err := h.quizService.Abort(ctx, userID)
	if err != nil {
		h.handleAbortError(chatID, userID, err)
		return
	}

	msg := newHTMLMessage(chatID, buildAbortMessage(summary))
	msg.ReplyMarkup = buildQuizResultKeyboard()
	h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
