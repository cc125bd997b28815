package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aboalhasanx/masters-quiz-bot/internal/config"
	"github.com/aboalhasanx/masters-quiz-bot/internal/delivery/telegram"
	"github.com/aboalhasanx/masters-quiz-bot/internal/infra/postgres"
	"github.com/aboalhasanx/masters-quiz-bot/internal/infra/postgres/repository"
	"github.com/aboalhasanx/masters-quiz-bot/internal/logger"
	"github.com/aboalhasanx/masters-quiz-bot/internal/questions"
	"github.com/aboalhasanx/masters-quiz-bot/internal/service"
	"github.com/aboalhasanx/masters-quiz-bot/internal/storage"
)

func main() {
	// Local development keeps secrets in .env; absence is fine elsewhere.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zapLogger.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		zapLogger.Fatal("failed to create bot api", zap.Error(err))
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "Main menu — pick a subject",
		},
		{
			Command:     "stats",
			Description: "Your personal statistics",
		},
		{
			Command:     "weekly",
			Description: "Your last 7 days",
		},
		{
			Command:     "progress",
			Description: "Your per-chapter progress",
		},
		{
			Command:     "cancel",
			Description: "Leave the current quiz",
		},
		{
			Command:     "help",
			Description: "Help",
		},
	}

	if _, err = bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		zapLogger.Warn("failed to set bot commands", zap.Error(err))
	}

	zapLogger.Info("authorized", zap.String("account", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB.URL, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		zapLogger.Fatal("failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		zapLogger.Fatal("failed to ensure schema", zap.Error(err))
	}

	transactor := postgres.NewTransactor(pool)

	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool, transactor)
	statsRepo := repository.NewStatsRepository(pool)

	var source questions.Source
	if cfg.Questions.UseOnline {
		source = questions.NewGitHubSource(cfg.Questions.GitHubAPIURL, cfg.Questions.GitHubRawURL)
	} else {
		source = questions.NewLocalSource(cfg.Questions.LocalDir)
	}
	questionStore := questions.NewService(source, zapLogger, cfg.Questions.CacheDuration)

	activeQuizzes := storage.NewActiveQuizStore()

	userService := service.NewUserService(userRepo)
	statsService := service.NewStatsService(statsRepo, sessionRepo)
	quizService := service.NewQuizService(
		questionStore,
		sessionRepo,
		userService,
		activeQuizzes,
		zapLogger,
		service.Config{
			UseAllQuestions:  cfg.Quiz.UseAllQuestions,
			QuestionsPerQuiz: cfg.Quiz.QuestionsPerQuiz,
			XPPerCorrect:     cfg.Quiz.XPPerCorrect,
			XPPerWrong:       cfg.Quiz.XPPerWrong,
			XPPerfectBonus:   cfg.Quiz.XPPerfectBonus,
		},
	)

	handler := telegram.NewHandler(
		bot,
		zapLogger,
		userService,
		quizService,
		statsService,
		questionStore,
	)
	if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
		zapLogger.Fatal("handler stopped", zap.Error(err))
	}

	zapLogger.Info("shutdown signal received")
}
