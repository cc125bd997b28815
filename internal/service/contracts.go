package service

import (
	"context"

	"github.com/aboalhasanx/masters-quiz-bot/internal/domain/entities"
	"github.com/aboalhasanx/masters-quiz-bot/internal/infra/postgres/repository"
)

type UserRepo interface {
	Create(ctx context.Context, id int64, username, firstName string) (*entities.User, error)
	GetByID(ctx context.Context, userID int64) (*entities.User, error)
	AddXP(ctx context.Context, userID int64, amount int64) (int64, error)
	RecordQuizResult(ctx context.Context, userID int64, questions, correct int) error
}

type SessionRepo interface {
	Create(ctx context.Context, session *entities.QuizSession) (int64, error)
	Finalize(ctx context.Context, sessionID int64, score int) error
	Abort(ctx context.Context, sessionID int64) error
	RecordAttempt(ctx context.Context, attempt *entities.QuestionAttempt) error
	RecentByUser(ctx context.Context, userID int64, limit int) ([]*entities.QuizSession, error)
}

type StatsRepo interface {
	GetWeeklyStats(ctx context.Context, userID int64) (*repository.WeeklyStats, error)
	GetUserStats(ctx context.Context, userID int64) (*repository.UserStats, error)
	GetSubjectProgress(ctx context.Context, userID int64) ([]repository.ChapterProgress, error)
}

type QuestionStore interface {
	LoadSet(ctx context.Context, ref string) (*entities.QuestionSet, error)
	ListParts(ctx context.Context, folder string) []entities.Part
}
