package service

import (
	"context"

	"github.com/aboalhasanx/masters-quiz-bot/internal/domain/entities"
	"github.com/aboalhasanx/masters-quiz-bot/internal/infra/postgres/repository"
)

type StatsService struct {
	stats    StatsRepo
	sessions SessionRepo
}

func NewStatsService(stats StatsRepo, sessions SessionRepo) *StatsService {
	return &StatsService{stats: stats, sessions: sessions}
}

func (s *StatsService) UserStats(ctx context.Context, userID int64) (*repository.UserStats, error) {
	return s.stats.GetUserStats(ctx, userID)
}

func (s *StatsService) WeeklyStats(ctx context.Context, userID int64) (*repository.WeeklyStats, error) {
	return s.stats.GetWeeklyStats(ctx, userID)
}

func (s *StatsService) SubjectProgress(ctx context.Context, userID int64) ([]repository.ChapterProgress, error) {
	return s.stats.GetSubjectProgress(ctx, userID)
}

func (s *StatsService) RecentSessions(ctx context.Context, userID int64, limit int) ([]*entities.QuizSession, error) {
	return s.sessions.RecentByUser(ctx, userID, limit)
}
