package service

import (
	"context"

	"github.com/aboalhasanx/masters-quiz-bot/internal/domain/entities"
	"github.com/aboalhasanx/masters-quiz-bot/internal/leveling"
)

type UserService struct {
	repo UserRepo
}

func NewUserService(repo UserRepo) *UserService {
	return &UserService{repo: repo}
}

// EnsureUser creates the user on first interaction and returns the stored
// record. Repeated calls with the same id are no-ops.
func (s *UserService) EnsureUser(ctx context.Context, userID int64, username, firstName string) (*entities.User, error) {
	return s.repo.Create(ctx, userID, username, firstName)
}

// AddXP adds a non-negative amount to the user's XP and reports the level
// transition so the caller can render a level-up notice.
func (s *UserService) AddXP(ctx context.Context, userID int64, amount int64) (LevelChange, error) {
	total, err := s.repo.AddXP(ctx, userID, amount)
	if err != nil {
		return LevelChange{}, err
	}

	oldLevel := leveling.LevelForXP(total - amount)
	newLevel := leveling.LevelForXP(total)

	return LevelChange{
		OldLevel:  oldLevel,
		NewLevel:  newLevel,
		LeveledUp: newLevel > oldLevel,
		XPGained:  amount,
		TotalXP:   total,
	}, nil
}

// RecordQuizResult increments the user's lifetime counters.
func (s *UserService) RecordQuizResult(ctx context.Context, userID int64, questions, correct int) error {
	return s.repo.RecordQuizResult(ctx, userID, questions, correct)
}
