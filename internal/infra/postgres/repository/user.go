package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aboalhasanx/masters-quiz-bot/internal/domain/entities"
	"github.com/aboalhasanx/masters-quiz-bot/internal/infra/postgres"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository provides access to user data in the database.
type UserRepository struct {
	db postgres.DBTX
}

// NewUserRepository creates a new UserRepository with the provided database pool.
func NewUserRepository(db postgres.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and returns the stored record. When the id
// already exists the existing row is returned untouched, so the second
// call's name arguments are ignored.
func (r *UserRepository) Create(ctx context.Context, id int64, username, firstName string) (*entities.User, error) {
	query := `
		INSERT INTO users (id, username, first_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, id, username, firstName); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*entities.User, error) {
	query := `
		SELECT id, COALESCE(username, ''), first_name, joined_at,
		       total_questions, correct_answers, xp
		FROM users
		WHERE id = $1
	`

	var user entities.User
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.JoinedAt,
		&user.TotalQuestions,
		&user.CorrectAnswers,
		&user.XP,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// AddXP atomically adds a non-negative amount to the user's XP and returns
// the resulting total.
func (r *UserRepository) AddXP(ctx context.Context, userID int64, amount int64) (int64, error) {
	query := `
		UPDATE users
		SET xp = xp + $2
		WHERE id = $1
		RETURNING xp
	`

	var total int64
	err := r.db.QueryRow(ctx, query, userID, amount).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("add xp: %w", err)
	}

	return total, nil
}

// RecordQuizResult increments the lifetime counters after a finished quiz.
func (r *UserRepository) RecordQuizResult(ctx context.Context, userID int64, questions, correct int) error {
	query := `
		UPDATE users
		SET total_questions = total_questions + $2,
		    correct_answers = correct_answers + $3
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, userID, questions, correct)
	if err != nil {
		return fmt.Errorf("record quiz result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
