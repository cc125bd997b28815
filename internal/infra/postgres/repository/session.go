package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aboalhasanx/masters-quiz-bot/internal/domain/entities"
	"github.com/aboalhasanx/masters-quiz-bot/internal/infra/postgres"
)

var ErrSessionNotFound = errors.New("quiz session not found")

// SessionRepository provides access to quiz session and attempt data
// in the database.
type SessionRepository struct {
	db postgres.DBTX
	tx *postgres.Transactor
}

// NewSessionRepository creates a new SessionRepository with the provided
// database pool and transactor.
func NewSessionRepository(db postgres.DBTX, tx *postgres.Transactor) *SessionRepository {
	return &SessionRepository{db: db, tx: tx}
}

// Create opens a session row with zero score and no end time.
func (r *SessionRepository) Create(ctx context.Context, session *entities.QuizSession) (int64, error) {
	query := `
		INSERT INTO quiz_sessions (user_id, subject, chapter, started_at, total_questions)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(
		ctx,
		query,
		session.UserID,
		session.Subject,
		session.Chapter,
		session.StartedAt,
		session.TotalQuestions,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create quiz session: %w", err)
	}

	return id, nil
}

// Finalize sets the end time to now and writes the final score.
func (r *SessionRepository) Finalize(ctx context.Context, sessionID int64, score int) error {
	query := `
		UPDATE quiz_sessions
		SET ended_at = NOW(), score = $2
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, sessionID, score)
	if err != nil {
		return fmt.Errorf("finalize session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// Abort hard-deletes the session and all its attempts in one transaction,
// so no partial record survives a user-initiated cancellation.
func (r *SessionRepository) Abort(ctx context.Context, sessionID int64) error {
	return r.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM question_attempts WHERE session_id = $1`, sessionID); err != nil {
			return fmt.Errorf("delete attempts: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM quiz_sessions WHERE id = $1`, sessionID)
		if err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrSessionNotFound
		}

		return nil
	})
}

// RecordAttempt appends an immutable attempt row.
func (r *SessionRepository) RecordAttempt(ctx context.Context, attempt *entities.QuestionAttempt) error {
	query := `
		INSERT INTO question_attempts (session_id, question_text, user_answer, correct_answer, is_correct, answered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(
		ctx,
		query,
		attempt.SessionID,
		attempt.QuestionText,
		attempt.UserAnswer,
		attempt.CorrectIndex,
		attempt.IsCorrect,
		attempt.AnsweredAt,
	)
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}

	return nil
}

// RecentByUser retrieves the user's most recent sessions, newest first.
func (r *SessionRepository) RecentByUser(ctx context.Context, userID int64, limit int) ([]*entities.QuizSession, error) {
	query := `
		SELECT id, user_id, subject, chapter, started_at, ended_at, score, total_questions
		FROM quiz_sessions
		WHERE user_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*entities.QuizSession
	for rows.Next() {
		var s entities.QuizSession
		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Subject,
			&s.Chapter,
			&s.StartedAt,
			&s.EndedAt,
			&s.Score,
			&s.TotalQuestions,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, &s)
	}

	return sessions, rows.Err()
}
