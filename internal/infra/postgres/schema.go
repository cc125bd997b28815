package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		username TEXT,
		first_name TEXT NOT NULL,
		joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		total_questions INTEGER NOT NULL DEFAULT 0,
		correct_answers INTEGER NOT NULL DEFAULT 0,
		xp BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_sessions (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users (id),
		subject TEXT NOT NULL,
		chapter TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		ended_at TIMESTAMPTZ,
		score INTEGER NOT NULL DEFAULT 0,
		total_questions INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS question_attempts (
		id BIGSERIAL PRIMARY KEY,
		session_id BIGINT NOT NULL REFERENCES quiz_sessions (id) ON DELETE CASCADE,
		question_text TEXT NOT NULL,
		user_answer INTEGER NOT NULL,
		correct_answer INTEGER NOT NULL,
		is_correct BOOLEAN NOT NULL,
		answered_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_quiz_sessions_user ON quiz_sessions (user_id, started_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_question_attempts_session ON question_attempts (session_id)`,
}

// EnsureSchema creates the tables on startup if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
