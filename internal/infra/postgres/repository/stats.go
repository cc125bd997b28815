package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aboalhasanx/masters-quiz-bot/internal/infra/postgres"
)

// StatsRepository computes read-only aggregations over sessions and attempts.
// All queries tolerate zero-data users and return zeroed structures.
type StatsRepository struct {
	db postgres.DBTX
}

// NewStatsRepository creates a new StatsRepository with the provided database pool.
func NewStatsRepository(db postgres.DBTX) *StatsRepository {
	return &StatsRepository{db: db}
}

// WeeklyStats aggregates activity over the trailing 7 days.
type WeeklyStats struct {
	TotalAttempts    int
	CorrectAttempts  int
	Accuracy         float64
	ActiveDays       int
	CompletedQuizzes int
}

// GetWeeklyStats returns the trailing-7-day aggregate for a user.
func (r *StatsRepository) GetWeeklyStats(ctx context.Context, userID int64) (*WeeklyStats, error) {
	query := `
		SELECT
			COUNT(qa.id) AS total_attempts,
			COUNT(qa.id) FILTER (WHERE qa.is_correct) AS correct_attempts,
			COUNT(DISTINCT DATE(qa.answered_at)) AS active_days,
			(SELECT COUNT(*) FROM quiz_sessions
			 WHERE user_id = $1 AND ended_at IS NOT NULL
			   AND ended_at >= NOW() - INTERVAL '7 days') AS completed_quizzes
		FROM question_attempts qa
		JOIN quiz_sessions qs ON qs.id = qa.session_id
		WHERE qs.user_id = $1
		  AND qa.answered_at >= NOW() - INTERVAL '7 days'
	`

	var stats WeeklyStats
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.TotalAttempts,
		&stats.CorrectAttempts,
		&stats.ActiveDays,
		&stats.CompletedQuizzes,
	)
	if err != nil {
		return nil, fmt.Errorf("get weekly stats: %w", err)
	}

	if stats.TotalAttempts > 0 {
		stats.Accuracy = float64(stats.CorrectAttempts) / float64(stats.TotalAttempts) * 100
	}

	return &stats, nil
}

// SubjectStat is the per-subject slice of a user's lifetime statistics.
type SubjectStat struct {
	Subject  string
	Count    int
	AvgScore float64
}

// UserStats holds a user's lifetime statistics.
type UserStats struct {
	TotalQuestions int
	CorrectAnswers int
	XP             int64
	JoinedAt       time.Time
	Accuracy       float64
	QuizCount      int
	BestScore      float64 // best session percentage
	Subjects       []SubjectStat
}

// GetUserStats returns lifetime totals, quiz count, best percentage score
// and per-subject averages.
func (r *StatsRepository) GetUserStats(ctx context.Context, userID int64) (*UserStats, error) {
	query := `
		SELECT
			u.total_questions,
			u.correct_answers,
			u.xp,
			u.joined_at,
			COUNT(qs.id) FILTER (WHERE qs.ended_at IS NOT NULL) AS quiz_count,
			COALESCE(MAX(
				CASE WHEN qs.ended_at IS NOT NULL AND qs.total_questions > 0
				     THEN qs.score::float / qs.total_questions * 100 END
			), 0) AS best_score
		FROM users u
		LEFT JOIN quiz_sessions qs ON qs.user_id = u.id
		WHERE u.id = $1
		GROUP BY u.id
	`

	var stats UserStats
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.TotalQuestions,
		&stats.CorrectAnswers,
		&stats.XP,
		&stats.JoinedAt,
		&stats.QuizCount,
		&stats.BestScore,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &UserStats{}, nil
		}
		return nil, fmt.Errorf("get user stats: %w", err)
	}

	if stats.TotalQuestions > 0 {
		stats.Accuracy = float64(stats.CorrectAnswers) / float64(stats.TotalQuestions) * 100
	}

	subjects, err := r.subjectStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.Subjects = subjects

	return &stats, nil
}

func (r *StatsRepository) subjectStats(ctx context.Context, userID int64) ([]SubjectStat, error) {
	query := `
		SELECT
			subject,
			COUNT(*) AS quiz_count,
			AVG(score::float / total_questions * 100) AS avg_score
		FROM quiz_sessions
		WHERE user_id = $1 AND ended_at IS NOT NULL AND total_questions > 0
		GROUP BY subject
		ORDER BY quiz_count DESC, subject
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get subject stats: %w", err)
	}
	defer rows.Close()

	var stats []SubjectStat
	for rows.Next() {
		var s SubjectStat
		if err := rows.Scan(&s.Subject, &s.Count, &s.AvgScore); err != nil {
			return nil, fmt.Errorf("scan subject stat: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// ChapterProgress is one subject+chapter slice of a user's progress.
type ChapterProgress struct {
	Subject        string
	Chapter        string
	Attempts       int
	AvgScore       float64
	BestScore      int // best raw score
	TotalQuestions int
}

// GetSubjectProgress returns per subject+chapter aggregates over completed
// sessions, ordered by subject then chapter.
func (r *StatsRepository) GetSubjectProgress(ctx context.Context, userID int64) ([]ChapterProgress, error) {
	query := `
		SELECT
			subject,
			chapter,
			COUNT(*) AS attempts,
			AVG(score::float / total_questions * 100) AS avg_score,
			MAX(score) AS best_score,
			MAX(total_questions) AS total_questions
		FROM quiz_sessions
		WHERE user_id = $1 AND ended_at IS NOT NULL AND total_questions > 0
		GROUP BY subject, chapter
		ORDER BY subject, chapter
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get subject progress: %w", err)
	}
	defer rows.Close()

	var progress []ChapterProgress
	for rows.Next() {
		var p ChapterProgress
		err := rows.Scan(&p.Subject, &p.Chapter, &p.Attempts, &p.AvgScore, &p.BestScore, &p.TotalQuestions)
		if err != nil {
			return nil, fmt.Errorf("scan chapter progress: %w", err)
		}
		progress = append(progress, p)
	}

	return progress, rows.Err()
}
