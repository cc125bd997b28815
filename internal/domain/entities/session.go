package entities

import "time"

// QuizSession represents one persisted quiz attempt, open until finalized.
type QuizSession struct {
	ID             int64      // unique session ID
	UserID         int64      // user who started the quiz
	Subject        string     // subject key, e.g. "ai"
	Chapter        string     // chapter/part key, e.g. "pt1"
	StartedAt      time.Time  // timestamp when the quiz started
	EndedAt        *time.Time // set exactly once by finalization, nil while open
	Score          int        // correct answers, fixed at finalization
	TotalQuestions int        // question count, fixed at creation
}

// NewQuizSession creates an open session sized to the selected question count.
func NewQuizSession(userID int64, subject, chapter string, totalQuestions int) *QuizSession {
	return &QuizSession{
		UserID:         userID,
		Subject:        subject,
		Chapter:        chapter,
		TotalQuestions: totalQuestions,
		StartedAt:      time.Now(),
	}
}

// Percentage returns the session score as a percentage of its question count.
func (s *QuizSession) Percentage() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.Score) / float64(s.TotalQuestions) * 100
}

// QuestionAttempt is one answered question within a session.
// Immutable once written; deleted together with its session on abort.
type QuestionAttempt struct {
	ID           int64     // unique attempt ID
	SessionID    int64     // owning session
	QuestionText string    // snapshot of the question as shown
	UserAnswer   int       // option index the user chose
	CorrectIndex int       // option index that was correct
	IsCorrect    bool      // whether the chosen index matched
	AnsweredAt   time.Time // timestamp when the answer was recorded
}
