package service

import "github.com/aboalhasanx/masters-quiz-bot/internal/leveling"

// QuestionEvent is one question ready for the presentation layer to render.
type QuestionEvent struct {
	Text         string
	Options      []string
	CorrectIndex int
	Explanation  string
	Index        int // zero-based position within the quiz
	Total        int
}

// LevelChange reports an XP award and the level transition it caused.
type LevelChange struct {
	OldLevel  int
	NewLevel  int
	LeveledUp bool
	XPGained  int64
	TotalXP   int64
}

// QuizSummary is emitted when a quiz run finishes.
type QuizSummary struct {
	Score      int
	Total      int
	Percentage float64
	XPEarned   int64
	Level      LevelChange
	Info       leveling.Info // level state after the award
}

// AnswerResult is emitted for each recorded answer. Exactly one of Next and
// Summary is set: the next question, or the final summary.
type AnswerResult struct {
	IsCorrect    bool
	CorrectIndex int
	Next         *QuestionEvent
	Summary      *QuizSummary
}

// StartResult is emitted when a quiz run begins.
type StartResult struct {
	Subject string
	Chapter string
	Title   string
	Total   int
	First   QuestionEvent
}

// AbortSummary acknowledges a user-initiated cancellation. Nothing about the
// aborted run remains recorded.
type AbortSummary struct {
	Answered int
	Total    int
}
