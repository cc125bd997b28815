package entities

import "time"

// User represents a bot user with lifetime quiz statistics.
type User struct {
	ID             int64     // Telegram user ID
	Username       string    // Telegram handle, may be empty
	FirstName      string    // display name
	JoinedAt       time.Time // timestamp of first interaction
	TotalQuestions int       // lifetime answered questions
	CorrectAnswers int       // lifetime correct answers
	XP             int64     // lifetime experience points, never decreases
}

func NewUser(id int64, username, firstName string) *User {
	return &User{
		ID:        id,
		Username:  username,
		FirstName: firstName,
	}
}

// Accuracy returns the lifetime accuracy percentage.
func (u *User) Accuracy() float64 {
	if u.TotalQuestions == 0 {
		return 0
	}
	return float64(u.CorrectAnswers) / float64(u.TotalQuestions) * 100
}
