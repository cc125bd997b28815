package questions

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable reports a network or transport failure while
	// reaching the question source. Recoverable, the user can retry.
	ErrSourceUnavailable = errors.New("question source unavailable")

	// ErrInvalidFormat reports a malformed question payload. A content
	// defect, surfaced to the user as "no questions available".
	ErrInvalidFormat = errors.New("invalid question payload")

	// ErrSetNotFound reports a missing question set resource.
	ErrSetNotFound = errors.New("question set not found")
)

// ValidationError describes why a question record was rejected.
// Rejected records are never shown to a user and never repaired.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid question: %s", e.Reason)
}
