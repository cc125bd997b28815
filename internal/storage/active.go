package storage

import (
	"sync"

	"github.com/aboalhasanx/masters-quiz-bot/internal/domain/entities"
)

// ActiveQuiz is the live in-memory state of one user's quiz run. It lives
// only as long as the process; attempts already answered stay persisted.
type ActiveQuiz struct {
	SessionID   int64
	Subject     string
	Chapter     string
	Title       string              // display title of the loaded set
	Questions   []entities.Question // finalized shuffled order for this run
	Current     int                 // pointer into Questions
	Score       int
	Total       int
	LastCorrect bool                // outcome of the most recent recorded answer
}

// ActiveQuizStore holds the active quiz state per user. Entries are
// disjoint, so a single lock around the map is all the coordination needed.
type ActiveQuizStore struct {
	mu     sync.RWMutex
	active map[int64]*ActiveQuiz
}

// NewActiveQuizStore creates an empty store.
func NewActiveQuizStore() *ActiveQuizStore {
	return &ActiveQuizStore{
		active: make(map[int64]*ActiveQuiz),
	}
}

// Store saves the active quiz for a user, replacing any previous one.
func (s *ActiveQuizStore) Store(userID int64, quiz *ActiveQuiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[userID] = quiz
}

// Get retrieves the active quiz for a user, or nil.
func (s *ActiveQuizStore) Get(userID int64) *ActiveQuiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active[userID]
}

// Delete removes the active quiz for a user.
func (s *ActiveQuizStore) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, userID)
}
