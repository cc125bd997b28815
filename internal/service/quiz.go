package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aboalhasanx/masters-quiz-bot/internal/domain/entities"
	"github.com/aboalhasanx/masters-quiz-bot/internal/leveling"
	"github.com/aboalhasanx/masters-quiz-bot/internal/questions"
	"github.com/aboalhasanx/masters-quiz-bot/internal/storage"
)

var (
	ErrNoActiveQuiz = errors.New("no active quiz for user")

	// ErrResultNotSaved reports a failure while saving the results of a
	// fully answered quiz. The run stays active and the finish is retried
	// on the next answer event.
	ErrResultNotSaved = errors.New("quiz result not saved")
)

// Config holds the selection policy and XP award values for quiz runs.
type Config struct {
	UseAllQuestions  bool  // use the whole set instead of sampling
	QuestionsPerQuiz int   // sample size when UseAllQuestions is false
	XPPerCorrect     int64 // XP per correct answer
	XPPerWrong       int64 // consolation XP per wrong answer
	XPPerfectBonus   int64 // bonus for a perfect score
}

// QuizService owns the per-user quiz state machine: it selects and shuffles
// questions, tracks progress through them, scores answers and finalizes or
// aborts runs.
type QuizService struct {
	questions QuestionStore
	sessions  SessionRepo
	users     *UserService
	store     *storage.ActiveQuizStore
	logger    *zap.Logger
	cfg       Config
}

func NewQuizService(
	questionStore QuestionStore,
	sessions SessionRepo,
	users *UserService,
	store *storage.ActiveQuizStore,
	logger *zap.Logger,
	cfg Config,
) *QuizService {
	return &QuizService{
		questions: questionStore,
		sessions:  sessions,
		users:     users,
		store:     store,
		logger:    logger,
		cfg:       cfg,
	}
}

// Active reports whether the user has a quiz in progress.
func (s *QuizService) Active(userID int64) bool {
	return s.store.Get(userID) != nil
}

// Start begins a quiz run for a subject chapter. Any quiz already in
// progress for the user is discarded: a fully answered run gets its finish
// retried, anything else has its persisted session aborted, so no open row
// is left dangling.
func (s *QuizService) Start(ctx context.Context, userID int64, subjectKey, chapterKey, sourceRef string) (*StartResult, error) {
	if prev := s.store.Get(userID); prev != nil {
		if prev.Current >= prev.Total {
			// Fully answered run whose finish failed earlier: save it
			// instead of deleting a completed session.
			if _, err := s.finish(ctx, userID, prev); err != nil {
				s.logger.Warn("finish superseded session",
					zap.Int64("user_id", userID),
					zap.Int64("session_id", prev.SessionID),
					zap.Error(err),
				)
			}
		} else if err := s.sessions.Abort(ctx, prev.SessionID); err != nil {
			s.logger.Warn("abort superseded session",
				zap.Int64("user_id", userID),
				zap.Int64("session_id", prev.SessionID),
				zap.Error(err),
			)
		}
		s.store.Delete(userID)
	}

	set, err := s.questions.LoadSet(ctx, sourceRef)
	if err != nil {
		return nil, err
	}

	var selected []entities.Question
	if s.cfg.UseAllQuestions {
		selected = questions.ShuffleAll(set.Questions)
	} else {
		selected = questions.Sample(set.Questions, s.cfg.QuestionsPerQuiz)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no questions selected for %s/%s", subjectKey, chapterKey)
	}

	session := entities.NewQuizSession(userID, subjectKey, chapterKey, len(selected))
	sessionID, err := s.sessions.Create(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	s.store.Store(userID, &storage.ActiveQuiz{
		SessionID: sessionID,
		Subject:   subjectKey,
		Chapter:   chapterKey,
		Title:     set.Meta.Title,
		Questions: selected,
		Total:     len(selected),
	})

	s.logger.Info("quiz started",
		zap.Int64("user_id", userID),
		zap.Int64("session_id", sessionID),
		zap.String("subject", subjectKey),
		zap.String("chapter", chapterKey),
		zap.Int("questions", len(selected)),
	)

	return &StartResult{
		Subject: subjectKey,
		Chapter: chapterKey,
		Title:   set.Meta.Title,
		Total:   len(selected),
		First:   questionEvent(selected[0], 0, len(selected)),
	}, nil
}

// Answer scores the user's choice for the current question, persists the
// attempt and advances the run. The attempt is written before the pointer
// moves: on a persistence failure the same question stays current and can
// be re-answered.
func (s *QuizService) Answer(ctx context.Context, userID int64, selectedIndex int) (*AnswerResult, error) {
	quiz := s.store.Get(userID)
	if quiz == nil {
		return nil, ErrNoActiveQuiz
	}

	// A failed finish leaves the pointer past the last question. The final
	// attempt is already persisted, so retry the finish instead of indexing.
	if quiz.Current >= quiz.Total {
		summary, err := s.finish(ctx, userID, quiz)
		if err != nil {
			return nil, err
		}
		return &AnswerResult{
			IsCorrect:    quiz.LastCorrect,
			CorrectIndex: quiz.Questions[quiz.Total-1].CorrectIndex,
			Summary:      summary,
		}, nil
	}

	q := quiz.Questions[quiz.Current]
	if selectedIndex < 0 || selectedIndex >= len(q.Options) {
		return nil, fmt.Errorf("selected option %d out of range", selectedIndex)
	}

	isCorrect := selectedIndex == q.CorrectIndex

	attempt := &entities.QuestionAttempt{
		SessionID:    quiz.SessionID,
		QuestionText: q.Text,
		UserAnswer:   selectedIndex,
		CorrectIndex: q.CorrectIndex,
		IsCorrect:    isCorrect,
		AnsweredAt:   time.Now(),
	}
	if err := s.sessions.RecordAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}

	quiz.LastCorrect = isCorrect
	if isCorrect {
		quiz.Score++
	}
	quiz.Current++

	result := &AnswerResult{
		IsCorrect:    isCorrect,
		CorrectIndex: q.CorrectIndex,
	}

	if quiz.Current < quiz.Total {
		next := questionEvent(quiz.Questions[quiz.Current], quiz.Current, quiz.Total)
		result.Next = &next
		return result, nil
	}

	summary, err := s.finish(ctx, userID, quiz)
	if err != nil {
		return nil, err
	}
	result.Summary = summary

	return result, nil
}

// Abort cancels the user's quiz run and removes the persisted session and
// its attempts. On failure the run stays active so the abort can be retried.
func (s *QuizService) Abort(ctx context.Context, userID int64) (*AbortSummary, error) {
	quiz := s.store.Get(userID)
	if quiz == nil {
		return nil, ErrNoActiveQuiz
	}

	if err := s.sessions.Abort(ctx, quiz.SessionID); err != nil {
		return nil, fmt.Errorf("abort session: %w", err)
	}
	s.store.Delete(userID)

	s.logger.Info("quiz aborted",
		zap.Int64("user_id", userID),
		zap.Int64("session_id", quiz.SessionID),
		zap.Int("answered", quiz.Current),
		zap.Int("total", quiz.Total),
	)

	return &AbortSummary{Answered: quiz.Current, Total: quiz.Total}, nil
}

func (s *QuizService) finish(ctx context.Context, userID int64, quiz *storage.ActiveQuiz) (*QuizSummary, error) {
	xp := int64(quiz.Score)*s.cfg.XPPerCorrect + int64(quiz.Total-quiz.Score)*s.cfg.XPPerWrong
	if quiz.Score == quiz.Total {
		xp += s.cfg.XPPerfectBonus
	}

	if err := s.sessions.Finalize(ctx, quiz.SessionID, quiz.Score); err != nil {
		return nil, fmt.Errorf("%w: finalize session: %v", ErrResultNotSaved, err)
	}

	change, err := s.users.AddXP(ctx, userID, xp)
	if err != nil {
		return nil, fmt.Errorf("%w: add xp: %v", ErrResultNotSaved, err)
	}

	if err := s.users.RecordQuizResult(ctx, userID, quiz.Total, quiz.Score); err != nil {
		return nil, fmt.Errorf("%w: record quiz result: %v", ErrResultNotSaved, err)
	}

	s.store.Delete(userID)

	s.logger.Info("quiz finished",
		zap.Int64("user_id", userID),
		zap.Int64("session_id", quiz.SessionID),
		zap.Int("score", quiz.Score),
		zap.Int("total", quiz.Total),
		zap.Int64("xp_earned", xp),
	)

	percentage := float64(0)
	if quiz.Total > 0 {
		percentage = float64(quiz.Score) / float64(quiz.Total) * 100
	}

	return &QuizSummary{
		Score:      quiz.Score,
		Total:      quiz.Total,
		Percentage: percentage,
		XPEarned:   xp,
		Level:      change,
		Info:       leveling.ForXP(change.TotalXP),
	}, nil
}

func questionEvent(q entities.Question, index, total int) QuestionEvent {
	return QuestionEvent{
		Text:         q.Text,
		Options:      q.Options,
		CorrectIndex: q.CorrectIndex,
		Explanation:  q.Explanation,
		Index:        index,
		Total:        total,
	}
}
