package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/aboalhasanx/masters-quiz-bot/internal/domain/entities"
	"github.com/aboalhasanx/masters-quiz-bot/internal/storage"
)

type fakeUserRepo struct {
	xp              int64
	addXPErr        error
	recordedResults int
	recordedCorrect int
	resultCallCount int
}

func (r *fakeUserRepo) Create(_ context.Context, id int64, username, firstName string) (*entities.User, error) {
	return entities.NewUser(id, username, firstName), nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID int64) (*entities.User, error) {
	return entities.NewUser(userID, "", ""), nil
}

func (r *fakeUserRepo) AddXP(_ context.Context, _ int64, amount int64) (int64, error) {
	if r.addXPErr != nil {
		return 0, r.addXPErr
	}
	r.xp += amount
	return r.xp, nil
}

func (r *fakeUserRepo) RecordQuizResult(_ context.Context, _ int64, questions, correct int) error {
	r.resultCallCount++
	r.recordedResults += questions
	r.recordedCorrect += correct
	return nil
}

type fakeSessionRepo struct {
	nextID      int64
	created     []*entities.QuizSession
	attempts    []*entities.QuestionAttempt
	finalized   map[int64]int
	aborted     []int64
	recent      []*entities.QuizSession
	recentLimit int
	attemptErr  error
	abortErr    error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{finalized: make(map[int64]int)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entities.QuizSession) (int64, error) {
	r.nextID++
	session.ID = r.nextID
	r.created = append(r.created, session)
	return r.nextID, nil
}

func (r *fakeSessionRepo) Finalize(_ context.Context, sessionID int64, score int) error {
	r.finalized[sessionID] = score
	return nil
}

func (r *fakeSessionRepo) Abort(_ context.Context, sessionID int64) error {
	if r.abortErr != nil {
		return r.abortErr
	}
	r.aborted = append(r.aborted, sessionID)
	return nil
}

func (r *fakeSessionRepo) RecordAttempt(_ context.Context, attempt *entities.QuestionAttempt) error {
	if r.attemptErr != nil {
		return r.attemptErr
	}
	r.attempts = append(r.attempts, attempt)
	return nil
}

func (r *fakeSessionRepo) RecentByUser(_ context.Context, _ int64, limit int) ([]*entities.QuizSession, error) {
	r.recentLimit = limit
	return r.recent, nil
}

type fakeQuestionStore struct {
	set *entities.QuestionSet
	err error
}

func (s *fakeQuestionStore) LoadSet(_ context.Context, _ string) (*entities.QuestionSet, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.set, nil
}

func (s *fakeQuestionStore) ListParts(_ context.Context, _ string) []entities.Part {
	return nil
}

func threeQuestionSet() *entities.QuestionSet {
	return &entities.QuestionSet{
		Meta: entities.SetMeta{Title: "Basics"},
		Questions: []entities.Question{
			{Text: "q1", Options: []string{"a", "b"}, CorrectIndex: 0},
			{Text: "q2", Options: []string{"a", "b"}, CorrectIndex: 1},
			{Text: "q3", Options: []string{"a", "b"}, CorrectIndex: 0},
		},
	}
}

func testConfig() Config {
	return Config{
		UseAllQuestions: true,
		XPPerCorrect:    10,
		XPPerWrong:      2,
		XPPerfectBonus:  50,
	}
}

func newTestQuizService(questions *fakeQuestionStore, sessions *fakeSessionRepo, users *fakeUserRepo) (*QuizService, *storage.ActiveQuizStore) {
	store := storage.NewActiveQuizStore()
	svc := NewQuizService(
		questions,
		sessions,
		NewUserService(users),
		store,
		zap.NewNop(),
		testConfig(),
	)
	return svc, store
}

// answerCurrent answers the user's current question, correctly or not,
// by inspecting the live quiz state. Start shuffles options, so tests
// cannot hardcode indexes.
func answerCurrent(t *testing.T, svc *QuizService, store *storage.ActiveQuizStore, userID int64, correct bool) *AnswerResult {
	t.Helper()

	quiz := store.Get(userID)
	if quiz == nil {
		t.Fatal("no active quiz")
	}

	q := quiz.Questions[quiz.Current]
	idx := q.CorrectIndex
	if !correct {
		idx = (q.CorrectIndex + 1) % len(q.Options)
	}

	result, err := svc.Answer(context.Background(), userID, idx)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	return result
}

func TestQuizPerfectRun(t *testing.T) {
	users := &fakeUserRepo{}
	sessions := newFakeSessionRepo()
	svc, store := newTestQuizService(&fakeQuestionStore{set: threeQuestionSet()}, sessions, users)

	const userID = int64(42)
	ctx := context.Background()

	start, err := svc.Start(ctx, userID, "ai", "pt1", "ai_quizzes/ai_pt1.json")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if start.Total != 3 {
		t.Fatalf("total = %d, want 3", start.Total)
	}
	if start.Title != "Basics" {
		t.Errorf("title = %q, want %q", start.Title, "Basics")
	}
	if start.First.Index != 0 || start.First.Total != 3 {
		t.Errorf("first event = %d/%d, want 0/3", start.First.Index, start.First.Total)
	}

	var last *AnswerResult
	for i := 0; i < 3; i++ {
		last = answerCurrent(t, svc, store, userID, true)
		if !last.IsCorrect {
			t.Fatalf("answer %d reported wrong", i)
		}
	}

	if last.Summary == nil {
		t.Fatal("final answer returned no summary")
	}
	summary := last.Summary

	if summary.Score != 3 || summary.Total != 3 {
		t.Errorf("summary score = %d/%d, want 3/3", summary.Score, summary.Total)
	}
	if want := int64(3*10 + 50); summary.XPEarned != want {
		t.Errorf("xp earned = %d, want %d", summary.XPEarned, want)
	}
	if summary.Percentage != 100 {
		t.Errorf("percentage = %v, want 100", summary.Percentage)
	}

	if got := sessions.finalized[1]; got != 3 {
		t.Errorf("finalized score = %d, want 3", got)
	}
	if len(sessions.attempts) != 3 {
		t.Errorf("persisted attempts = %d, want 3", len(sessions.attempts))
	}
	if users.xp != 80 {
		t.Errorf("user xp = %d, want 80", users.xp)
	}
	if users.recordedResults != 3 || users.recordedCorrect != 3 {
		t.Errorf("lifetime counters = %d/%d, want 3/3", users.recordedResults, users.recordedCorrect)
	}
	if store.Get(userID) != nil {
		t.Error("active state not cleared after finish")
	}
}

func TestQuizMixedRunXP(t *testing.T) {
	users := &fakeUserRepo{}
	sessions := newFakeSessionRepo()
	svc, store := newTestQuizService(&fakeQuestionStore{set: threeQuestionSet()}, sessions, users)

	const userID = int64(7)
	if _, err := svc.Start(context.Background(), userID, "ai", "pt1", "ref"); err != nil {
		t.Fatalf("start: %v", err)
	}

	answerCurrent(t, svc, store, userID, true)
	answerCurrent(t, svc, store, userID, false)
	last := answerCurrent(t, svc, store, userID, true)

	if last.Summary == nil {
		t.Fatal("final answer returned no summary")
	}
	// 2 correct, 1 wrong, no perfect bonus.
	if want := int64(2*10 + 1*2); last.Summary.XPEarned != want {
		t.Errorf("xp earned = %d, want %d", last.Summary.XPEarned, want)
	}
	if last.Summary.Score != 2 {
		t.Errorf("score = %d, want 2", last.Summary.Score)
	}
}

func TestQuizAbort(t *testing.T) {
	users := &fakeUserRepo{}
	sessions := newFakeSessionRepo()
	svc, store := newTestQuizService(&fakeQuestionStore{set: threeQuestionSet()}, sessions, users)

	const userID = int64(9)
	ctx := context.Background()
	if _, err := svc.Start(ctx, userID, "ai", "pt1", "ref"); err != nil {
		t.Fatalf("start: %v", err)
	}

	answerCurrent(t, svc, store, userID, true)
	answerCurrent(t, svc, store, userID, false)

	summary, err := svc.Abort(ctx, userID)
	if err != nil {
		t.Fatalf("abort: %v", err)
	}
	if summary.Answered != 2 || summary.Total != 3 {
		t.Errorf("abort summary = %d/%d, want 2/3", summary.Answered, summary.Total)
	}

	if len(sessions.aborted) != 1 || sessions.aborted[0] != 1 {
		t.Errorf("aborted sessions = %v, want [1]", sessions.aborted)
	}
	if len(sessions.finalized) != 0 {
		t.Error("aborted session must not be finalized")
	}
	if users.resultCallCount != 0 {
		t.Error("lifetime counters must stay untouched on abort")
	}
	if users.xp != 0 {
		t.Errorf("user xp = %d, want 0 after abort", users.xp)
	}
	if store.Get(userID) != nil {
		t.Error("active state not cleared after abort")
	}
}

func TestQuizAbortFailureKeepsState(t *testing.T) {
	sessions := newFakeSessionRepo()
	sessions.abortErr = errors.New("db down")
	svc, store := newTestQuizService(&fakeQuestionStore{set: threeQuestionSet()}, sessions, &fakeUserRepo{})

	const userID = int64(9)
	ctx := context.Background()
	if _, err := svc.Start(ctx, userID, "ai", "pt1", "ref"); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := svc.Abort(ctx, userID); err == nil {
		t.Fatal("expected abort error")
	}
	if store.Get(userID) == nil {
		t.Error("active state must survive a failed abort so it can be retried")
	}
}

func TestQuizAttemptFailureKeepsPointer(t *testing.T) {
	sessions := newFakeSessionRepo()
	svc, store := newTestQuizService(&fakeQuestionStore{set: threeQuestionSet()}, sessions, &fakeUserRepo{})

	const userID = int64(3)
	ctx := context.Background()
	if _, err := svc.Start(ctx, userID, "ai", "pt1", "ref"); err != nil {
		t.Fatalf("start: %v", err)
	}

	sessions.attemptErr = errors.New("db down")
	quiz := store.Get(userID)
	if _, err := svc.Answer(ctx, userID, quiz.Questions[0].CorrectIndex); err == nil {
		t.Fatal("expected answer error")
	}

	if quiz.Current != 0 || quiz.Score != 0 {
		t.Fatalf("pointer advanced on failed persist: current=%d score=%d", quiz.Current, quiz.Score)
	}

	// The same question must be answerable again once persistence recovers.
	sessions.attemptErr = nil
	result := answerCurrent(t, svc, store, userID, true)
	if !result.IsCorrect {
		t.Error("retried answer not scored")
	}
	if store.Get(userID).Current != 1 {
		t.Error("pointer did not advance after successful retry")
	}
}

func TestQuizFinishFailureIsRetriable(t *testing.T) {
	users := &fakeUserRepo{addXPErr: errors.New("db down")}
	sessions := newFakeSessionRepo()
	svc, store := newTestQuizService(&fakeQuestionStore{set: threeQuestionSet()}, sessions, users)

	const userID = int64(21)
	ctx := context.Background()
	if _, err := svc.Start(ctx, userID, "ai", "pt1", "ref"); err != nil {
		t.Fatalf("start: %v", err)
	}

	answerCurrent(t, svc, store, userID, true)
	answerCurrent(t, svc, store, userID, true)

	quiz := store.Get(userID)
	last := quiz.Questions[quiz.Current]
	if _, err := svc.Answer(ctx, userID, last.CorrectIndex); !errors.Is(err, ErrResultNotSaved) {
		t.Fatalf("err = %v, want %v", err, ErrResultNotSaved)
	}
	if store.Get(userID) == nil {
		t.Fatal("state must survive a failed finish so it can be retried")
	}

	// Another answer event must retry the finish, not index past the end.
	if _, err := svc.Answer(ctx, userID, 0); !errors.Is(err, ErrResultNotSaved) {
		t.Fatalf("retry err = %v, want %v", err, ErrResultNotSaved)
	}

	users.addXPErr = nil
	result, err := svc.Answer(ctx, userID, 0)
	if err != nil {
		t.Fatalf("retry after recovery: %v", err)
	}
	if result.Summary == nil {
		t.Fatal("recovered retry returned no summary")
	}
	if !result.IsCorrect {
		t.Error("retry must report the last recorded answer's outcome")
	}
	if result.Summary.Score != 3 {
		t.Errorf("score = %d, want 3", result.Summary.Score)
	}
	if want := int64(3*10 + 50); result.Summary.XPEarned != want {
		t.Errorf("xp earned = %d, want %d", result.Summary.XPEarned, want)
	}

	if len(sessions.attempts) != 3 {
		t.Errorf("persisted attempts = %d, want 3 (no duplicates on retry)", len(sessions.attempts))
	}
	if users.resultCallCount != 1 {
		t.Errorf("lifetime counter calls = %d, want 1", users.resultCallCount)
	}
	if store.Get(userID) != nil {
		t.Error("active state not cleared after recovered finish")
	}
}

func TestQuizStartSavesCompleteSupersededRun(t *testing.T) {
	users := &fakeUserRepo{addXPErr: errors.New("db down")}
	sessions := newFakeSessionRepo()
	svc, store := newTestQuizService(&fakeQuestionStore{set: threeQuestionSet()}, sessions, users)

	const userID = int64(23)
	ctx := context.Background()
	if _, err := svc.Start(ctx, userID, "ai", "pt1", "ref"); err != nil {
		t.Fatalf("first start: %v", err)
	}

	answerCurrent(t, svc, store, userID, true)
	answerCurrent(t, svc, store, userID, false)
	quiz := store.Get(userID)
	last := quiz.Questions[quiz.Current]
	if _, err := svc.Answer(ctx, userID, last.CorrectIndex); !errors.Is(err, ErrResultNotSaved) {
		t.Fatalf("err = %v, want %v", err, ErrResultNotSaved)
	}

	users.addXPErr = nil
	if _, err := svc.Start(ctx, userID, "networks", "pt2", "ref"); err != nil {
		t.Fatalf("second start: %v", err)
	}

	// The fully answered run was saved, not aborted.
	if got := sessions.finalized[1]; got != 2 {
		t.Errorf("finalized score = %d, want 2", got)
	}
	if len(sessions.aborted) != 0 {
		t.Errorf("aborted sessions = %v, want none", sessions.aborted)
	}
	if users.resultCallCount != 1 {
		t.Errorf("lifetime counter calls = %d, want 1", users.resultCallCount)
	}
	if quiz := store.Get(userID); quiz == nil || quiz.SessionID != 2 {
		t.Fatalf("active quiz = %+v, want session 2", quiz)
	}
}

func TestQuizStartRejectsEmptySelection(t *testing.T) {
	sessions := newFakeSessionRepo()
	store := storage.NewActiveQuizStore()
	svc := NewQuizService(
		&fakeQuestionStore{set: threeQuestionSet()},
		sessions,
		NewUserService(&fakeUserRepo{}),
		store,
		zap.NewNop(),
		Config{UseAllQuestions: false, QuestionsPerQuiz: 0},
	)

	if _, err := svc.Start(context.Background(), 1, "ai", "pt1", "ref"); err == nil {
		t.Fatal("expected error for an empty question selection")
	}
	if len(sessions.created) != 0 {
		t.Error("no session may be opened for an empty selection")
	}
	if store.Get(1) != nil {
		t.Error("no active state may exist after a rejected start")
	}
}

func TestQuizAnswerWithoutActiveRun(t *testing.T) {
	svc, _ := newTestQuizService(&fakeQuestionStore{set: threeQuestionSet()}, newFakeSessionRepo(), &fakeUserRepo{})

	if _, err := svc.Answer(context.Background(), 99, 0); !errors.Is(err, ErrNoActiveQuiz) {
		t.Fatalf("err = %v, want %v", err, ErrNoActiveQuiz)
	}
	if _, err := svc.Abort(context.Background(), 99); !errors.Is(err, ErrNoActiveQuiz) {
		t.Fatalf("abort err = %v, want %v", err, ErrNoActiveQuiz)
	}
}

func TestQuizAnswerIndexOutOfRange(t *testing.T) {
	svc, _ := newTestQuizService(&fakeQuestionStore{set: threeQuestionSet()}, newFakeSessionRepo(), &fakeUserRepo{})

	const userID = int64(5)
	ctx := context.Background()
	if _, err := svc.Start(ctx, userID, "ai", "pt1", "ref"); err != nil {
		t.Fatalf("start: %v", err)
	}

	for _, idx := range []int{-1, 2} {
		if _, err := svc.Answer(ctx, userID, idx); err == nil {
			t.Errorf("index %d: expected error", idx)
		}
	}
	if svc.store.Get(userID).Current != 0 {
		t.Error("pointer advanced on rejected index")
	}
}

func TestQuizStartAbortsSupersededRun(t *testing.T) {
	sessions := newFakeSessionRepo()
	svc, store := newTestQuizService(&fakeQuestionStore{set: threeQuestionSet()}, sessions, &fakeUserRepo{})

	const userID = int64(11)
	ctx := context.Background()
	if _, err := svc.Start(ctx, userID, "ai", "pt1", "ref"); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := svc.Start(ctx, userID, "networks", "pt2", "ref"); err != nil {
		t.Fatalf("second start: %v", err)
	}

	if len(sessions.aborted) != 1 || sessions.aborted[0] != 1 {
		t.Errorf("aborted sessions = %v, want the superseded [1]", sessions.aborted)
	}

	quiz := store.Get(userID)
	if quiz == nil || quiz.SessionID != 2 {
		t.Fatalf("active quiz = %+v, want session 2", quiz)
	}
	if quiz.Subject != "networks" {
		t.Errorf("subject = %q, want %q", quiz.Subject, "networks")
	}
	if !svc.Active(userID) {
		t.Error("Active must report the new run")
	}
}

func TestQuizStartPropagatesLoadError(t *testing.T) {
	loadErr := errors.New("source unavailable")
	svc, store := newTestQuizService(&fakeQuestionStore{err: loadErr}, newFakeSessionRepo(), &fakeUserRepo{})

	if _, err := svc.Start(context.Background(), 1, "ai", "pt1", "ref"); !errors.Is(err, loadErr) {
		t.Fatalf("err = %v, want %v", err, loadErr)
	}
	if store.Get(1) != nil {
		t.Error("no active state may exist after a failed start")
	}
}

func TestUserServiceAddXPLevelChange(t *testing.T) {
	users := &fakeUserRepo{xp: 250}
	svc := NewUserService(users)

	change, err := svc.AddXP(context.Background(), 1, 80)
	if err != nil {
		t.Fatalf("add xp: %v", err)
	}

	// 250 XP is level 1, 330 crosses the level 2 threshold at 300.
	if change.OldLevel != 1 || change.NewLevel != 2 || !change.LeveledUp {
		t.Errorf("change = %+v, want level 1 -> 2", change)
	}
	if change.TotalXP != 330 || change.XPGained != 80 {
		t.Errorf("xp totals = %+v, want total 330 gained 80", change)
	}
}
