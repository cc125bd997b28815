// Package questions loads, validates and caches multiple-choice question
// sets from a local or remote question bank.
package questions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/aboalhasanx/masters-quiz-bot/internal/domain/entities"
)

// Structural bounds for a question record.
const (
	maxQuestionLen = 300
	maxOptionLen   = 100
	minOptions     = 2
	maxOptions     = 10
)

// partPattern extracts the part number embedded in a bank filename,
// e.g. "ai_pt3.json".
var partPattern = regexp.MustCompile(`_pt(\d+)\.json$`)

type cacheEntry struct {
	set       *entities.QuestionSet
	fetchedAt time.Time
}

// Service is the question store: it fetches sets through a Source, decodes
// both supported payload shapes, validates records and keeps a time-bounded
// in-process cache keyed by source reference.
type Service struct {
	source Source
	logger *zap.Logger
	ttl    time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewService creates a question store. A non-positive ttl disables caching.
func NewService(source Source, logger *zap.Logger, ttl time.Duration) *Service {
	return &Service{
		source: source,
		logger: logger,
		ttl:    ttl,
		cache:  make(map[string]cacheEntry),
	}
}

// LoadSet fetches and decodes the question set behind a source reference.
// Records failing structural validation are rejected and logged; a payload
// with no valid questions fails with ErrInvalidFormat.
func (s *Service) LoadSet(ctx context.Context, ref string) (*entities.QuestionSet, error) {
	if set := s.fromCache(ref); set != nil {
		return set, nil
	}

	data, err := s.source.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	set, err := decodeSet(data)
	if err != nil {
		return nil, err
	}

	valid := set.Questions[:0]
	for _, q := range set.Questions {
		if err := Validate(q); err != nil {
			s.logger.Warn("rejected question record",
				zap.String("ref", ref),
				zap.Error(err),
			)
			continue
		}
		valid = append(valid, q)
	}
	set.Questions = valid

	if len(set.Questions) == 0 {
		return nil, fmt.Errorf("%w: no valid questions in %s", ErrInvalidFormat, ref)
	}

	s.store(ref, set)

	return set, nil
}

// ListParts enumerates the bank folder for resources matching the part
// naming convention, enriches each with its metadata title (best-effort,
// falling back to "Part N") and returns them sorted by part number.
// Listing failures degrade to an empty result rather than propagating.
func (s *Service) ListParts(ctx context.Context, folder string) []entities.Part {
	names, err := s.source.List(ctx, folder)
	if err != nil {
		s.logger.Warn("list question bank folder failed",
			zap.String("folder", folder),
			zap.Error(err),
		)
		return nil
	}

	var parts []entities.Part
	for _, name := range names {
		m := partPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])

		part := entities.Part{
			Num:       num,
			Key:       "pt" + m[1],
			Title:     "Part " + m[1],
			SourceRef: folder + "/" + name,
		}

		// Best-effort title enrichment; the fallback label stays on failure.
		if set, err := s.LoadSet(ctx, part.SourceRef); err != nil {
			s.logger.Warn("part metadata unavailable",
				zap.String("ref", part.SourceRef),
				zap.Error(err),
			)
		} else if set.Meta.Title != "" {
			part.Title = set.Meta.Title
		}

		parts = append(parts, part)
	}

	sort.Slice(parts, func(i, j int) bool { return parts[i].Num < parts[j].Num })

	return parts
}

// ClearCache wipes the whole cache.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]cacheEntry)
}

func (s *Service) fromCache(ref string) *entities.QuestionSet {
	if s.ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[ref]
	if !ok || time.Since(entry.fetchedAt) >= s.ttl {
		return nil
	}

	return entry.set
}

func (s *Service) store(ref string, set *entities.QuestionSet) {
	if s.ttl <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[ref] = cacheEntry{set: set, fetchedAt: time.Now()}
}

// decodeSet accepts both payload shapes: an object carrying metadata and
// questions, or a bare question array which gets synthetic metadata.
func decodeSet(data []byte) (*entities.QuestionSet, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidFormat)
	}

	switch trimmed[0] {
	case '{':
		var set entities.QuestionSet
		if err := json.Unmarshal(trimmed, &set); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		if set.Questions == nil {
			return nil, fmt.Errorf("%w: object payload missing questions field", ErrInvalidFormat)
		}
		if set.Meta.Title == "" {
			set.Meta.Title = "Unknown"
		}
		return &set, nil

	case '[':
		var qs []entities.Question
		if err := json.Unmarshal(trimmed, &qs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return &entities.QuestionSet{
			Meta:      entities.SetMeta{Title: "Unknown"},
			Questions: qs,
		}, nil

	default:
		return nil, fmt.Errorf("%w: payload must be an array or an object with questions", ErrInvalidFormat)
	}
}

// Validate checks the structural bounds of a question record.
func Validate(q entities.Question) error {
	if q.Text == "" {
		return &ValidationError{Reason: "missing question text"}
	}
	if utf8.RuneCountInString(q.Text) > maxQuestionLen {
		return &ValidationError{Reason: fmt.Sprintf("question text over %d characters", maxQuestionLen)}
	}
	if len(q.Options) < minOptions || len(q.Options) > maxOptions {
		return &ValidationError{Reason: fmt.Sprintf("question must have %d-%d options", minOptions, maxOptions)}
	}
	for i, opt := range q.Options {
		if opt == "" {
			return &ValidationError{Reason: fmt.Sprintf("option %d is empty", i+1)}
		}
		if utf8.RuneCountInString(opt) > maxOptionLen {
			return &ValidationError{Reason: fmt.Sprintf("option %d over %d characters", i+1, maxOptionLen)}
		}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return &ValidationError{Reason: "correct option index out of range"}
	}
	return nil
}
