package questions

import (
	"math/rand"

	"github.com/aboalhasanx/masters-quiz-bot/internal/domain/entities"
)

// ShuffleOptions returns a copy of the question with its options in random
// order and the correct index remapped to keep pointing at the option text
// that was correct before the shuffle.
func ShuffleOptions(q entities.Question) entities.Question {
	correctText := q.Options[q.CorrectIndex]

	shuffled := q
	shuffled.Options = make([]string, len(q.Options))
	copy(shuffled.Options, q.Options)

	rand.Shuffle(len(shuffled.Options), func(i, j int) {
		shuffled.Options[i], shuffled.Options[j] = shuffled.Options[j], shuffled.Options[i]
	})

	for i, opt := range shuffled.Options {
		if opt == correctText {
			shuffled.CorrectIndex = i
			break
		}
	}

	return shuffled
}

// ShuffleAll returns the questions in random order, each with its options
// independently shuffled.
func ShuffleAll(qs []entities.Question) []entities.Question {
	shuffled := make([]entities.Question, len(qs))
	for i, idx := range rand.Perm(len(qs)) {
		shuffled[i] = ShuffleOptions(qs[idx])
	}
	return shuffled
}

// Sample returns up to n random questions without replacement, each with
// its options shuffled. When the set holds fewer than n questions the whole
// set is used.
func Sample(qs []entities.Question, n int) []entities.Question {
	if n >= len(qs) {
		return ShuffleAll(qs)
	}

	sampled := make([]entities.Question, 0, n)
	for _, idx := range rand.Perm(len(qs))[:n] {
		sampled = append(sampled, ShuffleOptions(qs[idx]))
	}
	return sampled
}
