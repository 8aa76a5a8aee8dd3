package session

import (
	"math/rand"

	"github.com/prepquest/prepquest-backend/internal/model"
)

// Shuffle applies the configured randomization to a freshly loaded page of
// questions and returns a new slice; the input is never mutated. Question
// order and option order shuffle independently. The correct answer is matched
// by value, not position, so no label remapping is needed after an option
// shuffle.
//
// A new rng is seeded on every page load, so shuffles are deliberately not
// stable across reloads of the same page.
func Shuffle(questions []model.Question, shuffleQuestions, shuffleOptions bool, rng *rand.Rand) []model.Question {
	out := make([]model.Question, len(questions))
	copy(out, questions)

	if shuffleQuestions {
		rng.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}

	if shuffleOptions {
		for i := range out {
			if len(out[i].Options) == 0 {
				continue
			}
			opts := make([]string, len(out[i].Options))
			copy(opts, out[i].Options)
			rng.Shuffle(len(opts), func(a, b int) {
				opts[a], opts[b] = opts[b], opts[a]
			})
			out[i].Options = opts
		}
	}

	return out
}
