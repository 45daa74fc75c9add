package solver

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/tiggercwh/go-wordlebot/gameModel"
)

// resolved remembers the last history passed to Remaining and its result.
type resolved struct {
	history []gameModel.Guess
	set     CandidateSet
}

// Remaining returns the answers consistent with every guess in history.
// An empty history yields all words with a positive prior. A guess whose
// word is not in the vocabulary fails with ErrUnknownWord.
//
// When history strictly extends the previous call's history only the new
// guesses are applied to the previous result; any other history is
// resolved from scratch.
func (s *Solver) Remaining(history []gameModel.Guess) (CandidateSet, error) {
	rows := make([]int, len(history))
	for i, g := range history {
		idx, err := s.lookup(g.Word)
		if err != nil {
			return CandidateSet{}, err
		}
		rows[i] = idx
	}

	s.cacheMu.Lock()
	prev := s.cache
	s.cacheMu.Unlock()

	start, from := s.answers, 0
	if prev.set.bits != nil && isPrefix(prev.history, history) {
		start, from = prev.set, len(prev.history)
	}
	if from == len(history) {
		return start, nil
	}

	set := s.filter(start, history[from:], rows[from:])

	s.cacheMu.Lock()
	s.cache = resolved{history: append([]gameModel.Guess(nil), history...), set: set}
	s.cacheMu.Unlock()
	return set, nil
}

// filter keeps the members of start whose feedback matches every guess.
func (s *Solver) filter(start CandidateSet, guesses []gameModel.Guess, rows []int) CandidateSet {
	out := bitset.New(uint(len(s.words)))
	start.each(func(i int) {
		for k, g := range guesses {
			if s.matrix.At(rows[k], i) != g.Status {
				return
			}
		}
		out.Set(uint(i))
	})
	return CandidateSet{bits: out}
}

func isPrefix(prefix, history []gameModel.Guess) bool {
	if len(prefix) > len(history) {
		return false
	}
	for i := range prefix {
		if prefix[i] != history[i] {
			return false
		}
	}
	return true
}
