package solver

import (
	"context"
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/tiggercwh/go-wordlebot/gameModel"
)

// Evaluate describes how well w splits c. When observed is set the
// evaluation also reports how many candidates survive that feedback and the
// bits it actually delivered. withLookahead adds the two-level score,
// which runs one ranking per feedback bucket and is expensive.
func (s *Solver) Evaluate(ctx context.Context, w gameModel.Word, c CandidateSet, observed *gameModel.StatusCode, withLookahead bool) (gameModel.GuessEvaluation, error) {
	g, err := s.lookup(w)
	if err != nil {
		return gameModel.GuessEvaluation{}, err
	}
	return s.evaluate(ctx, g, c, observed, withLookahead)
}

func (s *Solver) evaluate(ctx context.Context, g int, c CandidateSet, observed *gameModel.StatusCode, withLookahead bool) (gameModel.GuessEvaluation, error) {
	if c.Len() == 0 {
		return gameModel.GuessEvaluation{}, ErrEmptyCandidateSet
	}
	d := s.distribution(g, c)
	eval := gameModel.GuessEvaluation{
		Word:            s.words[g],
		ExpectedBits:    d.entropy(),
		Groups:          d.groups(),
		MaxGroupSize:    d.maxGroup(),
		RemainingBefore: d.size,
		IsCandidate:     c.Contains(g),
		Prior:           s.priors[g],
	}

	if observed != nil {
		after := 0
		if *observed < gameModel.NumStatusCodes {
			after = d.count[*observed]
		}
		eval.RemainingAfter = &after
		if after > 0 {
			bits := math.Log2(float64(d.size) / float64(after))
			eval.RealBits = &bits
		}
	}

	if withLookahead {
		two, err := s.lookahead(ctx, g, c, d)
		if err != nil {
			return gameModel.GuessEvaluation{}, err
		}
		eval.TwoLevelBits = &two
	}
	return eval, nil
}

// partition splits c by the feedback guess g produces.
func (s *Solver) partition(g int, c CandidateSet) [gameModel.NumStatusCodes]*bitset.BitSet {
	var buckets [gameModel.NumStatusCodes]*bitset.BitSet
	row := s.matrix.Row(g)
	c.each(func(i int) {
		code := row[i]
		if buckets[code] == nil {
			buckets[code] = bitset.New(uint(len(s.words)))
		}
		buckets[code].Set(uint(i))
	})
	return buckets
}

// lookahead returns H1(g) plus the probability-weighted entropy of the best
// follow-up guess in every feedback bucket of g.
func (s *Solver) lookahead(ctx context.Context, g int, c CandidateSet, d *distribution) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var expected float64
	for code, bucket := range s.partition(g, c) {
		if bucket == nil {
			continue
		}
		next := CandidateSet{bits: bucket}
		if next.Len() == 1 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		best, err := s.RankScored(ctx, 1, next, s.lookaheadPenalty)
		if err != nil {
			return 0, err
		}
		expected += d.mass[code] / d.total * best[0].Entropy
	}
	return d.entropy() + expected, nil
}

// EvaluateHistory evaluates each played guess against the candidates that
// were left before it, using the feedback it received.
func (s *Solver) EvaluateHistory(ctx context.Context, history []gameModel.Guess) ([]gameModel.GuessEvaluation, error) {
	evals := make([]gameModel.GuessEvaluation, 0, len(history))
	for i, guess := range history {
		c, err := s.Remaining(history[:i])
		if err != nil {
			return nil, err
		}
		status := guess.Status
		e, err := s.Evaluate(ctx, guess.Word, c, &status, false)
		if err != nil {
			return nil, err
		}
		evals = append(evals, e)
	}
	return evals, nil
}
