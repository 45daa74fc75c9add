package solver

import (
	"context"
	"slices"

	"github.com/tiggercwh/go-wordlebot/gameModel"
)

type SuggestOptions struct {
	// N is the number of suggestions.
	N int
	// Penalty is the candidate bias once at least one guess is played.
	Penalty float64
	// Lookahead adds two-level bits to the first LookaheadWidth suggestions.
	Lookahead      bool
	LookaheadWidth int
}

func DefaultSuggestOptions() SuggestOptions {
	return SuggestOptions{
		N:              15,
		Penalty:        DefaultPenalty,
		LookaheadWidth: 10,
	}
}

// Suggest resolves history, ranks the best guesses and evaluates each of
// them. With lookahead the evaluated prefix is reordered by two-level bits.
func (s *Solver) Suggest(ctx context.Context, history []gameModel.Guess, opts SuggestOptions) ([]gameModel.GuessEvaluation, error) {
	c, err := s.Remaining(history)
	if err != nil {
		return nil, err
	}
	penalty := opts.Penalty
	if len(history) == 0 {
		penalty = 0
	}
	ranked, err := s.RankScored(ctx, opts.N, c, penalty)
	if err != nil {
		return nil, err
	}

	width := 0
	if opts.Lookahead {
		width = min(max(opts.LookaheadWidth, 0), len(ranked))
	}

	evals := make([]gameModel.GuessEvaluation, len(ranked))
	for i, r := range ranked {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		evals[i], err = s.evaluate(ctx, r.Index, c, nil, i < width)
		if err != nil {
			return nil, err
		}
	}

	if width > 1 {
		slices.SortStableFunc(evals[:width], func(a, b gameModel.GuessEvaluation) int {
			switch {
			case *a.TwoLevelBits > *b.TwoLevelBits:
				return -1
			case *a.TwoLevelBits < *b.TwoLevelBits:
				return 1
			}
			return a.Word.Compare(b.Word)
		})
	}
	return evals, nil
}
