package solver

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiggercwh/go-wordlebot/gameModel"
)

func words(ss ...string) []gameModel.Word {
	out := make([]gameModel.Word, len(ss))
	for i, s := range ss {
		out[i] = gameModel.MustWord(s)
	}
	return out
}

func strs(ws []gameModel.Word) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.String()
	}
	return out
}

func newSolver(t *testing.T, vocab []string, priors []float64, opts ...Option) *Solver {
	t.Helper()
	if priors == nil {
		priors = make([]float64, len(vocab))
		for i := range priors {
			priors[i] = 1
		}
	}
	s, err := New(context.Background(), words(vocab...), priors, opts...)
	require.NoError(t, err)
	return s
}

// threeWords is {slate, plate, water} as answers plus penny as a guess-only word.
func threeWords(t *testing.T) *Solver {
	return newSolver(t, []string{"slate", "plate", "water", "penny"}, []float64{1, 1, 1, 0})
}

var tenWords = []string{"tares", "gated", "dated", "later", "water", "taken", "eaten", "hated", "slate", "plate"}

func guess(t *testing.T, word, pattern string) gameModel.Guess {
	t.Helper()
	p, err := gameModel.ParsePattern(pattern)
	require.NoError(t, err)
	return gameModel.NewGuess(gameModel.MustWord(word), p)
}

func candidates(t *testing.T, s *Solver, ss ...string) CandidateSet {
	t.Helper()
	c, err := s.CandidateSetOf(words(ss...)...)
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadData(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name   string
		words  []gameModel.Word
		priors []float64
	}{
		{"empty", nil, nil},
		{"length mismatch", words("slate", "plate"), []float64{1}},
		{"duplicate", words("slate", "slate"), []float64{1, 1}},
		{"negative prior", words("slate", "plate"), []float64{1, -1}},
		{"nan prior", words("slate", "plate"), []float64{1, math.NaN()}},
		{"inf prior", words("slate", "plate"), []float64{1, math.Inf(1)}},
		{"no answers", words("slate", "plate"), []float64{0, 0}},
		{"incomplete word", []gameModel.Word{{'s', 'l', 'a'}}, []float64{1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(ctx, tc.words, tc.priors)
			assert.ErrorIs(t, err, ErrInvalidData)
			assert.Nil(t, s)
		})
	}
}

func TestMatrixDiagonalAndCells(t *testing.T) {
	s := newSolver(t, tenWords, nil, WithWorkers(3))
	m := s.Matrix()
	require.Equal(t, len(tenWords), m.Size())
	for g := 0; g < m.Size(); g++ {
		assert.Equal(t, gameModel.AllCorrect, m.At(g, g), tenWords[g])
		for sec := 0; sec < m.Size(); sec++ {
			assert.Equal(t, gameModel.Feedback(s.Word(sec), s.Word(g)), m.At(g, sec))
		}
	}
}

func TestMatrixSingleWord(t *testing.T) {
	m, err := BuildMatrix(context.Background(), words("slate"), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Size())
	assert.Equal(t, gameModel.AllCorrect, m.At(0, 0))
}

func TestMatrixBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BuildMatrix(ctx, words(tenWords...), 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRemainingEmptyHistoryIsAnswers(t *testing.T) {
	s := threeWords(t)
	c, err := s.Remaining(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"slate", "plate", "water"}, strs(s.Words(c)))
}

func TestRemainingTaresRegression(t *testing.T) {
	s := newSolver(t, tenWords, nil)
	c, err := s.Remaining([]gameModel.Guess{guess(t, "tares", "12020")})
	require.NoError(t, err)
	want := []string{"gated", "dated", "eaten", "hated"}
	if diff := cmp.Diff(want, strs(s.Words(c))); diff != "" {
		t.Errorf("remaining mismatch (-want +got):\n%s", diff)
	}
}

func TestRemainingUnknownWord(t *testing.T) {
	s := threeWords(t)
	_, err := s.Remaining([]gameModel.Guess{guess(t, "zzzzz", "00000")})
	assert.ErrorIs(t, err, ErrUnknownWord)
}

func TestRemainingIsMonotonic(t *testing.T) {
	s := newSolver(t, tenWords, nil)
	for _, secret := range tenWords {
		var history []gameModel.Guess
		prev, err := s.Remaining(history)
		require.NoError(t, err)
		for _, w := range []string{"slate", "water", "taken", "dated"} {
			g := gameModel.Guess{
				Word:   gameModel.MustWord(w),
				Status: gameModel.Feedback(gameModel.MustWord(secret), gameModel.MustWord(w)),
			}
			history = append(history, g)
			next, err := s.Remaining(history)
			require.NoError(t, err)
			assert.True(t, next.IsSubsetOf(prev), "secret %s after %s", secret, w)
			assert.True(t, next.Contains(s.index[gameModel.MustWord(secret)]))
			prev = next
		}
	}
}

func TestRemainingIgnoresStaleCache(t *testing.T) {
	s := newSolver(t, tenWords, nil)
	fresh := newSolver(t, tenWords, nil)

	a := []gameModel.Guess{guess(t, "tares", "12020")}
	b := []gameModel.Guess{guess(t, "slate", "00111")}

	_, err := s.Remaining(a)
	require.NoError(t, err)
	got, err := s.Remaining(b)
	require.NoError(t, err)
	want, err := fresh.Remaining(b)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	again, err := s.Remaining(b)
	require.NoError(t, err)
	assert.True(t, got.Equal(again))
}

func TestDistributionConservesMass(t *testing.T) {
	priors := []float64{0.5, 1, 2, 0, 0.25, 3, 1, 0.75, 0, 1.5}
	s := newSolver(t, tenWords, priors)
	c := s.Answers()
	_, _, total := s.weights(c)
	for g := range tenWords {
		d := s.distribution(g, c)
		var sum float64
		count := 0
		for k := range d.mass {
			sum += d.mass[k]
			count += d.count[k]
		}
		assert.InDelta(t, total, sum, 1e-9)
		assert.Equal(t, c.Len(), count)
	}
}

func TestEntropy(t *testing.T) {
	s := threeWords(t)
	c := candidates(t, s, "slate", "plate", "water")

	h, err := s.Entropy(gameModel.MustWord("slate"), c)
	require.NoError(t, err)
	assert.InDelta(t, math.Log2(3), h, 1e-12)

	penny, err := s.Entropy(gameModel.MustWord("penny"), c)
	require.NoError(t, err)
	assert.Less(t, penny, h)
	assert.InDelta(t, -(2.0/3*math.Log2(2.0/3) + 1.0/3*math.Log2(1.0/3)), penny, 1e-12)

	// water gives the same feedback for slate and plate
	flat, err := s.Entropy(gameModel.MustWord("water"), candidates(t, s, "slate", "plate"))
	require.NoError(t, err)
	assert.Zero(t, flat)

	single, err := s.Entropy(gameModel.MustWord("penny"), candidates(t, s, "water"))
	require.NoError(t, err)
	assert.Zero(t, single)

	_, err = s.Entropy(gameModel.MustWord("penny"), CandidateSet{})
	assert.ErrorIs(t, err, ErrEmptyCandidateSet)
}

func TestEntropyNonNegative(t *testing.T) {
	s := newSolver(t, tenWords, nil)
	c, err := s.Remaining([]gameModel.Guess{guess(t, "tares", "12020")})
	require.NoError(t, err)
	for _, w := range tenWords {
		h, err := s.Entropy(gameModel.MustWord(w), c)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, h, 0.0, w)
	}
}

func TestRankTieBreakIsLexical(t *testing.T) {
	s := threeWords(t)
	c := candidates(t, s, "slate", "plate", "water")

	got, err := s.Rank(context.Background(), 4, c, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"plate", "slate", "penny", "water"}, strs(got))
}

func TestRankPenaltyFavoursLikelyAnswers(t *testing.T) {
	s := newSolver(t, []string{"slate", "plate", "water"}, []float64{2, 1, 1})
	c := s.Answers()
	ctx := context.Background()

	got, err := s.RankScored(ctx, 2, c, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, got[0].Entropy, 1e-12)
	assert.InDelta(t, 1.5, got[1].Entropy, 1e-12)

	got, err = s.RankScored(ctx, 2, c, 1)
	require.NoError(t, err)
	assert.Equal(t, "slate", got[0].Word.String())
	assert.InDelta(t, 1.5+2.0/20, got[0].Score, 1e-12)
	assert.InDelta(t, 1.5+1.0/20, got[1].Score, 1e-12)
}

func TestRankNonCandidateGetsNoBonus(t *testing.T) {
	s := threeWords(t)
	c := candidates(t, s, "slate", "water")

	got, err := s.RankScored(context.Background(), 4, c, 5)
	require.NoError(t, err)
	for _, r := range got {
		if !c.Contains(r.Index) {
			assert.Equal(t, r.Entropy, r.Score, r.Word.String())
		}
	}
}

func TestRankSingleCandidate(t *testing.T) {
	s := newSolver(t, tenWords, nil)
	c := candidates(t, s, "hated")
	for _, n := range []int{1, 3, 50} {
		got, err := s.RankScored(context.Background(), n, c, 0.1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "hated", got[0].Word.String())
		assert.Zero(t, got[0].Entropy)
	}
}

func TestRankEdgeCases(t *testing.T) {
	s := threeWords(t)
	ctx := context.Background()

	_, err := s.Rank(ctx, 3, CandidateSet{}, 0)
	assert.ErrorIs(t, err, ErrEmptyCandidateSet)

	got, err := s.Rank(ctx, 0, s.Answers(), 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.Rank(ctx, 100, s.Answers(), 0)
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestRankTopOneMatchesSortedHead(t *testing.T) {
	s := newSolver(t, tenWords, []float64{1, 2, 1, 3, 1, 1, 2, 1, 1, 0.5})
	ctx := context.Background()
	all, err := s.RankScored(ctx, len(tenWords), s.Answers(), 0.1)
	require.NoError(t, err)
	one, err := s.RankScored(ctx, 1, s.Answers(), 0.1)
	require.NoError(t, err)
	assert.Equal(t, all[0], one[0])
}

func TestEvaluate(t *testing.T) {
	s := threeWords(t)
	ctx := context.Background()
	c := candidates(t, s, "slate", "plate", "water")

	observed := gameModel.Feedback(gameModel.MustWord("water"), gameModel.MustWord("slate"))
	e, err := s.Evaluate(ctx, gameModel.MustWord("slate"), c, &observed, true)
	require.NoError(t, err)
	assert.InDelta(t, math.Log2(3), e.ExpectedBits, 1e-12)
	assert.Equal(t, 3, e.Groups)
	assert.Equal(t, 1, e.MaxGroupSize)
	assert.Equal(t, 3, e.RemainingBefore)
	require.NotNil(t, e.RemainingAfter)
	assert.Equal(t, 1, *e.RemainingAfter)
	require.NotNil(t, e.RealBits)
	assert.InDelta(t, math.Log2(3), *e.RealBits, 1e-12)
	assert.True(t, e.IsCandidate)
	assert.Equal(t, 1.0, e.Prior)
	require.NotNil(t, e.TwoLevelBits)
	assert.InDelta(t, e.ExpectedBits, *e.TwoLevelBits, 1e-12)
}

func TestEvaluateNonCandidateWithLookahead(t *testing.T) {
	s := threeWords(t)
	c := candidates(t, s, "slate", "plate", "water")

	observed := gameModel.Feedback(gameModel.MustWord("slate"), gameModel.MustWord("penny"))
	e, err := s.Evaluate(context.Background(), gameModel.MustWord("penny"), c, &observed, true)
	require.NoError(t, err)
	assert.Equal(t, 2, e.Groups)
	assert.Equal(t, 2, e.MaxGroupSize)
	assert.False(t, e.IsCandidate)
	assert.Zero(t, e.Prior)
	assert.Equal(t, 2, *e.RemainingAfter)
	assert.InDelta(t, math.Log2(1.5), *e.RealBits, 1e-12)
	// {slate, water} can be split in one more guess: 2/3 of the time one extra bit.
	assert.InDelta(t, math.Log2(3), *e.TwoLevelBits, 1e-12)
	assert.Greater(t, *e.TwoLevelBits, e.ExpectedBits)
}

func TestEvaluateImpossibleObservation(t *testing.T) {
	s := threeWords(t)
	c := candidates(t, s, "slate", "plate", "water")
	observed := gameModel.AllAbsent
	e, err := s.Evaluate(context.Background(), gameModel.MustWord("slate"), c, &observed, false)
	require.NoError(t, err)
	assert.Equal(t, 0, *e.RemainingAfter)
	assert.Nil(t, e.RealBits)
	assert.Nil(t, e.TwoLevelBits)
}

func TestEvaluateErrors(t *testing.T) {
	s := threeWords(t)
	ctx := context.Background()

	_, err := s.Evaluate(ctx, gameModel.MustWord("zzzzz"), s.Answers(), nil, false)
	assert.ErrorIs(t, err, ErrUnknownWord)

	_, err = s.Evaluate(ctx, gameModel.MustWord("slate"), CandidateSet{}, nil, false)
	assert.ErrorIs(t, err, ErrEmptyCandidateSet)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.Evaluate(cancelled, gameModel.MustWord("penny"), s.Answers(), nil, true)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluateHistory(t *testing.T) {
	s := newSolver(t, tenWords, nil)
	history := []gameModel.Guess{
		guess(t, "tares", "12020"),
		{Word: gameModel.MustWord("dated"), Status: gameModel.Feedback(gameModel.MustWord("gated"), gameModel.MustWord("dated"))},
	}
	evals, err := s.EvaluateHistory(context.Background(), history)
	require.NoError(t, err)
	require.Len(t, evals, 2)
	assert.Equal(t, 10, evals[0].RemainingBefore)
	assert.Equal(t, 4, *evals[0].RemainingAfter)
	assert.Equal(t, 4, evals[1].RemainingBefore)
	assert.Equal(t, 2, *evals[1].RemainingAfter) // gated, hated
}

func TestIsValidGuess(t *testing.T) {
	s := threeWords(t)
	assert.True(t, s.IsValidGuess(gameModel.MustWord("penny")))
	assert.False(t, s.IsValidGuess(gameModel.MustWord("zzzzz")))
	var partial gameModel.Word
	partial.SetLetter(0, 's')
	assert.False(t, s.IsValidGuess(partial))
}

func TestSuggest(t *testing.T) {
	s := newSolver(t, tenWords, nil)
	ctx := context.Background()

	opts := DefaultSuggestOptions()
	opts.N = 5
	evals, err := s.Suggest(ctx, nil, opts)
	require.NoError(t, err)
	require.Len(t, evals, 5)
	for i := 1; i < len(evals); i++ {
		assert.GreaterOrEqual(t, evals[i-1].ExpectedBits, evals[i].ExpectedBits)
		assert.Nil(t, evals[i].TwoLevelBits)
	}

	opts.Lookahead = true
	opts.LookaheadWidth = 3
	evals, err = s.Suggest(ctx, nil, opts)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NotNil(t, evals[i].TwoLevelBits)
		if i > 0 {
			assert.GreaterOrEqual(t, *evals[i-1].TwoLevelBits, *evals[i].TwoLevelBits)
		}
	}
	assert.Nil(t, evals[3].TwoLevelBits)
}

func TestSuggestContradictoryHistory(t *testing.T) {
	s := newSolver(t, tenWords, nil)
	history := []gameModel.Guess{guess(t, "tares", "22222"), guess(t, "water", "22222")}
	_, err := s.Suggest(context.Background(), history, DefaultSuggestOptions())
	assert.ErrorIs(t, err, ErrEmptyCandidateSet)
}
