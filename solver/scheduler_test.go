package solver

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiggercwh/go-wordlebot/gameModel"
)

func receive(t *testing.T, sc *Scheduler) Update {
	t.Helper()
	select {
	case u := <-sc.Results():
		return u
	case <-time.After(5 * time.Second):
		t.Fatal("no update delivered")
	}
	return Update{}
}

func assertQuiet(t *testing.T, sc *Scheduler) {
	t.Helper()
	select {
	case u := <-sc.Results():
		t.Fatalf("unexpected update for generation %d", u.Generation)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSchedulerDeliversLatestGeneration(t *testing.T) {
	s := newSolver(t, tenWords, nil)
	sc := NewScheduler(context.Background(), s, DefaultSuggestOptions())
	defer sc.Close()

	first := sc.Submit(nil)
	second := sc.Submit([]gameModel.Guess{guess(t, "tares", "12020")})
	require.Equal(t, first+1, second)
	assert.Equal(t, second, sc.Generation())

	u := receive(t, sc)
	assert.Equal(t, second, u.Generation)
	require.NoError(t, u.Err)
	require.Len(t, u.Guesses, 1)
	assert.NotEmpty(t, u.Suggestions)
	assert.Equal(t, 4, u.Suggestions[0].RemainingBefore)

	assertQuiet(t, sc)
}

func TestSchedulerReportsErrors(t *testing.T) {
	s := newSolver(t, tenWords, nil)
	sc := NewScheduler(context.Background(), s, DefaultSuggestOptions())
	defer sc.Close()

	gen := sc.Submit([]gameModel.Guess{guess(t, "tares", "22222"), guess(t, "water", "22222")})
	u := receive(t, sc)
	assert.Equal(t, gen, u.Generation)
	assert.ErrorIs(t, u.Err, ErrEmptyCandidateSet)
}

func TestSchedulerStopsWithRoot(t *testing.T) {
	s := newSolver(t, tenWords, nil)
	root, cancel := context.WithCancel(context.Background())
	sc := NewScheduler(root, s, DefaultSuggestOptions())
	cancel()

	sc.Submit(nil)
	assertQuiet(t, sc)
}

func TestSchedulerClose(t *testing.T) {
	s := newSolver(t, tenWords, nil)
	sc := NewScheduler(context.Background(), s, DefaultSuggestOptions())
	sc.Submit(nil)
	sc.Close()
	assertQuiet(t, sc)
}

func TestSolveFindsEverySecret(t *testing.T) {
	s := newSolver(t, tenWords, nil)
	for _, w := range tenWords {
		game, err := s.Solve(context.Background(), gameModel.MustWord(w), 6)
		require.NoError(t, err)
		assert.True(t, game.Solved, w)
		assert.Equal(t, gameModel.MustWord(w), game.Guesses[len(game.Guesses)-1].Word)
		assert.Equal(t, len(game.Guesses), game.Steps())
	}
}

func TestSolveUnknownSecret(t *testing.T) {
	s := newSolver(t, tenWords, nil)
	_, err := s.Solve(context.Background(), gameModel.MustWord("zzzzz"), 6)
	assert.ErrorIs(t, err, ErrUnknownWord)
}

func TestSolveOutOfRounds(t *testing.T) {
	s := newSolver(t, tenWords, nil)
	game, err := s.Solve(context.Background(), gameModel.MustWord("hated"), 0)
	require.NoError(t, err)
	assert.False(t, game.Solved)
	assert.Zero(t, game.Steps())
}

func TestBenchmark(t *testing.T) {
	s := newSolver(t, tenWords, nil, WithWorkers(2))
	var calls atomic.Int32
	res, err := Benchmark(context.Background(), s, s.Words(s.Answers()), 6, func() { calls.Add(1) })
	require.NoError(t, err)

	assert.Equal(t, len(tenWords), res.Games)
	assert.Empty(t, res.Failed)
	assert.EqualValues(t, len(tenWords), calls.Load())

	total := 0
	for _, n := range res.Steps {
		total += n
	}
	assert.Equal(t, len(tenWords), total)
	assert.GreaterOrEqual(t, res.Mean, 1.0)
}

func TestBenchmarkCancelled(t *testing.T) {
	s := newSolver(t, tenWords, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Benchmark(ctx, s, s.Words(s.Answers()), 6, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
