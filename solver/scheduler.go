package solver

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tiggercwh/go-wordlebot/gameModel"
)

// Update is the outcome of one recompute generation.
type Update struct {
	Generation  uint64
	Guesses     []gameModel.Guess
	Suggestions []gameModel.GuessEvaluation
	Err         error
}

// Scheduler keeps at most one suggestion computation in flight. Each
// Submit cancels the previous generation; a cancelled generation never
// delivers an Update, even if it finishes.
type Scheduler struct {
	solver *Solver
	root   context.Context
	opts   SuggestOptions
	log    zerolog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	gen     uint64
	results chan Update
}

// NewScheduler ties every computation to root; cancelling root stops the
// scheduler for good.
func NewScheduler(root context.Context, s *Solver, opts SuggestOptions) *Scheduler {
	return &Scheduler{
		solver:  s,
		root:    root,
		opts:    opts,
		log:     s.log,
		results: make(chan Update, 1),
	}
}

// Results delivers the latest completed generation. Stale updates that were
// never received are dropped when a newer generation is submitted.
func (sc *Scheduler) Results() <-chan Update {
	return sc.results
}

func (sc *Scheduler) Generation() uint64 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.gen
}

// Submit starts a new generation for history and returns its number.
func (sc *Scheduler) Submit(history []gameModel.Guess) uint64 {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.cancel != nil {
		sc.cancel()
	}
	sc.drain()

	ctx, cancel := context.WithCancel(sc.root)
	sc.cancel = cancel
	sc.gen++
	gen := sc.gen

	guesses := append([]gameModel.Guess(nil), history...)
	go sc.run(ctx, gen, guesses)
	return gen
}

func (sc *Scheduler) run(ctx context.Context, gen uint64, guesses []gameModel.Guess) {
	suggestions, err := sc.solver.Suggest(ctx, guesses, sc.opts)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		sc.log.Debug().Uint64("generation", gen).Msg("recompute cancelled")
		return
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if ctx.Err() != nil || gen != sc.gen {
		sc.log.Debug().Uint64("generation", gen).Msg("stale recompute dropped")
		return
	}
	sc.drain()
	sc.results <- Update{
		Generation:  gen,
		Guesses:     guesses,
		Suggestions: suggestions,
		Err:         err,
	}
}

// drain discards an undelivered update. Callers hold mu.
func (sc *Scheduler) drain() {
	select {
	case <-sc.results:
	default:
	}
}

// Close cancels the in-flight generation, if any.
func (sc *Scheduler) Close() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.cancel != nil {
		sc.cancel()
		sc.cancel = nil
	}
	sc.drain()
}
