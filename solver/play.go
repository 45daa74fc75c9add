package solver

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tiggercwh/go-wordlebot/gameModel"
)

// Game is one self-played game against a known secret.
type Game struct {
	Secret  gameModel.Word
	Guesses []gameModel.Guess
	Solved  bool
}

// Steps is the number of guesses a solved game took, or 0 if unsolved.
func (g Game) Steps() int {
	if !g.Solved {
		return 0
	}
	return len(g.Guesses)
}

// Solve plays the top-ranked guess each round until secret is found or
// maxRounds guesses have been made.
func (s *Solver) Solve(ctx context.Context, secret gameModel.Word, maxRounds int) (Game, error) {
	game := Game{Secret: secret}
	if !s.IsValidGuess(secret) {
		_, err := s.lookup(secret)
		return game, err
	}

	c := s.answers
	for round := 0; round < maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return game, err
		}
		if c.Len() == 0 {
			// secret is not a playable answer and every answer was ruled out
			return game, nil
		}
		penalty := s.penalty
		if round == 0 {
			penalty = 0
		}
		best, err := s.RankScored(ctx, 1, c, penalty)
		if err != nil {
			return game, err
		}
		guess := gameModel.Guess{
			Word:   best[0].Word,
			Status: gameModel.Feedback(secret, best[0].Word),
		}
		game.Guesses = append(game.Guesses, guess)
		if guess.Solved() {
			game.Solved = true
			return game, nil
		}
		c = s.filter(c, []gameModel.Guess{guess}, []int{best[0].Index})
	}
	return game, nil
}

type BenchmarkResult struct {
	Games int
	// Steps maps a step count to the number of games solved in that many guesses.
	Steps  map[int]int
	Failed []gameModel.Word
	Mean   float64
}

// Benchmark self-plays every secret concurrently. progress, when not nil,
// is called once per finished game.
func Benchmark(ctx context.Context, s *Solver, secrets []gameModel.Word, maxRounds int, progress func()) (BenchmarkResult, error) {
	res := BenchmarkResult{Games: len(secrets), Steps: make(map[int]int)}
	var mu sync.Mutex
	var total int

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, secret := range secrets {
		secret := secret
		g.Go(func() error {
			game, err := s.Solve(ctx, secret, maxRounds)
			if err != nil {
				return err
			}
			mu.Lock()
			if game.Solved {
				res.Steps[game.Steps()]++
				total += game.Steps()
			} else {
				res.Failed = append(res.Failed, secret)
			}
			mu.Unlock()
			if progress != nil {
				progress()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BenchmarkResult{}, err
	}

	slices.SortFunc(res.Failed, gameModel.Word.Compare)
	if solved := res.Games - len(res.Failed); solved > 0 {
		res.Mean = float64(total) / float64(solved)
	}
	return res, nil
}
