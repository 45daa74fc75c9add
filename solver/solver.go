// Package solver recommends guesses by ranking them on the expected
// information their feedback reveals about the secret word.
package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/tiggercwh/go-wordlebot/gameModel"
)

// DefaultPenalty is the candidate bias applied once the first guess has
// been played.
const DefaultPenalty = 0.1

var (
	ErrInvalidData       = errors.New("invalid vocabulary data")
	ErrUnknownWord       = errors.New("unknown word")
	ErrEmptyCandidateSet = errors.New("empty candidate set")
)

// Solver owns the vocabulary, the priors and the pattern matrix. All of
// them are read-only after New returns, so a Solver is safe for concurrent
// use.
type Solver struct {
	words   []gameModel.Word
	priors  []float64
	index   map[gameModel.Word]int
	matrix  *Matrix
	answers CandidateSet

	workers          int
	penalty          float64
	lookaheadPenalty float64
	log              zerolog.Logger

	cacheMu sync.Mutex
	cache   resolved
}

type Option func(*Solver)

// WithWorkers bounds the goroutines used to build the matrix and to rank.
// Zero or less means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithPenalty sets the candidate bias Solve uses after the first guess.
func WithPenalty(p float64) Option {
	return func(s *Solver) { s.penalty = p }
}

// WithLookaheadPenalty sets the penalty used to pick the best follow-up
// guess inside a two-level evaluation.
func WithLookaheadPenalty(p float64) Option {
	return func(s *Solver) { s.lookaheadPenalty = p }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Solver) { s.log = l }
}

// New validates the vocabulary and priors and builds the pattern matrix.
// Any validation failure wraps ErrInvalidData and no Solver is returned.
func New(ctx context.Context, words []gameModel.Word, priors []float64, opts ...Option) (*Solver, error) {
	s := &Solver{
		workers:          runtime.GOMAXPROCS(0),
		penalty:          DefaultPenalty,
		lookaheadPenalty: DefaultPenalty,
		log:              zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := validate(words, priors); err != nil {
		return nil, err
	}

	s.words = append([]gameModel.Word(nil), words...)
	s.priors = append([]float64(nil), priors...)
	s.index = make(map[gameModel.Word]int, len(words))
	for i, w := range s.words {
		s.index[w] = i
	}

	answers := bitset.New(uint(len(words)))
	for i, p := range s.priors {
		if p > 0 {
			answers.Set(uint(i))
		}
	}
	s.answers = CandidateSet{bits: answers}

	start := time.Now()
	m, err := BuildMatrix(ctx, s.words, s.workers)
	if err != nil {
		return nil, fmt.Errorf("build pattern matrix: %w", err)
	}
	s.matrix = m
	s.log.Info().
		Int("words", len(words)).
		Int("answers", s.answers.Len()).
		Int("workers", s.workers).
		Dur("took", time.Since(start)).
		Msg("pattern matrix built")

	return s, nil
}

func validate(words []gameModel.Word, priors []float64) error {
	if len(words) == 0 {
		return fmt.Errorf("%w: empty vocabulary", ErrInvalidData)
	}
	if len(words) != len(priors) {
		return fmt.Errorf("%w: %d words but %d priors", ErrInvalidData, len(words), len(priors))
	}
	for i, w := range words {
		if !w.IsComplete() {
			return fmt.Errorf("%w: word %d %q is incomplete", ErrInvalidData, i, w)
		}
		for _, c := range w {
			if c < 'a' || c > 'z' {
				return fmt.Errorf("%w: word %d %q is not lowercase ASCII", ErrInvalidData, i, w)
			}
		}
	}
	if dups := lo.FindDuplicates(words); len(dups) > 0 {
		return fmt.Errorf("%w: duplicate word %q", ErrInvalidData, dups[0])
	}
	positive := false
	for i, p := range priors {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return fmt.Errorf("%w: prior %v for %q", ErrInvalidData, p, words[i])
		}
		if p > 0 {
			positive = true
		}
	}
	if !positive {
		return fmt.Errorf("%w: no word has a positive prior", ErrInvalidData)
	}
	return nil
}

func (s *Solver) lookup(w gameModel.Word) (int, error) {
	i, ok := s.index[w]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWord, w)
	}
	return i, nil
}

// IsValidGuess reports whether w is a complete word of the vocabulary.
func (s *Solver) IsValidGuess(w gameModel.Word) bool {
	if !w.IsComplete() {
		return false
	}
	_, ok := s.index[w]
	return ok
}

func (s *Solver) Size() int { return len(s.words) }

func (s *Solver) Word(i int) gameModel.Word { return s.words[i] }

// Prior returns the prior of w, or 0 when w is not in the vocabulary.
func (s *Solver) Prior(w gameModel.Word) float64 {
	if i, ok := s.index[w]; ok {
		return s.priors[i]
	}
	return 0
}

// Answers is the set of words with a positive prior.
func (s *Solver) Answers() CandidateSet { return s.answers }

func (s *Solver) Matrix() *Matrix { return s.matrix }

// Words lists the members of c in vocabulary order.
func (s *Solver) Words(c CandidateSet) []gameModel.Word {
	return lo.Map(c.Indices(), func(i int, _ int) gameModel.Word { return s.words[i] })
}

// CandidateSetOf builds a candidate set from explicit words.
func (s *Solver) CandidateSetOf(words ...gameModel.Word) (CandidateSet, error) {
	bits := bitset.New(uint(len(s.words)))
	for _, w := range words {
		i, err := s.lookup(w)
		if err != nil {
			return CandidateSet{}, err
		}
		bits.Set(uint(i))
	}
	return CandidateSet{bits: bits}, nil
}
