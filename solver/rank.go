package solver

import (
	"context"
	"math"
	"slices"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/tiggercwh/go-wordlebot/gameModel"
)

// priorBonusScale divides a candidate's prior before the penalty is applied.
const priorBonusScale = 20

// Ranked is a guess with its entropy and composite score.
type Ranked struct {
	Word    gameModel.Word
	Index   int
	Entropy float64
	Score   float64
}

// distribution is the prior-weighted histogram of feedback codes that one
// guess produces over a candidate set.
type distribution struct {
	mass  [gameModel.NumStatusCodes]float64
	count [gameModel.NumStatusCodes]int
	total float64
	size  int
}

// weights returns the members of c and the weight each one carries. Sets
// whose members all have prior 0 are weighted uniformly.
func (s *Solver) weights(c CandidateSet) ([]int, []float64, float64) {
	members := c.Indices()
	w := make([]float64, len(members))
	var total float64
	for k, i := range members {
		w[k] = s.priors[i]
		total += w[k]
	}
	if total == 0 {
		for k := range w {
			w[k] = 1
		}
		total = float64(len(w))
	}
	return members, w, total
}

func (s *Solver) distribution(g int, c CandidateSet) *distribution {
	members, w, total := s.weights(c)
	row := s.matrix.Row(g)
	d := &distribution{total: total, size: len(members)}
	for k, i := range members {
		code := row[i]
		d.mass[code] += w[k]
		d.count[code]++
	}
	return d
}

func (d *distribution) entropy() float64 {
	return entropy(&d.mass, d.total)
}

// groups is the number of non-empty buckets.
func (d *distribution) groups() int {
	n := 0
	for _, c := range d.count {
		if c > 0 {
			n++
		}
	}
	return n
}

func (d *distribution) maxGroup() int {
	return lo.Max(d.count[:])
}

func entropy(mass *[gameModel.NumStatusCodes]float64, total float64) float64 {
	if total <= 0 {
		return 0
	}
	var h float64
	for _, m := range mass {
		if m <= 0 {
			continue
		}
		p := m / total
		h -= p * math.Log2(p)
	}
	return h
}

// Entropy is the expected information, in bits, of guessing w against c.
func (s *Solver) Entropy(w gameModel.Word, c CandidateSet) (float64, error) {
	g, err := s.lookup(w)
	if err != nil {
		return 0, err
	}
	if c.Len() == 0 {
		return 0, ErrEmptyCandidateSet
	}
	return s.distribution(g, c).entropy(), nil
}

func (s *Solver) bonus(i int, c CandidateSet, penalty float64) float64 {
	if !c.Contains(i) {
		return 0
	}
	return s.priors[i] / priorBonusScale * penalty
}

// Rank returns the n best guesses against c.
func (s *Solver) Rank(ctx context.Context, n int, c CandidateSet, penalty float64) ([]gameModel.Word, error) {
	ranked, err := s.RankScored(ctx, n, c, penalty)
	if err != nil {
		return nil, err
	}
	return lo.Map(ranked, func(r Ranked, _ int) gameModel.Word { return r.Word }), nil
}

// RankScored scores every vocabulary word by entropy over c, plus
// prior/20*penalty for words that are themselves in c, and returns the n
// best. Equal scores are ordered lexically. A single-member c is returned
// as is with zero entropy.
func (s *Solver) RankScored(ctx context.Context, n int, c CandidateSet, penalty float64) ([]Ranked, error) {
	if c.Len() == 0 {
		return nil, ErrEmptyCandidateSet
	}
	if n <= 0 {
		return nil, nil
	}
	if c.Len() == 1 {
		i := c.First()
		return []Ranked{{Word: s.words[i], Index: i, Score: s.bonus(i, c, penalty)}}, nil
	}

	scored, err := s.scoreAll(ctx, c, penalty)
	if err != nil {
		return nil, err
	}
	return selectTop(scored, n), nil
}

func (s *Solver) scoreAll(ctx context.Context, c CandidateSet, penalty float64) ([]Ranked, error) {
	members, w, total := s.weights(c)
	scored := make([]Ranked, len(s.words))

	chunk := (len(s.words) + s.workers*4 - 1) / (s.workers * 4)
	chunk = max(chunk, 1)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for from := 0; from < len(s.words); from += chunk {
		from := from
		to := min(from+chunk, len(s.words))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var mass [gameModel.NumStatusCodes]float64
			for gi := from; gi < to; gi++ {
				clear(mass[:])
				row := s.matrix.Row(gi)
				for k, i := range members {
					mass[row[i]] += w[k]
				}
				h := entropy(&mass, total)
				scored[gi] = Ranked{
					Word:    s.words[gi],
					Index:   gi,
					Entropy: h,
					Score:   h + s.bonus(gi, c, penalty),
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scored, nil
}

func better(a, b Ranked) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Word.Compare(b.Word) < 0
}

func compareRanked(a, b Ranked) int {
	switch {
	case better(a, b):
		return -1
	case better(b, a):
		return 1
	}
	return 0
}

func selectTop(scored []Ranked, n int) []Ranked {
	if n == 1 {
		best := scored[0]
		for _, r := range scored[1:] {
			if better(r, best) {
				best = r
			}
		}
		return []Ranked{best}
	}
	slices.SortFunc(scored, compareRanked)
	return scored[:min(n, len(scored))]
}
