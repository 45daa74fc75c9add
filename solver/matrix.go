package solver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tiggercwh/go-wordlebot/gameModel"
)

// Matrix stores the feedback for every (guess, secret) pair, row-major by
// guess index.
type Matrix struct {
	n     int
	codes []gameModel.StatusCode
}

// BuildMatrix computes the all-pairs feedback table. Rows are independent
// and are filled by at most workers goroutines; each goroutine writes only
// its own row.
func BuildMatrix(ctx context.Context, words []gameModel.Word, workers int) (*Matrix, error) {
	n := len(words)
	m := &Matrix{n: n, codes: make([]gameModel.StatusCode, n*n)}

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for gi := range words {
		gi := gi
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			guess := words[gi]
			row := m.codes[gi*n : (gi+1)*n]
			for si, secret := range words {
				row[si] = gameModel.Feedback(secret, guess)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Matrix) Size() int { return m.n }

// At is the feedback when guess g is played against secret s.
func (m *Matrix) At(g, s int) gameModel.StatusCode {
	return m.codes[g*m.n+s]
}

// Row returns the feedback of guess g against every secret. The slice
// aliases the matrix and must not be modified.
func (m *Matrix) Row(g int) []gameModel.StatusCode {
	return m.codes[g*m.n : (g+1)*m.n : (g+1)*m.n]
}
