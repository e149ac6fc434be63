// Package returns converts aligned price series into log-return matrices
// for policy training.
package returns

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/rl-allocator/internal/domain"
)

// LogReturns converts an N×K price matrix into an (N−1)×K matrix of natural
// log returns: out[t][k] = ln(price[t+1][k] / price[t][k]).
//
// All prices must be strictly positive and at least two rows and one column
// are required, otherwise a DataError is returned.
func LogReturns(prices *mat.Dense) (*mat.Dense, error) {
	rows, cols := prices.Dims()
	if cols < 1 {
		return nil, domain.NewDataError("log returns require at least 1 asset column, got %d", cols)
	}
	if rows < 2 {
		return nil, domain.NewDataError("log returns require at least 2 price rows, got %d", rows)
	}

	out := mat.NewDense(rows-1, cols, nil)
	for t := 0; t < rows-1; t++ {
		for k := 0; k < cols; k++ {
			p0 := prices.At(t, k)
			p1 := prices.At(t+1, k)
			if p0 <= 0 || p1 <= 0 {
				return nil, domain.NewDataError("non-positive price %.6f at row %d, column %d", math.Min(p0, p1), t, k)
			}
			out.Set(t, k, math.Log(p1/p0))
		}
	}

	return out, nil
}

// Split divides a return matrix into a training slice and a held-out slice
// at floor(rows*frac). Either part is nil when it would be empty.
func Split(m *mat.Dense, frac float64) (train, holdout *mat.Dense) {
	rows, cols := m.Dims()
	split := int(float64(rows) * frac)
	if split < 0 {
		split = 0
	}
	if split > rows {
		split = rows
	}

	if split > 0 {
		train = mat.DenseCopyOf(m.Slice(0, split, 0, cols))
	}
	if split < rows {
		holdout = mat.DenseCopyOf(m.Slice(split, rows, 0, cols))
	}
	return train, holdout
}
