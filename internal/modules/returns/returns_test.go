package returns

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/rl-allocator/internal/domain"
)

func TestLogReturns_RowCountAndRoundTrip(t *testing.T) {
	prices := mat.NewDense(4, 2, []float64{
		100, 50,
		101, 49,
		102, 48,
		103, 47,
	})

	result, err := LogReturns(prices)
	require.NoError(t, err)

	rows, cols := result.Dims()
	assert.Equal(t, 3, rows, "output should have one fewer row than input")
	assert.Equal(t, 2, cols)

	// Round trip: exp(return) * price[t] ≈ price[t+1].
	for tIdx := 0; tIdx < rows; tIdx++ {
		for k := 0; k < cols; k++ {
			reconstructed := math.Exp(result.At(tIdx, k)) * prices.At(tIdx, k)
			assert.InDelta(t, prices.At(tIdx+1, k), reconstructed, 1e-9)
		}
	}
}

func TestLogReturns_Errors(t *testing.T) {
	tests := []struct {
		name   string
		prices *mat.Dense
	}{
		{
			name:   "single row",
			prices: mat.NewDense(1, 2, []float64{100, 50}),
		},
		{
			name:   "zero price",
			prices: mat.NewDense(2, 2, []float64{100, 0, 101, 49}),
		},
		{
			name:   "negative price",
			prices: mat.NewDense(2, 1, []float64{100, -5}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LogReturns(tt.prices)
			require.Error(t, err)
			assert.True(t, domain.IsDataError(err), "expected a DataError, got %v", err)
		})
	}
}

func TestSplit(t *testing.T) {
	m := mat.NewDense(10, 1, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})

	train, holdout := Split(m, 0.8)
	require.NotNil(t, train)
	require.NotNil(t, holdout)

	trainRows, _ := train.Dims()
	holdoutRows, _ := holdout.Dims()
	assert.Equal(t, 8, trainRows)
	assert.Equal(t, 2, holdoutRows)
	assert.Equal(t, 7.0, train.At(7, 0))
	assert.Equal(t, 8.0, holdout.At(0, 0))
}

func TestSplit_Degenerate(t *testing.T) {
	m := mat.NewDense(1, 1, []float64{1})

	train, holdout := Split(m, 0.8)
	assert.Nil(t, train, "floor(1*0.8)=0 rows of training data")
	require.NotNil(t, holdout)
	rows, _ := holdout.Dims()
	assert.Equal(t, 1, rows)
}
