package training

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/rl-allocator/internal/domain"
	"github.com/aristath/rl-allocator/pkg/logger"
)

func syntheticReturns(rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			// Small deterministic drift per asset, alternating sign.
			m.Set(i, j, 0.01*float64(j+1)*math.Pow(-1, float64(i%3)))
		}
	}
	return m
}

func TestTrain_ProducesSimplexPolicy(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	trainer := New(Config{Epochs: 20, Seed: 1}, log)

	returns := syntheticReturns(15, 3)
	actor, err := trainer.Train(returns)
	require.NoError(t, err)

	weights := actor.Weights(returns.RawRowView(14))
	require.Len(t, weights, 3)

	var sum float64
	for _, w := range weights {
		assert.GreaterOrEqual(t, w, 0.0)
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
}

func TestTrain_DeterministicForFixedSeed(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	returns := syntheticReturns(20, 2)
	state := returns.RawRowView(19)

	a1, err := New(Config{Epochs: 30, Seed: 42}, log).Train(returns)
	require.NoError(t, err)
	a2, err := New(Config{Epochs: 30, Seed: 42}, log).Train(returns)
	require.NoError(t, err)

	assert.Equal(t, a1.Weights(state), a2.Weights(state), "identical seeds must yield identical policies")
}

func TestTrain_SingleAsset(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	trainer := New(Config{Epochs: 10, Seed: 5}, log)

	returns := syntheticReturns(10, 1)
	actor, err := trainer.Train(returns)
	require.NoError(t, err)

	weights := actor.Weights(returns.RawRowView(9))
	require.Len(t, weights, 1)
	assert.InDelta(t, 1.0, weights[0], 1e-12)
}

func TestTrain_InputValidation(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	trainer := New(Config{Epochs: 5, Seed: 1}, log)

	_, err := trainer.Train(mat.NewDense(1, 2, []float64{0.01, 0.02}))
	require.Error(t, err)
	assert.True(t, domain.IsDataError(err))
}

func TestTrain_NaNReturnsSurfaceAsTrainingError(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	trainer := New(Config{Epochs: 5, Seed: 1}, log)

	returns := syntheticReturns(10, 2)
	returns.Set(3, 1, math.NaN())

	_, err := trainer.Train(returns)
	require.Error(t, err)
	assert.True(t, domain.IsTrainingError(err), "expected a TrainingError, got %v", err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 200, cfg.Epochs)
	assert.Equal(t, 0.99, cfg.Gamma)
	assert.Equal(t, 0.2, cfg.Clip)
	assert.Equal(t, 1e-3, cfg.LearningRate)
	assert.Equal(t, 4, cfg.InnerUpdates)

	// Zero fields are filled with defaults.
	normalized := Config{Seed: 7}.normalized()
	assert.Equal(t, 200, normalized.Epochs)
	assert.Equal(t, int64(7), normalized.Seed)
}
