// Package reward computes the risk-adjusted scalar reward used by the PPO
// trainer to score a weight vector against observed returns.
package reward

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	// Epsilon guards the volatility denominator and the covariance
	// quadratic form against division by zero.
	Epsilon = 1e-8

	// RewardMin / RewardMax bound the reward magnitude to stabilize
	// the gradient signal.
	RewardMin = -5.0
	RewardMax = 5.0
)

// Single computes the risk-adjusted reward for a weight vector against a
// single return observation. The volatility here is the single-sample
// proxy sqrt(sum((w*r)^2) + eps), not a covariance estimate; the trainer
// relies on this exact behavior.
func Single(weights, ret []float64) float64 {
	var portReturn, sumSq float64
	for i := range weights {
		wr := weights[i] * ret[i]
		portReturn += wr
		sumSq += wr * wr
	}
	portVol := math.Sqrt(sumSq + Epsilon)
	return clamp(portReturn/(portVol+Epsilon), RewardMin, RewardMax)
}

// RiskAdjusted computes the risk-adjusted reward for a weight vector
// against a batch of return observations (rows = observations).
//
// With fewer than two observations it falls back to the single-observation
// proxy. With two or more it uses the sample covariance of the batch:
// reward = clamp(portReturn / (sqrt(w'Σw + eps) + eps), -5, 5), where
// portReturn sums the per-row portfolio returns.
func RiskAdjusted(weights []float64, observations *mat.Dense) float64 {
	rows, cols := observations.Dims()
	if rows < 2 {
		return Single(weights, observations.RawRowView(0))
	}

	var portReturn float64
	for i := 0; i < rows; i++ {
		row := observations.RawRowView(i)
		for k := 0; k < cols; k++ {
			portReturn += weights[k] * row[k]
		}
	}

	cov := CovarianceMatrix(observations)

	// Quadratic form w' Σ w.
	var quad float64
	for i := 0; i < cols; i++ {
		for j := 0; j < cols; j++ {
			quad += weights[i] * cov.At(i, j) * weights[j]
		}
	}

	portVol := math.Sqrt(quad + Epsilon)
	return clamp(portReturn/(portVol+Epsilon), RewardMin, RewardMax)
}

// CovarianceMatrix builds the K×K sample covariance matrix (n−1
// normalization) of a batch of return observations. The shape is always a
// proper K×K matrix, including the degenerate K=1 case where the scalar
// variance becomes a 1×1 matrix.
func CovarianceMatrix(observations *mat.Dense) *mat.SymDense {
	_, cols := observations.Dims()
	if cols == 1 {
		col := mat.Col(nil, 0, observations)
		v := stat.Variance(col, nil)
		return mat.NewSymDense(1, []float64{v})
	}

	cov := mat.NewSymDense(cols, nil)
	stat.CovarianceMatrix(cov, observations, nil)
	return cov
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
