package policy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

// lossOf evaluates the probe loss sum_ij c[i][j] * Y[i][j] for the
// current parameters.
func lossOf(net *Network, x, c *mat.Dense) float64 {
	y, _ := net.Forward(x)
	rows, cols := y.Dims()
	var loss float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			loss += c.At(i, j) * y.At(i, j)
		}
	}
	return loss
}

// gradCheck compares the analytic backward pass against central finite
// differences for a sample of parameters.
func gradCheck(t *testing.T, simplex bool) {
	t.Helper()

	rng := rand.New(rand.NewSource(5))
	out := 3
	if !simplex {
		out = 1
	}
	net := newNetwork(3, 8, out, simplex, rng)

	x := mat.NewDense(4, 3, nil)
	c := mat.NewDense(4, out, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			x.Set(i, j, rng.NormFloat64()*0.05)
		}
		for j := 0; j < out; j++ {
			c.Set(i, j, rng.NormFloat64())
		}
	}

	_, cache := net.Forward(x)
	grads := net.NewGrads()
	net.Backward(cache, c, grads)

	const h = 1e-6
	checkDense := func(name string, p, g *mat.Dense, i, j int) {
		orig := p.At(i, j)
		p.Set(i, j, orig+h)
		up := lossOf(net, x, c)
		p.Set(i, j, orig-h)
		down := lossOf(net, x, c)
		p.Set(i, j, orig)

		numeric := (up - down) / (2 * h)
		assert.InDelta(t, numeric, g.At(i, j), 1e-6, "parameter %s[%d,%d]", name, i, j)
	}
	checkVec := func(name string, p, g []float64, i int) {
		orig := p[i]
		p[i] = orig + h
		up := lossOf(net, x, c)
		p[i] = orig - h
		down := lossOf(net, x, c)
		p[i] = orig

		numeric := (up - down) / (2 * h)
		assert.InDelta(t, numeric, g[i], 1e-6, "parameter %s[%d]", name, i)
	}

	checkDense("W1", net.W1, grads.W1, 0, 0)
	checkDense("W1", net.W1, grads.W1, 5, 2)
	checkDense("W2", net.W2, grads.W2, 0, 3)
	checkDense("W2", net.W2, grads.W2, out-1, 7)
	checkVec("B1", net.B1, grads.B1, 1)
	checkVec("B1", net.B1, grads.B1, 6)
	checkVec("B2", net.B2, grads.B2, 0)
}

func TestBackward_MatchesFiniteDifference_Simplex(t *testing.T) {
	gradCheck(t, true)
}

func TestBackward_MatchesFiniteDifference_Linear(t *testing.T) {
	gradCheck(t, false)
}
