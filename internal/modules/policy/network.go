// Package policy holds the actor/critic function approximators: small
// two-layer feed-forward networks over gonum matrices, with analytic
// backpropagation and an Adam optimizer. The trainer owns all parameter
// updates; inference entry points are pure.
package policy

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// DefaultHidden is the width of the single hidden layer.
const DefaultHidden = 64

// Network is a two-layer perceptron: in → hidden (ReLU) → out, with an
// optional softmax head that maps the output onto the probability simplex.
type Network struct {
	in, hidden, out int
	simplex         bool

	// W1 is hidden×in, W2 is out×hidden. Biases are dense vectors.
	W1, W2 *mat.Dense
	B1, B2 []float64
}

// Cache holds the intermediate activations of one batched forward pass,
// needed to backpropagate through it.
type Cache struct {
	X *mat.Dense // N×in input
	H *mat.Dense // N×hidden post-ReLU
	Y *mat.Dense // N×out post-activation output
}

// newNetwork builds a network with uniform U(−1/√fanIn, +1/√fanIn)
// initialization for weights and biases of each layer.
func newNetwork(in, hidden, out int, simplex bool, rng *rand.Rand) *Network {
	n := &Network{
		in:      in,
		hidden:  hidden,
		out:     out,
		simplex: simplex,
		W1:      mat.NewDense(hidden, in, nil),
		W2:      mat.NewDense(out, hidden, nil),
		B1:      make([]float64, hidden),
		B2:      make([]float64, out),
	}

	initUniform(n.W1, n.B1, in, rng)
	initUniform(n.W2, n.B2, hidden, rng)
	return n
}

func initUniform(w *mat.Dense, b []float64, fanIn int, rng *rand.Rand) {
	bound := 1.0 / math.Sqrt(float64(fanIn))
	r, c := w.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			w.Set(i, j, (rng.Float64()*2-1)*bound)
		}
	}
	for i := range b {
		b[i] = (rng.Float64()*2 - 1) * bound
	}
}

// Forward runs a batched forward pass over an N×in input matrix and returns
// the N×out output together with the activation cache.
func (n *Network) Forward(x *mat.Dense) (*mat.Dense, *Cache) {
	rows, _ := x.Dims()

	// Hidden layer: H = relu(X·W1' + b1).
	h := mat.NewDense(rows, n.hidden, nil)
	h.Mul(x, n.W1.T())
	for i := 0; i < rows; i++ {
		row := h.RawRowView(i)
		for j := 0; j < n.hidden; j++ {
			v := row[j] + n.B1[j]
			if v < 0 {
				v = 0
			}
			row[j] = v
		}
	}

	// Output layer: Y = H·W2' + b2, optionally softmaxed per row.
	y := mat.NewDense(rows, n.out, nil)
	y.Mul(h, n.W2.T())
	for i := 0; i < rows; i++ {
		row := y.RawRowView(i)
		for j := 0; j < n.out; j++ {
			row[j] += n.B2[j]
		}
		if n.simplex {
			softmaxInPlace(row)
		}
	}

	return y, &Cache{X: x, H: h, Y: y}
}

// softmaxInPlace applies a numerically stable softmax to one row.
func softmaxInPlace(row []float64) {
	max := row[0]
	for _, v := range row[1:] {
		if v > max {
			max = v
		}
	}
	var sum float64
	for i, v := range row {
		e := math.Exp(v - max)
		row[i] = e
		sum += e
	}
	for i := range row {
		row[i] /= sum
	}
}

// Backward accumulates parameter gradients into g for a batch, given the
// gradient dY of the scalar loss with respect to the post-activation
// output. The softmax Jacobian is applied internally for simplex networks.
func (n *Network) Backward(c *Cache, dY *mat.Dense, g *Grads) {
	rows, _ := dY.Dims()

	// dZ2: gradient at the pre-activation output.
	dZ2 := mat.NewDense(rows, n.out, nil)
	for i := 0; i < rows; i++ {
		dyRow := dY.RawRowView(i)
		dzRow := dZ2.RawRowView(i)
		if n.simplex {
			yRow := c.Y.RawRowView(i)
			var dot float64
			for j := 0; j < n.out; j++ {
				dot += dyRow[j] * yRow[j]
			}
			for j := 0; j < n.out; j++ {
				dzRow[j] = yRow[j] * (dyRow[j] - dot)
			}
		} else {
			copy(dzRow, dyRow)
		}
	}

	// Output layer gradients.
	var dW2 mat.Dense
	dW2.Mul(dZ2.T(), c.H)
	g.W2.Add(g.W2, &dW2)
	for i := 0; i < rows; i++ {
		row := dZ2.RawRowView(i)
		for j := 0; j < n.out; j++ {
			g.B2[j] += row[j]
		}
	}

	// Backprop into the hidden layer through the ReLU mask.
	dH := mat.NewDense(rows, n.hidden, nil)
	dH.Mul(dZ2, n.W2)
	for i := 0; i < rows; i++ {
		hRow := c.H.RawRowView(i)
		dhRow := dH.RawRowView(i)
		for j := 0; j < n.hidden; j++ {
			if hRow[j] <= 0 {
				dhRow[j] = 0
			}
		}
	}

	var dW1 mat.Dense
	dW1.Mul(dH.T(), c.X)
	g.W1.Add(g.W1, &dW1)
	for i := 0; i < rows; i++ {
		row := dH.RawRowView(i)
		for j := 0; j < n.hidden; j++ {
			g.B1[j] += row[j]
		}
	}
}

// NewGrads allocates a zeroed gradient accumulator shaped like the network.
func (n *Network) NewGrads() *Grads {
	return &Grads{
		W1: mat.NewDense(n.hidden, n.in, nil),
		W2: mat.NewDense(n.out, n.hidden, nil),
		B1: make([]float64, n.hidden),
		B2: make([]float64, n.out),
	}
}

// Grads accumulates loss gradients for a network's parameters.
type Grads struct {
	W1, W2 *mat.Dense
	B1, B2 []float64
}

// Zero resets all accumulated gradients.
func (g *Grads) Zero() {
	g.W1.Zero()
	g.W2.Zero()
	for i := range g.B1 {
		g.B1[i] = 0
	}
	for i := range g.B2 {
		g.B2[i] = 0
	}
}

// Norm returns the global L2 norm across every parameter gradient.
func (g *Grads) Norm() float64 {
	var sum float64
	add := func(m *mat.Dense) {
		r, c := m.Dims()
		for i := 0; i < r; i++ {
			row := m.RawRowView(i)
			for j := 0; j < c; j++ {
				sum += row[j] * row[j]
			}
		}
	}
	add(g.W1)
	add(g.W2)
	for _, v := range g.B1 {
		sum += v * v
	}
	for _, v := range g.B2 {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// ClipNorm rescales the gradients in place so their global L2 norm does
// not exceed maxNorm.
func (g *Grads) ClipNorm(maxNorm float64) {
	norm := g.Norm()
	if norm <= maxNorm || norm == 0 {
		return
	}
	scale := maxNorm / norm
	g.W1.Scale(scale, g.W1)
	g.W2.Scale(scale, g.W2)
	for i := range g.B1 {
		g.B1[i] *= scale
	}
	for i := range g.B2 {
		g.B2[i] *= scale
	}
}
