package policy

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Adam optimizer defaults, matching the usual framework settings.
const (
	adamBeta1 = 0.9
	adamBeta2 = 0.999
	adamEps   = 1e-8
)

// Adam holds per-parameter first and second moment estimates for one
// network. Each network gets its own independent optimizer.
type Adam struct {
	lr float64
	t  int

	mW1, vW1, mW2, vW2 *mat.Dense
	mB1, vB1, mB2, vB2 []float64
}

// NewAdam creates an Adam optimizer for the given network.
func NewAdam(n *Network, lr float64) *Adam {
	return &Adam{
		lr:  lr,
		mW1: mat.NewDense(n.hidden, n.in, nil),
		vW1: mat.NewDense(n.hidden, n.in, nil),
		mW2: mat.NewDense(n.out, n.hidden, nil),
		vW2: mat.NewDense(n.out, n.hidden, nil),
		mB1: make([]float64, n.hidden),
		vB1: make([]float64, n.hidden),
		mB2: make([]float64, n.out),
		vB2: make([]float64, n.out),
	}
}

// Step applies one Adam update to the network parameters using the
// accumulated gradients.
func (a *Adam) Step(n *Network, g *Grads) {
	a.t++
	c1 := 1 - math.Pow(adamBeta1, float64(a.t))
	c2 := 1 - math.Pow(adamBeta2, float64(a.t))

	a.stepDense(n.W1, g.W1, a.mW1, a.vW1, c1, c2)
	a.stepDense(n.W2, g.W2, a.mW2, a.vW2, c1, c2)
	a.stepVec(n.B1, g.B1, a.mB1, a.vB1, c1, c2)
	a.stepVec(n.B2, g.B2, a.mB2, a.vB2, c1, c2)
}

func (a *Adam) stepDense(p, g, m, v *mat.Dense, c1, c2 float64) {
	rows, cols := p.Dims()
	for i := 0; i < rows; i++ {
		pRow := p.RawRowView(i)
		gRow := g.RawRowView(i)
		mRow := m.RawRowView(i)
		vRow := v.RawRowView(i)
		for j := 0; j < cols; j++ {
			mRow[j] = adamBeta1*mRow[j] + (1-adamBeta1)*gRow[j]
			vRow[j] = adamBeta2*vRow[j] + (1-adamBeta2)*gRow[j]*gRow[j]
			pRow[j] -= a.lr * (mRow[j] / c1) / (math.Sqrt(vRow[j]/c2) + adamEps)
		}
	}
}

func (a *Adam) stepVec(p, g, m, v []float64, c1, c2 float64) {
	for j := range p {
		m[j] = adamBeta1*m[j] + (1-adamBeta1)*g[j]
		v[j] = adamBeta2*v[j] + (1-adamBeta2)*g[j]*g[j]
		p[j] -= a.lr * (m[j] / c1) / (math.Sqrt(v[j]/c2) + adamEps)
	}
}
