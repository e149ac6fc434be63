package policy

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Actor maps a return-vector state onto a probability-simplex weight
// vector: all entries non-negative, summing to 1. Parameters are mutated
// only by the trainer; once training ends the actor is effectively
// immutable and safe for shared read-only use.
type Actor struct {
	net *Network
}

// NewActor creates an actor for nAssets assets with the given hidden
// width. The rng seeds parameter initialization.
func NewActor(nAssets, hidden int, rng *rand.Rand) *Actor {
	return &Actor{net: newNetwork(nAssets, hidden, nAssets, true, rng)}
}

// Weights evaluates the actor on a single state and returns the
// allocation weight vector.
func (a *Actor) Weights(state []float64) []float64 {
	x := mat.NewDense(1, len(state), nil)
	copy(x.RawRowView(0), state)
	y, _ := a.net.Forward(x)
	out := make([]float64, len(state))
	copy(out, y.RawRowView(0))
	return out
}

// Forward runs a batched forward pass; used by the trainer.
func (a *Actor) Forward(states *mat.Dense) (*mat.Dense, *Cache) {
	return a.net.Forward(states)
}

// Net exposes the underlying network for gradient and optimizer plumbing.
func (a *Actor) Net() *Network { return a.net }

// Critic maps a return-vector state to an unbounded scalar value
// estimate of expected discounted future reward.
type Critic struct {
	net *Network
}

// NewCritic creates a critic for nAssets assets with the given hidden
// width.
func NewCritic(nAssets, hidden int, rng *rand.Rand) *Critic {
	return &Critic{net: newNetwork(nAssets, hidden, 1, false, rng)}
}

// Values evaluates the critic on a batch of states, returning one value
// estimate per row.
func (c *Critic) Values(states *mat.Dense) ([]float64, *Cache) {
	y, cache := c.net.Forward(states)
	rows, _ := y.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = y.At(i, 0)
	}
	return out, cache
}

// Net exposes the underlying network for gradient and optimizer plumbing.
func (c *Critic) Net() *Network { return c.net }
