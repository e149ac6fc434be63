// Package training implements the PPO-style optimization loop that turns a
// log-return matrix into a trained allocation policy.
package training

import (
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/rl-allocator/internal/domain"
	"github.com/aristath/rl-allocator/internal/modules/policy"
	"github.com/aristath/rl-allocator/internal/modules/reward"
)

const (
	// logProbFloor clamps the deterministic log-probability proxy
	// dot(weights, state) before taking its log.
	logProbFloor = 1e-8

	// maxGradNorm bounds the global gradient norm of the actor update.
	maxGradNorm = 1.0
)

// Config holds the trainer hyperparameters. Zero values are replaced by
// the defaults from DefaultConfig.
type Config struct {
	Epochs       int     // fixed epoch schedule, no early stopping
	Gamma        float64 // discount factor
	Clip         float64 // importance-ratio clip range
	LearningRate float64
	InnerUpdates int // policy/value updates per epoch
	Hidden       int // hidden layer width
	Seed         int64
}

// DefaultConfig returns the standard hyperparameters.
func DefaultConfig() Config {
	return Config{
		Epochs:       200,
		Gamma:        0.99,
		Clip:         0.2,
		LearningRate: 1e-3,
		InnerUpdates: 4,
		Hidden:       policy.DefaultHidden,
		Seed:         42,
	}
}

// normalized fills zero fields with defaults.
func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.Epochs <= 0 {
		c.Epochs = d.Epochs
	}
	if c.Gamma == 0 {
		c.Gamma = d.Gamma
	}
	if c.Clip == 0 {
		c.Clip = d.Clip
	}
	if c.LearningRate == 0 {
		c.LearningRate = d.LearningRate
	}
	if c.InnerUpdates <= 0 {
		c.InnerUpdates = d.InnerUpdates
	}
	if c.Hidden <= 0 {
		c.Hidden = d.Hidden
	}
	return c
}

// Trainer runs the clipped-policy-gradient optimization loop. A trainer is
// stateless across calls; every Train call builds a fresh actor/critic
// pair and optimizers, and discards everything but the actor.
type Trainer struct {
	cfg Config
	log zerolog.Logger
}

// New creates a trainer with the given hyperparameters.
func New(cfg Config, log zerolog.Logger) *Trainer {
	return &Trainer{
		cfg: cfg.normalized(),
		log: log.With().Str("component", "trainer").Logger(),
	}
}

// Train runs the fixed epoch schedule over a log-return matrix and returns
// the converged actor. The run is deterministic for a fixed seed. Numerical
// failure (non-finite loss) surfaces as a TrainingError; there is no retry
// or partial recovery.
func (t *Trainer) Train(returns *mat.Dense) (*policy.Actor, error) {
	rows, nAssets := returns.Dims()
	if nAssets < 1 {
		return nil, domain.NewDataError("training requires at least 1 asset column, got %d", nAssets)
	}
	if rows < 2 {
		return nil, domain.NewDataError("training requires at least 2 return rows, got %d", rows)
	}

	start := time.Now()
	rng := rand.New(rand.NewSource(t.cfg.Seed))
	actor := policy.NewActor(nAssets, t.cfg.Hidden, rng)
	critic := policy.NewCritic(nAssets, t.cfg.Hidden, rng)
	optActor := policy.NewAdam(actor.Net(), t.cfg.LearningRate)
	optCritic := policy.NewAdam(critic.Net(), t.cfg.LearningRate)

	// Each return row acts as a state; the same row, offset by one, is the
	// realized return used for the next state's bootstrap.
	nStates := rows - 1
	states := mat.DenseCopyOf(returns.Slice(0, nStates, 0, nAssets))
	nextStates := mat.DenseCopyOf(returns.Slice(1, rows, 0, nAssets))

	gradsActor := actor.Net().NewGrads()
	gradsCritic := critic.Net().NewGrads()

	t.log.Debug().
		Int("epochs", t.cfg.Epochs).
		Int("states", nStates).
		Int("assets", nAssets).
		Msg("Starting PPO training")

	for epoch := 0; epoch < t.cfg.Epochs; epoch++ {
		if err := t.runEpoch(actor, critic, optActor, optCritic, gradsActor, gradsCritic, states, nextStates); err != nil {
			return nil, err
		}
	}

	t.log.Info().
		Int("epochs", t.cfg.Epochs).
		Int("states", nStates).
		Int("assets", nAssets).
		Dur("duration_ms", time.Since(start)).
		Msg("PPO training complete")

	return actor, nil
}

// runEpoch performs one rollout-reward pass followed by the inner clipped
// policy/value updates.
func (t *Trainer) runEpoch(
	actor *policy.Actor,
	critic *policy.Critic,
	optActor, optCritic *policy.Adam,
	gradsActor, gradsCritic *policy.Grads,
	states, nextStates *mat.Dense,
) error {
	n, nAssets := states.Dims()

	// Rollout: evaluate the current policy and score each state with the
	// single-observation risk-adjusted reward. Rewards, advantages and the
	// old log-probabilities are constants for the inner updates.
	weights, _ := actor.Forward(states)
	rewards := make([]float64, n)
	for i := 0; i < n; i++ {
		rewards[i] = reward.Single(weights.RawRowView(i), states.RawRowView(i))
	}

	values, _ := critic.Values(states)
	nextValues, _ := critic.Values(nextStates)

	// One-step temporal-difference advantage and the fixed critic target.
	advantages := make([]float64, n)
	targets := make([]float64, n)
	for i := 0; i < n; i++ {
		targets[i] = rewards[i] + t.cfg.Gamma*nextValues[i]
		advantages[i] = targets[i] - values[i]
	}

	logpOld := make([]float64, n)
	for i := 0; i < n; i++ {
		logpOld[i] = logProbProxy(weights.RawRowView(i), states.RawRowView(i))
	}

	for update := 0; update < t.cfg.InnerUpdates; update++ {
		weightsNew, actorCache := actor.Forward(states)

		// Clipped surrogate objective and its gradient with respect to
		// the actor output.
		dActor := mat.NewDense(n, nAssets, nil)
		var lossActor float64
		for i := 0; i < n; i++ {
			wRow := weightsNew.RawRowView(i)
			sRow := states.RawRowView(i)

			dot := floats.Dot(wRow, sRow)
			clamped := dot
			if clamped < logProbFloor {
				clamped = logProbFloor
			}
			logpNew := math.Log(clamped)
			ratio := math.Exp(logpNew - logpOld[i])

			surr1 := ratio * advantages[i]
			clippedRatio := clampFloat(ratio, 1-t.cfg.Clip, 1+t.cfg.Clip)
			surr2 := clippedRatio * advantages[i]

			lossActor -= math.Min(surr1, surr2) / float64(n)

			// d(-min(surr1, surr2))/d logpNew, then through the clamped
			// log and the dot product into the weight vector.
			var dLogp float64
			if surr1 <= surr2 {
				dLogp = -advantages[i] * ratio / float64(n)
			} else if ratio > 1-t.cfg.Clip && ratio < 1+t.cfg.Clip {
				dLogp = -advantages[i] * ratio / float64(n)
			}
			if dot > logProbFloor && dLogp != 0 {
				gDot := dLogp / dot
				dRow := dActor.RawRowView(i)
				for k := 0; k < nAssets; k++ {
					dRow[k] = gDot * sRow[k]
				}
			}
		}

		// Value loss against the fixed target, weighted 0.5 in the joint
		// objective.
		valuesNew, criticCache := critic.Values(states)
		dCritic := mat.NewDense(n, 1, nil)
		var lossCritic float64
		for i := 0; i < n; i++ {
			diff := valuesNew[i] - targets[i]
			lossCritic += diff * diff / float64(n)
			dCritic.Set(i, 0, diff/float64(n))
		}

		if !isFinite(lossActor) || !isFinite(lossCritic) {
			return domain.NewTrainingError("non-finite loss (actor=%v, critic=%v)", lossActor, lossCritic)
		}

		gradsActor.Zero()
		actor.Net().Backward(actorCache, dActor, gradsActor)
		gradsActor.ClipNorm(maxGradNorm)

		gradsCritic.Zero()
		critic.Net().Backward(criticCache, dCritic, gradsCritic)

		optActor.Step(actor.Net(), gradsActor)
		optCritic.Step(critic.Net(), gradsCritic)
	}

	return nil
}

// logProbProxy is the deterministic stand-in for a stochastic-policy log
// probability: log of the clamped dot product of the weight vector with
// the state.
func logProbProxy(weights, state []float64) float64 {
	dot := floats.Dot(weights, state)
	if dot < logProbFloor {
		dot = logProbFloor
	}
	return math.Log(dot)
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
