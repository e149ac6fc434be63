package allocation

import (
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/aristath/rl-allocator/internal/domain"
	"github.com/aristath/rl-allocator/internal/modules/marketdata"
	"github.com/aristath/rl-allocator/internal/modules/returns"
	"github.com/aristath/rl-allocator/internal/modules/training"
)

// trainSplitFrac is the train/held-out split point over the log-return
// rows. The held-out tail is currently unused by training; the split point
// is preserved for behavioral parity with the reference pipeline.
const trainSplitFrac = 0.8

// Service computes allocation weights for a symbol universe: on a cache
// miss it loads aligned prices, trains a policy on the training split of
// the log returns, evaluates the actor on the most recent training row and
// caches the result.
//
// A singleflight group serializes training per key, so concurrent requests
// for the same uncached universe share a single training run.
type Service struct {
	source  marketdata.Source
	trainer *training.Trainer
	cache   *Cache
	repo    *RequestRepository // optional audit trail
	group   singleflight.Group
	log     zerolog.Logger
}

// NewService creates the allocation service. repo may be nil to disable
// the request audit trail.
func NewService(
	source marketdata.Source,
	trainer *training.Trainer,
	cache *Cache,
	repo *RequestRepository,
	log zerolog.Logger,
) *Service {
	return &Service{
		source:  source,
		trainer: trainer,
		cache:   cache,
		repo:    repo,
		log:     log.With().Str("component", "allocation").Logger(),
	}
}

// Allocate returns the allocation weight vector for the requested universe
// and whether it was served from cache. Any data or training failure
// surfaces to the caller and leaves no cache entry, so the next request
// for the same key retries from scratch.
func (s *Service) Allocate(exchange string, symbols []string) ([]float64, bool, error) {
	if len(symbols) == 0 {
		return nil, false, domain.NewDataError("empty symbol list")
	}

	key := CacheKey(exchange, symbols)
	start := time.Now()

	if weights, ok := s.cache.Get(key); ok {
		s.log.Info().Str("key", key).Msg("Cache hit")
		s.record(key, true, time.Since(start), weights)
		return weights, true, nil
	}

	result, err, shared := s.group.Do(key, func() (interface{}, error) {
		// A concurrent request may have finished training while this one
		// waited on the group.
		if weights, ok := s.cache.Get(key); ok {
			return weights, nil
		}
		return s.train(key, exchange, symbols)
	})
	if err != nil {
		return nil, false, err
	}

	weights := result.([]float64)
	if shared {
		s.log.Debug().Str("key", key).Msg("Shared in-flight training result")
	}
	s.record(key, false, time.Since(start), weights)
	return weights, false, nil
}

// train runs the full pipeline for one uncached universe.
func (s *Service) train(key, exchange string, symbols []string) ([]float64, error) {
	s.log.Info().Str("key", key).Msg("Cache miss, training policy")

	prices, err := s.source.Load(exchange, symbols)
	if err != nil {
		return nil, err
	}

	logReturns, err := returns.LogReturns(prices.Data)
	if err != nil {
		return nil, err
	}

	trainReturns, _ := returns.Split(logReturns, trainSplitFrac)
	if trainReturns == nil {
		return nil, domain.NewDataError("empty training split for %s", key)
	}

	actor, err := s.trainer.Train(trainReturns)
	if err != nil {
		return nil, err
	}

	// The production allocation is the actor's output on the most recent
	// observed training return.
	rows, cols := trainReturns.Dims()
	lastState := make([]float64, cols)
	copy(lastState, trainReturns.RawRowView(rows-1))
	weights := actor.Weights(lastState)

	s.cache.Put(key, weights)
	return weights, nil
}

func (s *Service) record(key string, cached bool, elapsed time.Duration, weights []float64) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Record(key, cached, elapsed, weights); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Failed to record allocation request")
	}
}
