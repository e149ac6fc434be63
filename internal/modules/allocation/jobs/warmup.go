// Package jobs holds scheduled background jobs for the allocation module.
package jobs

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/rl-allocator/internal/modules/allocation"
)

// Universe is one (exchange, symbols) pair to pre-train.
type Universe struct {
	Exchange string
	Symbols  []string
}

// ParseUniverses parses the WARMUP_UNIVERSES config format:
// "NASDAQ:AAPL,MSFT;NYSE:IBM". Malformed entries are skipped.
func ParseUniverses(spec string) []Universe {
	var universes []Universe
	for _, entry := range strings.Split(spec, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 || parts[0] == "" {
			continue
		}
		var symbols []string
		for _, sym := range strings.Split(parts[1], ",") {
			if sym = strings.TrimSpace(sym); sym != "" {
				symbols = append(symbols, sym)
			}
		}
		if len(symbols) == 0 {
			continue
		}
		universes = append(universes, Universe{Exchange: parts[0], Symbols: symbols})
	}
	return universes
}

// Warmup pre-trains the configured universes through the normal service
// path. Already-cached keys are served from cache, so repeated runs never
// retrain or invalidate anything.
type Warmup struct {
	service   *allocation.Service
	universes []Universe
	log       zerolog.Logger
}

// NewWarmup creates the warmup job.
func NewWarmup(service *allocation.Service, universes []Universe, log zerolog.Logger) *Warmup {
	return &Warmup{
		service:   service,
		universes: universes,
		log:       log.With().Str("component", "warmup_job").Logger(),
	}
}

// Name returns the job name.
func (j *Warmup) Name() string { return "allocation_warmup" }

// Run trains every configured universe that is not yet cached. Failures
// are logged and do not stop the remaining universes.
func (j *Warmup) Run() error {
	for _, u := range j.universes {
		_, cached, err := j.service.Allocate(u.Exchange, u.Symbols)
		if err != nil {
			j.log.Error().
				Err(err).
				Str("exchange", u.Exchange).
				Strs("symbols", u.Symbols).
				Msg("Warmup training failed")
			continue
		}
		j.log.Info().
			Str("exchange", u.Exchange).
			Strs("symbols", u.Symbols).
			Bool("cached", cached).
			Msg("Universe warmed up")
	}
	return nil
}
