// Package assets serves per-symbol diagnostics computed from the price
// source: momentum/oscillator indicators and risk statistics.
package assets

import (
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/rl-allocator/internal/modules/marketdata"
	"github.com/aristath/rl-allocator/pkg/formulas"
)

const (
	rsiPeriod = 14
	smaPeriod = 20
)

// Stats is the diagnostics summary for one symbol.
type Stats struct {
	Symbol        string   `json:"symbol"`
	Observations  int      `json:"observations"`
	LastPrice     float64  `json:"last_price"`
	RSI14         *float64 `json:"rsi_14"`
	SMA20         *float64 `json:"sma_20"`
	AnnualizedVol float64  `json:"annualized_volatility"`
	Sharpe        *float64 `json:"sharpe"`
	MaxDrawdown   *float64 `json:"max_drawdown"`
}

// Service computes asset diagnostics from the configured price source.
type Service struct {
	source marketdata.Source
	log    zerolog.Logger
}

// NewService creates an asset stats service.
func NewService(source marketdata.Source, log zerolog.Logger) *Service {
	return &Service{
		source: source,
		log:    log.With().Str("component", "assets").Logger(),
	}
}

// Stats loads the price history of one symbol and computes its
// diagnostics. Data failures surface as DataError.
func (s *Service) Stats(exchange, symbol string) (*Stats, error) {
	matrix, err := s.source.Load(exchange, []string{symbol})
	if err != nil {
		return nil, err
	}

	prices := mat.Col(nil, 0, matrix.Data)
	returns := formulas.SimpleReturns(prices)

	return &Stats{
		Symbol:        symbol,
		Observations:  len(prices),
		LastPrice:     prices[len(prices)-1],
		RSI14:         formulas.RSI(prices, rsiPeriod),
		SMA20:         formulas.SMA(prices, smaPeriod),
		AnnualizedVol: formulas.AnnualizedVolatility(returns),
		Sharpe:        formulas.SharpeRatio(returns, 0, 252),
		MaxDrawdown:   formulas.MaxDrawdown(prices),
	}, nil
}
