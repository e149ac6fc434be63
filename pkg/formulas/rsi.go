package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// RSI calculates the current Relative Strength Index (0-100) over the
// given period, typically 14. Returns nil with insufficient data.
func RSI(closes []float64, length int) *float64 {
	if len(closes) < length+1 {
		return nil
	}

	rsi := talib.Rsi(closes, length)
	last := rsi[len(rsi)-1]
	if math.IsNaN(last) {
		return nil
	}
	return &last
}

// SMA calculates the current simple moving average over the given period.
// Returns nil with insufficient data.
func SMA(closes []float64, length int) *float64 {
	if len(closes) < length {
		return nil
	}

	sma := talib.Sma(closes, length)
	last := sma[len(sma)-1]
	if math.IsNaN(last) {
		return nil
	}
	return &last
}
