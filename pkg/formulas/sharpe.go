package formulas

import "math"

// SharpeRatio calculates the annualized Sharpe ratio of a series of
// periodic returns:
//
//	Sharpe = (mean return − periodic risk-free rate) / std dev × sqrt(periods)
//
// riskFreeRate is annual (0.02 for 2%). Returns nil with insufficient data
// or zero volatility.
func SharpeRatio(returns []float64, riskFreeRate float64, periodsPerYear int) *float64 {
	if len(returns) < 2 {
		return nil
	}

	stdDev := StdDev(returns)
	if stdDev == 0 {
		return nil
	}

	periodicRiskFree := riskFreeRate / float64(periodsPerYear)
	sharpe := (Mean(returns) - periodicRiskFree) / stdDev * math.Sqrt(float64(periodsPerYear))
	return &sharpe
}

// SharpeFromPrices calculates the annualized Sharpe ratio directly from
// daily price data.
func SharpeFromPrices(prices []float64, riskFreeRate float64) *float64 {
	if len(prices) < 2 {
		return nil
	}
	return SharpeRatio(SimpleReturns(prices), riskFreeRate, 252)
}
