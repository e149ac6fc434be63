package formulas

// MaxDrawdown calculates the maximum peak-to-trough loss of a price
// series as a positive fraction (0.25 = 25% below the peak). Returns nil
// with fewer than two prices.
func MaxDrawdown(prices []float64) *float64 {
	if len(prices) < 2 {
		return nil
	}

	maxDrawdown := 0.0
	peak := prices[0]
	for _, price := range prices {
		if price > peak {
			peak = price
		}
		if peak > 0 {
			if dd := (peak - price) / peak; dd > maxDrawdown {
				maxDrawdown = dd
			}
		}
	}
	return &maxDrawdown
}

// Momentum calculates the fractional price change over the trailing
// period of the given length in days.
func Momentum(prices []float64, days int) *float64 {
	if len(prices) < days+1 {
		return nil
	}

	start := prices[len(prices)-days-1]
	if start == 0 {
		return nil
	}
	momentum := (prices[len(prices)-1] - start) / start
	return &momentum
}
