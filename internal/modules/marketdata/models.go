package marketdata

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/rl-allocator/internal/domain"
)

// Series is one asset's price history, keyed by date string (YYYY-MM-DD,
// lexically sortable).
type Series struct {
	Symbol string
	Prices map[string]float64
}

// PriceMatrix is a timestamp-aligned price table: one row per date, one
// column per asset. Column order is stable and defines the asset index
// used by the policy throughout.
type PriceMatrix struct {
	Dates   []string
	Symbols []string
	Data    *mat.Dense
}

// Align inner-joins a set of per-asset series on their dates: only dates
// present in every series are retained, in ascending order. Column order
// follows the input series order. At least two aligned rows are required
// for a return to exist.
func Align(series []Series) (*PriceMatrix, error) {
	if len(series) == 0 {
		return nil, domain.NewDataError("no asset series to align")
	}

	// Intersect dates across all series, seeded from the first.
	var dates []string
	for date := range series[0].Prices {
		shared := true
		for _, s := range series[1:] {
			if _, ok := s.Prices[date]; !ok {
				shared = false
				break
			}
		}
		if shared {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	if len(dates) < 2 {
		return nil, domain.NewDataError("only %d aligned dates across %d assets, need at least 2", len(dates), len(series))
	}

	symbols := make([]string, len(series))
	data := mat.NewDense(len(dates), len(series), nil)
	for k, s := range series {
		symbols[k] = s.Symbol
		for t, date := range dates {
			data.Set(t, k, s.Prices[date])
		}
	}

	return &PriceMatrix{Dates: dates, Symbols: symbols, Data: data}, nil
}
