package marketdata

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/aristath/rl-allocator/internal/domain"
)

// CSVSource reads per-symbol price histories from
// <dataDir>/<exchange>/<SYMBOL>.csv files with a Yahoo-style header. The
// Date column and the Adj Close column (falling back to Close) are used.
type CSVSource struct {
	dataDir string
	log     zerolog.Logger
}

// NewCSVSource creates a CSV-backed price source rooted at dataDir.
func NewCSVSource(dataDir string, log zerolog.Logger) *CSVSource {
	return &CSVSource{
		dataDir: dataDir,
		log:     log.With().Str("component", "csv_source").Logger(),
	}
}

// Load reads and aligns the price series for every requested symbol.
func (s *CSVSource) Load(exchange string, symbols []string) (*PriceMatrix, error) {
	if len(symbols) == 0 {
		return nil, domain.NewDataError("empty symbol list")
	}

	series := make([]Series, 0, len(symbols))
	for _, symbol := range symbols {
		one, err := s.loadSymbol(exchange, symbol)
		if err != nil {
			return nil, err
		}
		series = append(series, one)
	}

	matrix, err := Align(series)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("exchange", exchange).
		Int("symbols", len(symbols)).
		Int("rows", len(matrix.Dates)).
		Msg("Loaded aligned prices")

	return matrix, nil
}

func (s *CSVSource) loadSymbol(exchange, symbol string) (Series, error) {
	path := filepath.Join(s.dataDir, exchange, symbol+".csv")

	f, err := os.Open(path)
	if err != nil {
		return Series{}, domain.NewDataError("missing price file for %s: %s", symbol, path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return Series{}, domain.NewDataError("unreadable price file for %s: %v", symbol, err)
	}
	if len(records) < 2 {
		return Series{}, domain.NewDataError("price file for %s has no data rows", symbol)
	}

	dateCol, priceCol := -1, -1
	for i, name := range records[0] {
		switch name {
		case "Date":
			dateCol = i
		case "Adj Close":
			priceCol = i
		case "Close":
			if priceCol == -1 {
				priceCol = i
			}
		}
	}
	if dateCol == -1 || priceCol == -1 {
		return Series{}, domain.NewDataError("price file for %s lacks Date/Adj Close columns", symbol)
	}

	prices := make(map[string]float64, len(records)-1)
	for _, row := range records[1:] {
		if len(row) <= dateCol || len(row) <= priceCol {
			continue
		}
		price, err := strconv.ParseFloat(row[priceCol], 64)
		if err != nil {
			return Series{}, domain.NewDataError("bad price %q for %s on %s", row[priceCol], symbol, row[dateCol])
		}
		prices[row[dateCol]] = price
	}
	if len(prices) == 0 {
		return Series{}, domain.NewDataError("price file for %s has no parsable rows", symbol)
	}

	return Series{Symbol: symbol, Prices: prices}, nil
}
