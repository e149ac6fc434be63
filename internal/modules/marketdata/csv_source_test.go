package marketdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/rl-allocator/internal/domain"
	"github.com/aristath/rl-allocator/pkg/logger"
)

func writeCSV(t *testing.T, dir, exchange, symbol, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, exchange), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, exchange, symbol+".csv"), []byte(content), 0644))
}

func TestCSVSource_LoadAndAlign(t *testing.T) {
	dir := t.TempDir()
	log := logger.New(logger.Config{Level: "error", Pretty: false})

	// B is missing 2024-01-03: the inner join must drop that date for
	// both assets.
	writeCSV(t, dir, "NASDAQ", "A", "Date,Adj Close\n2024-01-02,100\n2024-01-03,101\n2024-01-04,102\n")
	writeCSV(t, dir, "NASDAQ", "B", "Date,Adj Close\n2024-01-02,50\n2024-01-04,48\n")

	source := NewCSVSource(dir, log)
	matrix, err := source.Load("NASDAQ", []string{"A", "B"})
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-02", "2024-01-04"}, matrix.Dates)
	assert.Equal(t, []string{"A", "B"}, matrix.Symbols)

	rows, cols := matrix.Data.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 102.0, matrix.Data.At(1, 0))
	assert.Equal(t, 48.0, matrix.Data.At(1, 1))
}

func TestCSVSource_YahooHeader(t *testing.T) {
	dir := t.TempDir()
	log := logger.New(logger.Config{Level: "error", Pretty: false})

	// Full Yahoo header: the Adj Close column wins over Close.
	writeCSV(t, dir, "NYSE", "IBM",
		"Date,Open,High,Low,Close,Adj Close,Volume\n"+
			"2024-01-02,99,101,98,100,95,1000\n"+
			"2024-01-03,100,102,99,101,96,1100\n")

	source := NewCSVSource(dir, log)
	matrix, err := source.Load("NYSE", []string{"IBM"})
	require.NoError(t, err)
	assert.Equal(t, 95.0, matrix.Data.At(0, 0))
	assert.Equal(t, 96.0, matrix.Data.At(1, 0))
}

func TestCSVSource_Errors(t *testing.T) {
	dir := t.TempDir()
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	writeCSV(t, dir, "NASDAQ", "A", "Date,Adj Close\n2024-01-02,100\n2024-01-03,101\n")
	source := NewCSVSource(dir, log)

	tests := []struct {
		name    string
		symbols []string
	}{
		{"missing file", []string{"MISSING"}},
		{"empty symbol list", nil},
		{"one present one missing", []string{"A", "MISSING"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := source.Load("NASDAQ", tt.symbols)
			require.Error(t, err)
			assert.True(t, domain.IsDataError(err), "expected a DataError, got %v", err)
		})
	}
}

func TestCSVSource_BadPrice(t *testing.T) {
	dir := t.TempDir()
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	writeCSV(t, dir, "NASDAQ", "BAD", "Date,Adj Close\n2024-01-02,abc\n")

	source := NewCSVSource(dir, log)
	_, err := source.Load("NASDAQ", []string{"BAD"})
	require.Error(t, err)
	assert.True(t, domain.IsDataError(err))
}

func TestAlign_InsufficientOverlap(t *testing.T) {
	series := []Series{
		{Symbol: "A", Prices: map[string]float64{"2024-01-02": 1, "2024-01-03": 2}},
		{Symbol: "B", Prices: map[string]float64{"2024-01-03": 3, "2024-01-04": 4}},
	}

	_, err := Align(series)
	require.Error(t, err)
	assert.True(t, domain.IsDataError(err), "single shared date cannot produce a return")
}
