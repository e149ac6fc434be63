package marketdata

import (
	"database/sql"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/rs/zerolog"

	"github.com/aristath/rl-allocator/internal/domain"
)

// SQLiteSource reads per-symbol price histories from standalone SQLite
// databases under <historyDir>/<exchange>/<SYMBOL>.db, each with a
// daily_prices(date, adj_close) table.
type SQLiteSource struct {
	historyDir string
	log        zerolog.Logger
}

// NewSQLiteSource creates a history-database price source.
func NewSQLiteSource(historyDir string, log zerolog.Logger) *SQLiteSource {
	return &SQLiteSource{
		historyDir: historyDir,
		log:        log.With().Str("component", "history_source").Logger(),
	}
}

// Load reads and aligns the price series for every requested symbol.
func (s *SQLiteSource) Load(exchange string, symbols []string) (*PriceMatrix, error) {
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

	return Align(series)
}

func (s *SQLiteSource) loadSymbol(exchange, symbol string) (Series, error) {
	// Symbol format on disk: AAPL.US -> AAPL_US.db
	dbSymbol := strings.ReplaceAll(symbol, ".", "_")
	dbPath := filepath.Join(s.historyDir, exchange, dbSymbol+".db")

	db, err := sql.Open("sqlite3", dbPath+"?mode=ro")
	if err != nil {
		return Series{}, domain.NewDataError("failed to open history database for %s: %v", symbol, err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return Series{}, domain.NewDataError("missing history database for %s: %s", symbol, dbPath)
	}

	rows, err := db.Query(`SELECT date, adj_close FROM daily_prices ORDER BY date ASC`)
	if err != nil {
		return Series{}, domain.NewDataError("failed to query daily prices for %s: %v", symbol, err)
	}
	defer rows.Close()

	prices := make(map[string]float64)
	for rows.Next() {
		var date string
		var price float64
		if err := rows.Scan(&date, &price); err != nil {
			return Series{}, domain.NewDataError("failed to scan daily price for %s: %v", symbol, err)
		}
		prices[date] = price
	}
	if err := rows.Err(); err != nil {
		return Series{}, domain.NewDataError("error iterating daily prices for %s: %v", symbol, err)
	}
	if len(prices) == 0 {
		return Series{}, domain.NewDataError("history database for %s has no daily prices", symbol)
	}

	return Series{Symbol: symbol, Prices: prices}, nil
}
