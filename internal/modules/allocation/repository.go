package allocation

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// RequestRepository records served allocation requests in the application
// database. This is an audit trail only — trained policies themselves are
// never persisted.
type RequestRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRequestRepository creates a request audit repository.
func NewRequestRepository(db *sql.DB, log zerolog.Logger) *RequestRepository {
	return &RequestRepository{
		db:  db,
		log: log.With().Str("component", "request_repo").Logger(),
	}
}

// EnsureSchema creates the allocation_requests table if needed.
func (r *RequestRepository) EnsureSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS allocation_requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			cache_key TEXT NOT NULL,
			cached INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			weights TEXT NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create allocation_requests table: %w", err)
	}
	return nil
}

// Record stores one served request.
func (r *RequestRepository) Record(key string, cached bool, elapsed time.Duration, weights []float64) error {
	weightsJSON, err := json.Marshal(weights)
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}

	cachedInt := 0
	if cached {
		cachedInt = 1
	}

	_, err = r.db.Exec(`
		INSERT INTO allocation_requests (cache_key, cached, duration_ms, weights, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, key, cachedInt, elapsed.Milliseconds(), string(weightsJSON), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert allocation request: %w", err)
	}
	return nil
}

// RequestRecord is one row of the audit trail.
type RequestRecord struct {
	CacheKey   string `json:"cache_key"`
	Cached     bool   `json:"cached"`
	DurationMs int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

// Recent returns the most recent served requests, newest first.
func (r *RequestRepository) Recent(limit int) ([]RequestRecord, error) {
	rows, err := r.db.Query(`
		SELECT cache_key, cached, duration_ms, created_at
		FROM allocation_requests
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocation requests: %w", err)
	}
	defer rows.Close()

	var records []RequestRecord
	for rows.Next() {
		var rec RequestRecord
		var cached int
		if err := rows.Scan(&rec.CacheKey, &cached, &rec.DurationMs, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan allocation request: %w", err)
		}
		rec.Cached = cached != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocation requests: %w", err)
	}

	return records, nil
}
