package allocation

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/rl-allocator/internal/database"
	"github.com/aristath/rl-allocator/pkg/logger"
)

func testRepo(t *testing.T) *RequestRepository {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRequestRepository(db.Conn(), logger.New(logger.Config{Level: "error", Pretty: false}))
	require.NoError(t, repo.EnsureSchema())
	return repo
}

func TestRequestRepository_RecordAndRecent(t *testing.T) {
	repo := testRepo(t)

	require.NoError(t, repo.Record("NASDAQ|AAPL,MSFT", false, 1200*time.Millisecond, []float64{0.6, 0.4}))
	require.NoError(t, repo.Record("NASDAQ|AAPL,MSFT", true, 2*time.Millisecond, []float64{0.6, 0.4}))

	records, err := repo.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.True(t, records[0].Cached)
	assert.Equal(t, int64(2), records[0].DurationMs)
	assert.False(t, records[1].Cached)
	assert.Equal(t, int64(1200), records[1].DurationMs)
	assert.Equal(t, "NASDAQ|AAPL,MSFT", records[0].CacheKey)
}

func TestRequestRepository_RecentLimit(t *testing.T) {
	repo := testRepo(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Record("NYSE|IBM", false, time.Millisecond, []float64{1}))
	}

	records, err := repo.Recent(3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestRequestRepository_EnsureSchemaIdempotent(t *testing.T) {
	repo := testRepo(t)
	require.NoError(t, repo.EnsureSchema())
}
