package allocation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/rl-allocator/pkg/logger"
)

func testHandler(t *testing.T, symbols []string) *Handler {
	t.Helper()
	return NewHandler(fixtureService(t, symbols), logger.New(logger.Config{Level: "error", Pretty: false}))
}

func postWeights(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/optimal-weights", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleOptimalWeights(rec, req)
	return rec
}

func TestHandleOptimalWeights(t *testing.T) {
	h := testHandler(t, []string{"AAA", "BBB"})

	rec := postWeights(h, `{"exchange":"NASDAQ","symbols":["AAA","BBB"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.OptimalWeights, 2)
	assert.False(t, resp.Cached)

	sum := 0.0
	for _, w := range resp.OptimalWeights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	rec = postWeights(h, `{"exchange":"NASDAQ","symbols":["AAA","BBB"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Cached)
}

func TestHandleOptimalWeights_BadRequests(t *testing.T) {
	h := testHandler(t, []string{"AAA"})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"exchange":`},
		{"missing exchange", `{"symbols":["AAA"]}`},
		{"missing symbols", `{"exchange":"NASDAQ"}`},
		{"unknown symbol", `{"exchange":"NASDAQ","symbols":["NOPE"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postWeights(h, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}
