package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUniverses(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []Universe
	}{
		{
			name: "two universes",
			spec: "NASDAQ:AAPL,MSFT;NYSE:IBM",
			want: []Universe{
				{Exchange: "NASDAQ", Symbols: []string{"AAPL", "MSFT"}},
				{Exchange: "NYSE", Symbols: []string{"IBM"}},
			},
		},
		{
			name: "whitespace and trailing separator",
			spec: " NASDAQ: AAPL , MSFT ; ",
			want: []Universe{
				{Exchange: "NASDAQ", Symbols: []string{"AAPL", "MSFT"}},
			},
		},
		{
			name: "malformed entries skipped",
			spec: "NOEXCHANGE;:AAPL;NYSE:;NASDAQ:GOOG",
			want: []Universe{
				{Exchange: "NASDAQ", Symbols: []string{"GOOG"}},
			},
		},
		{
			name: "empty spec",
			spec: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseUniverses(tt.spec))
		})
	}
}
