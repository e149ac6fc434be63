// Package marketdata loads historical price series and aligns them into
// the price matrix consumed by the return transform.
package marketdata

// Source loads timestamp-aligned prices for an ordered symbol universe on
// one exchange. Implementations must return a DataError for missing or
// unreadable series.
type Source interface {
	Load(exchange string, symbols []string) (*PriceMatrix, error)
}
