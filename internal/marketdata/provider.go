// Package marketdata fetches daily OHLCV history from the external price
// API, with rate limiting, optional Redis caching, and a deterministic mock
// for development and tests.
package marketdata

import (
	"context"
	"errors"

	"stock-pattern-api/internal/series"
)

// ErrNoData indicates the upstream returned an empty history for a symbol.
var ErrNoData = errors.New("no data returned for symbol")

// Provider supplies a sorted daily price series for one symbol.
type Provider interface {
	GetHistory(ctx context.Context, symbol, period, interval string) ([]series.Bar, error)
}
