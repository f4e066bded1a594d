package marketdata

import (
	"context"
	"math"
	"time"

	"stock-pattern-api/internal/series"
)

// MockClient returns deterministic synthetic history so the service can run
// without the upstream data API.
type MockClient struct {
	Bars int // series length, defaults to 250
}

// GetHistory generates a smooth trending series with a sinusoidal component
// so both the similarity search and the pattern detector have structure to
// find. The same symbol always yields the same series.
func (m *MockClient) GetHistory(_ context.Context, symbol, _, _ string) ([]series.Bar, error) {
	n := m.Bars
	if n <= 0 {
		n = 250
	}

	// Seed price from the symbol so distinct symbols diverge.
	base := 50.0
	for _, r := range symbol {
		base += float64(r % 13)
	}

	start := time.Now().AddDate(0, 0, -n)
	bars := make([]series.Bar, n)
	price := base
	for i := 0; i < n; i++ {
		drift := 0.05 * math.Sin(float64(i)/9)
		wave := 1.5 * math.Sin(float64(i)/17)
		open := price
		close := price + drift + wave*0.1
		high := math.Max(open, close) + 0.4
		low := math.Min(open, close) - 0.4
		bars[i] = series.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: 1_000_000 + 50_000*math.Abs(wave),
		}
		price = close
	}
	return bars, nil
}
