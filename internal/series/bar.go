// Package series holds the immutable daily OHLCV series consumed by the
// similarity and candlestick engines, plus the per-bar derived metrics.
package series

import (
	"math"
	"time"
)

// epsilon guards divisions on degenerate bars (zero range, flat windows).
const epsilon = 1e-9

// Bar represents one daily OHLCV observation.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// BarMetrics holds the derived quantities of a single bar. It is a pure
// function of the bar and is recomputed on demand rather than cached.
type BarMetrics struct {
	Body        float64
	Range       float64
	UpperShadow float64
	LowerShadow float64
	BodyRatio   float64
	IsBullish   bool
}

// Metrics computes the derived quantities for one bar.
func Metrics(b Bar) BarMetrics {
	body := math.Abs(b.Close - b.Open)
	rng := b.High - b.Low
	return BarMetrics{
		Body:        body,
		Range:       rng,
		UpperShadow: b.High - math.Max(b.Open, b.Close),
		LowerShadow: math.Min(b.Open, b.Close) - b.Low,
		BodyRatio:   body / (rng + epsilon),
		IsBullish:   b.Close > b.Open,
	}
}

// Closes extracts the close prices of a series.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the volumes of a series.
func Volumes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}
