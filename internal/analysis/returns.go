package analysis

import (
	"math"
	"sort"

	"stock-pattern-api/internal/patterns"
	"stock-pattern-api/internal/series"
)

// FutureReturns computes the forward percent returns after a matched window,
// anchored at the window's end (start index + window size), for every
// horizon. Horizons that run past the end of the series map to nil; a
// window ending at or past the series end yields a nil map.
func FutureReturns(bars []series.Bar, startIdx, windowSize int) map[string]*float64 {
	end := startIdx + windowSize
	if end >= len(bars) {
		return nil
	}
	base := bars[end].Close
	if base == 0 {
		return nil
	}

	out := make(map[string]*float64, len(patterns.Horizons))
	for _, h := range patterns.Horizons {
		key := patterns.HorizonKey(h)
		future := end + h
		if future < len(bars) {
			r := round2((bars[future].Close - base) / base * 100)
			out[key] = &r
		} else {
			out[key] = nil
		}
	}
	return out
}

// Prediction aggregates the forward returns of all matches at one horizon.
// A horizon with zero collected samples keeps its row with null statistics
// rather than disappearing from the table.
type Prediction struct {
	Mean         *float64 `json:"mean"`
	Median       *float64 `json:"median"`
	Std          *float64 `json:"std"`
	Min          *float64 `json:"min"`
	Max          *float64 `json:"max"`
	Count        int      `json:"count"`
	PositiveRate *float64 `json:"positive_rate"`
}

// aggregatePredictions pools per-match future returns across the ranked
// matches. These are genuine historical outcomes, not sampled placeholders.
func aggregatePredictions(returns []map[string]*float64) map[string]Prediction {
	out := make(map[string]Prediction, len(patterns.Horizons))
	for _, h := range patterns.Horizons {
		key := patterns.HorizonKey(h)
		var samples []float64
		for _, m := range returns {
			if m == nil {
				continue
			}
			if r, ok := m[key]; ok && r != nil {
				samples = append(samples, *r)
			}
		}
		out[key] = summarizeReturns(samples)
	}
	return out
}

func summarizeReturns(samples []float64) Prediction {
	if len(samples) == 0 {
		return Prediction{}
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	var sum float64
	var positives int
	for _, s := range samples {
		sum += s
		if s > 0 {
			positives++
		}
	}
	mean := sum / float64(len(samples))

	var sq float64
	for _, s := range samples {
		sq += (s - mean) * (s - mean)
	}
	std := math.Sqrt(sq / float64(len(samples)))

	var med float64
	n := len(sorted)
	if n%2 == 1 {
		med = sorted[n/2]
	} else {
		med = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return Prediction{
		Mean:         ptr(round2(mean)),
		Median:       ptr(round2(med)),
		Std:          ptr(round2(std)),
		Min:          ptr(round2(sorted[0])),
		Max:          ptr(round2(sorted[n-1])),
		Count:        len(samples),
		PositiveRate: ptr(round1(float64(positives) / float64(len(samples)) * 100)),
	}
}

func ptr(v float64) *float64 { return &v }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
