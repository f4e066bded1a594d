// Package similarity implements the multi-metric pattern similarity score
// (MMPS) and the sliding-window search that ranks historical windows against
// the trailing query window.
package similarity

import (
	"math"

	"stock-pattern-api/internal/series"
)

// Fusion weights for the six sub-scores. They must sum to 1.0.
const (
	weightShape      = 0.25
	weightDTW        = 0.20
	weightStructure  = 0.20
	weightTrend      = 0.15
	weightVolatility = 0.10
	weightTurning    = 0.10
)

const epsilon = 1e-9

// Score holds the fused similarity and its six components, all percentages
// in [0,100] rounded to two decimals.
type Score struct {
	Final      float64 `json:"final"`
	Shape      float64 `json:"shape"`
	DTW        float64 `json:"dtw"`
	Structure  float64 `json:"structure"`
	Trend      float64 `json:"trend"`
	Volatility float64 `json:"volatility"`
	Turning    float64 `json:"turning"`
}

// MMPS computes the multi-metric pattern similarity between two windows.
// Windows of different lengths are truncated to their shared trailing length.
// The score is symmetric and reaches 100 for identical non-flat windows.
func MMPS(a, b []series.Bar) Score {
	l := len(a)
	if len(b) < l {
		l = len(b)
	}
	if l == 0 {
		return Score{}
	}
	a = a[len(a)-l:]
	b = b[len(b)-l:]

	n1 := normalizeEps(series.Closes(a))
	n2 := normalizeEps(series.Closes(b))

	shapeSim := math.Exp(-1.5 * euclidean(n1, n2))
	dtwSim := math.Exp(-0.5 * fastDTW(n1, n2, defaultRadius))
	structSim := math.Exp(-1.2 * structureDistance(a, b))

	g1 := gradient(n1)
	g2 := gradient(n2)
	trendSim := trendSimilarity(g1, g2)
	volSim := math.Exp(-3 * math.Abs(popStdDev(g1)-popStdDev(g2)))
	turnSim := math.Exp(-5 * turningError(n1, n2))

	final := (weightShape*shapeSim +
		weightDTW*dtwSim +
		weightStructure*structSim +
		weightTrend*trendSim +
		weightVolatility*volSim +
		weightTurning*turnSim) * 100

	return Score{
		Final:      round2(final),
		Shape:      round2(shapeSim * 100),
		DTW:        round2(dtwSim * 100),
		Structure:  round2(structSim * 100),
		Trend:      round2(trendSim * 100),
		Volatility: round2(volSim * 100),
		Turning:    round2(turnSim * 100),
	}
}

// normalizeEps min-max scales with an epsilon denominator so flat windows
// collapse to zeros instead of dividing by zero.
func normalizeEps(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	for i, v := range values {
		out[i] = (v - minV) / (maxV - minV + epsilon)
	}
	return out
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// structureDistance is the mean distance between the per-bar
// (body, upper shadow, lower shadow) vectors, each scaled by the bar range.
func structureDistance(a, b []series.Bar) float64 {
	var sum float64
	for i := range a {
		ma := series.Metrics(a[i])
		mb := series.Metrics(b[i])
		ra := ma.Range + epsilon
		rb := mb.Range + epsilon
		db := ma.Body/ra - mb.Body/rb
		du := ma.UpperShadow/ra - mb.UpperShadow/rb
		dl := ma.LowerShadow/ra - mb.LowerShadow/rb
		sum += math.Sqrt(db*db + du*du + dl*dl)
	}
	return sum / float64(len(a))
}

// gradient computes central differences, matching the discrete gradient used
// when the sequences were aligned: one-sided at the ends, centered inside.
func gradient(values []float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	if n < 2 {
		return out
	}
	out[0] = values[1] - values[0]
	out[n-1] = values[n-1] - values[n-2]
	for i := 1; i < n-1; i++ {
		out[i] = (values[i+1] - values[i-1]) / 2
	}
	return out
}

// trendSimilarity rescales gradient cosine similarity from [-1,1] to [0,1].
// A zero-norm gradient (flat window) yields zero similarity.
func trendSimilarity(g1, g2 []float64) float64 {
	var dot, n1, n2 float64
	for i := range g1 {
		dot += g1[i] * g2[i]
		n1 += g1[i] * g1[i]
		n2 += g2[i] * g2[i]
	}
	denom := math.Sqrt(n1) * math.Sqrt(n2)
	if denom == 0 {
		return 0
	}
	return (dot/denom + 1) / 2
}

func popStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(values)))
}

// turningError sums the normalized positional errors of the global maximum
// and minimum between the two windows.
func turningError(n1, n2 []float64) float64 {
	l := float64(len(n1))
	max1, min1 := argMax(n1), argMin(n1)
	max2, min2 := argMax(n2), argMin(n2)
	return math.Abs(float64(max1)/l-float64(max2)/l) +
		math.Abs(float64(min1)/l-float64(min2)/l)
}

func argMax(values []float64) int {
	idx := 0
	for i, v := range values {
		if v > values[idx] {
			idx = i
		}
	}
	return idx
}

func argMin(values []float64) int {
	idx := 0
	for i, v := range values {
		if v < values[idx] {
			idx = i
		}
	}
	return idx
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
