// Package patterns detects candlestick chart patterns over a daily series,
// validates them against trend and volume context, and aggregates their
// historical forward-return statistics.
package patterns

import (
	"time"

	"stock-pattern-api/internal/series"
)

// Category classifies the directional meaning of a pattern. It is a closed
// set; the validator's compatibility table matches on it exhaustively.
type Category string

const (
	CategoryBullish         Category = "bullish"
	CategoryBearish         Category = "bearish"
	CategoryNeutral         Category = "neutral"
	CategoryReversalBullish Category = "reversal_bullish"
	CategoryReversalBearish Category = "reversal_bearish"
)

// Reliability is the detector's qualitative grade for a pattern.
type Reliability string

const (
	ReliabilityHigh   Reliability = "High"
	ReliabilityMedium Reliability = "Medium"
	ReliabilityLow    Reliability = "Low"
)

// TrendContext classifies the market preceding a pattern occurrence.
type TrendContext string

const (
	TrendUnknown  TrendContext = "unknown"
	TrendUp       TrendContext = "uptrend"
	TrendDown     TrendContext = "downtrend"
	TrendSideways TrendContext = "sideways"
)

// Detection thresholds.
const (
	dojiThreshold      = 0.05
	longShadowRatio    = 2.0
	engulfingThreshold = 0.9
	minBodyRatio       = 0.10
)

// Pattern is one detected candlestick pattern occurrence. Detected values
// are immutable; validation produces annotated copies rather than mutating.
type Pattern struct {
	Name            string       `json:"name"`
	Category        Category     `json:"category"`
	Confidence      float64      `json:"confidence"`
	Date            time.Time    `json:"date"`
	BarIndex        int          `json:"bar_index"`
	Reliability     Reliability  `json:"reliability"`
	Confirmed       bool         `json:"confirmed"`
	TrendContext    TrendContext `json:"trend_context"`
	ComponentPrices []float64    `json:"component_prices"`
}

// Detect scans the series for all single, two and three bar patterns ending
// at each index i in [2, N). Overlapping rules at the same index all report;
// no deduplication is applied.
func Detect(bars []series.Bar) []Pattern {
	var out []Pattern
	for i := 2; i < len(bars); i++ {
		out = append(out, detectAt(bars, i)...)
	}
	return out
}

func detectAt(bars []series.Bar, i int) []Pattern {
	var out []Pattern

	cur := bars[i]
	m := series.Metrics(cur)

	add := func(name string, cat Category, confidence float64, confirmed bool, component ...series.Bar) {
		prices := make([]float64, 0, len(component)*4)
		for _, b := range component {
			prices = append(prices, b.Open, b.High, b.Low, b.Close)
		}
		out = append(out, Pattern{
			Name:            name,
			Category:        cat,
			Confidence:      confidence,
			Date:            cur.Date,
			BarIndex:        i,
			Reliability:     reliabilityFor(confidence),
			Confirmed:       confirmed,
			TrendContext:    TrendUnknown,
			ComponentPrices: prices,
		})
	}

	// Single-bar rules.
	if m.BodyRatio < dojiThreshold {
		add("Doji", CategoryNeutral, 75, false, cur)
	}
	if m.LowerShadow > longShadowRatio*m.Body && m.UpperShadow < 0.3*m.Body && m.BodyRatio > minBodyRatio {
		add("Hammer", CategoryReversalBullish, 80, false, cur)
	}
	if m.UpperShadow > longShadowRatio*m.Body && m.LowerShadow < 0.3*m.Body && m.BodyRatio > minBodyRatio {
		add("Shooting Star", CategoryReversalBearish, 80, false, cur)
	}
	if m.BodyRatio < 0.3 && m.UpperShadow > m.Body && m.LowerShadow > m.Body {
		add("Spinning Top", CategoryNeutral, 65, false, cur)
	}

	// Two-bar rules.
	prev := bars[i-1]
	pm := series.Metrics(prev)

	if !pm.IsBullish && m.IsBullish &&
		cur.Open <= prev.Close && cur.Close >= prev.Open &&
		m.Body > engulfingThreshold*pm.Body {
		add("Bullish Engulfing", CategoryReversalBullish, 85, false, prev, cur)
	}
	if pm.IsBullish && !m.IsBullish &&
		cur.Open >= prev.Close && cur.Close <= prev.Open &&
		m.Body > engulfingThreshold*pm.Body {
		add("Bearish Engulfing", CategoryReversalBearish, 85, false, prev, cur)
	}
	if !pm.IsBullish && m.IsBullish &&
		bodyWithin(cur, prev) && m.Body < 0.5*pm.Body {
		add("Bullish Harami", CategoryReversalBullish, 70, false, prev, cur)
	}
	if pm.IsBullish && !m.IsBullish &&
		bodyWithin(cur, prev) && m.Body < 0.5*pm.Body {
		add("Bearish Harami", CategoryReversalBearish, 70, false, prev, cur)
	}
	prevMid := (prev.Open + prev.Close) / 2
	if !pm.IsBullish && m.IsBullish &&
		cur.Open < prev.Low && cur.Close > prevMid && cur.Close < prev.Open {
		add("Piercing Line", CategoryReversalBullish, 75, false, prev, cur)
	}
	if pm.IsBullish && !m.IsBullish &&
		cur.Open > prev.High && cur.Close < prevMid && cur.Close > prev.Open {
		add("Dark Cloud Cover", CategoryReversalBearish, 75, false, prev, cur)
	}

	// Three-bar rules.
	first := bars[i-2]
	fm := series.Metrics(first)
	midBar := bars[i-1]
	mm := series.Metrics(midBar)
	firstMid := (first.Open + first.Close) / 2

	if !fm.IsBullish && m.IsBullish && mm.BodyRatio < 0.3 && cur.Close > firstMid {
		add("Morning Star", CategoryReversalBullish, 90, true, first, midBar, cur)
	}
	if fm.IsBullish && !m.IsBullish && mm.BodyRatio < 0.3 && cur.Close < firstMid {
		add("Evening Star", CategoryReversalBearish, 90, true, first, midBar, cur)
	}
	if fm.IsBullish && mm.IsBullish && m.IsBullish &&
		midBar.Close > first.Close && cur.Close > midBar.Close &&
		fm.BodyRatio > 0.5 && mm.BodyRatio > 0.5 && m.BodyRatio > 0.5 {
		add("Three White Soldiers", CategoryBullish, 85, true, first, midBar, cur)
	}
	if !fm.IsBullish && !mm.IsBullish && !m.IsBullish &&
		midBar.Close < first.Close && cur.Close < midBar.Close &&
		fm.BodyRatio > 0.5 && mm.BodyRatio > 0.5 && m.BodyRatio > 0.5 {
		add("Three Black Crows", CategoryBearish, 85, true, first, midBar, cur)
	}

	return out
}

// bodyWithin reports whether the body of a is contained inside the body of b.
func bodyWithin(a, b series.Bar) bool {
	aHigh, aLow := bodyBounds(a)
	bHigh, bLow := bodyBounds(b)
	return aHigh <= bHigh && aLow >= bLow
}

func bodyBounds(b series.Bar) (high, low float64) {
	if b.Open > b.Close {
		return b.Open, b.Close
	}
	return b.Close, b.Open
}

func reliabilityFor(confidence float64) Reliability {
	switch {
	case confidence >= 85:
		return ReliabilityHigh
	case confidence >= 70:
		return ReliabilityMedium
	default:
		return ReliabilityLow
	}
}
