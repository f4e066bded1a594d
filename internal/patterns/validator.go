package patterns

import "stock-pattern-api/internal/series"

// trendLookback is the number of bars preceding a pattern used for trend
// classification and volume confirmation.
const trendLookback = 20

// Validate annotates detected patterns with trend context and confirmation.
// It returns new pattern values; the detector's output is never mutated.
// Patterns too early in the series for a trend window pass through with an
// unknown trend context.
func Validate(bars []series.Bar, detected []Pattern) []Pattern {
	out := make([]Pattern, len(detected))
	for i, p := range detected {
		out[i] = validateOne(bars, p)
	}
	return out
}

func validateOne(bars []series.Bar, p Pattern) Pattern {
	if p.BarIndex < trendLookback {
		return p
	}

	trend := classifyTrend(bars, p.BarIndex)
	p.TrendContext = trend

	if volumeConfirms(bars, p.BarIndex) && trendAppropriate(p.Category, trend) {
		p.Confirmed = true
		p.Confidence += 10
		if p.Confidence > 100 {
			p.Confidence = 100
		}
	}
	return p
}

// classifyTrend fits a least-squares line through the 20 closes preceding
// the pattern and compares the current price with their mean: above a 2%
// band with a positive slope is an uptrend, the mirror is a downtrend,
// anything else is sideways.
func classifyTrend(bars []series.Bar, idx int) TrendContext {
	window := bars[idx-trendLookback : idx]
	closes := series.Closes(window)

	slope := regressionSlope(closes)
	sma := series.SMA(closes, trendLookback)
	price := bars[idx].Close

	switch {
	case slope > 0 && price > 1.02*sma:
		return TrendUp
	case slope < 0 && price < 0.98*sma:
		return TrendDown
	default:
		return TrendSideways
	}
}

// regressionSlope returns the slope of the degree-1 least-squares fit with
// x = 0..n-1.
func regressionSlope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// volumeConfirms reports whether the pattern bar traded more than 1.2x the
// average volume of the preceding 20 bars. Instruments without volume data
// never confirm.
func volumeConfirms(bars []series.Bar, idx int) bool {
	var sum float64
	for _, b := range bars[idx-trendLookback : idx] {
		sum += b.Volume
	}
	avg := sum / trendLookback
	if avg <= 0 {
		return false
	}
	return bars[idx].Volume > 1.2*avg
}

// trendAppropriate is the category/trend compatibility table: reversals need
// the trend they reverse, continuations need their own trend, neutral
// patterns accept any context.
func trendAppropriate(cat Category, trend TrendContext) bool {
	switch cat {
	case CategoryReversalBullish:
		return trend == TrendDown
	case CategoryReversalBearish:
		return trend == TrendUp
	case CategoryBullish:
		return trend == TrendUp
	case CategoryBearish:
		return trend == TrendDown
	case CategoryNeutral:
		return true
	default:
		return false
	}
}
