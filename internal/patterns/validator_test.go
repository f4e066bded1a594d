package patterns

import (
	"testing"
	"time"

	"stock-pattern-api/internal/series"
)

// trendSeries builds n bars whose closes move by `step` per bar from a
// starting level, with uniform volume.
func trendSeries(n int, start, step, volume float64) []series.Bar {
	out := make([]series.Bar, n)
	date := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		c := start + step*float64(i)
		out[i] = series.Bar{
			Date:   date.AddDate(0, 0, i),
			Open:   c - step*0.5,
			High:   c + 0.5,
			Low:    c - step*0.5 - 0.5,
			Close:  c,
			Volume: volume,
		}
	}
	return out
}

func TestValidateTooEarlyPassesThrough(t *testing.T) {
	bars := trendSeries(30, 100, 1, 1000)
	detected := []Pattern{{Name: "Doji", Category: CategoryNeutral, Confidence: 75, BarIndex: 5}}

	out := Validate(bars, detected)
	if out[0].TrendContext != TrendUnknown {
		t.Errorf("expected unknown trend before the lookback fills, got %q", out[0].TrendContext)
	}
	if out[0].Confirmed {
		t.Error("early pattern must not be confirmed")
	}
	if out[0].Confidence != 75 {
		t.Errorf("confidence must be unchanged, got %v", out[0].Confidence)
	}
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	bars := trendSeries(40, 100, -2, 1000)
	bars[30].Volume = 5000
	detected := []Pattern{{Name: "Hammer", Category: CategoryReversalBullish, Confidence: 80, BarIndex: 30}}

	Validate(bars, detected)
	if detected[0].Confirmed || detected[0].Confidence != 80 || detected[0].TrendContext != TrendUnknown {
		t.Errorf("input slice was mutated: %+v", detected[0])
	}
}

func TestValidateConfirmsReversalInDowntrend(t *testing.T) {
	// Steep fall puts the price well below the 20-bar mean with negative slope.
	bars := trendSeries(40, 200, -2, 1000)
	bars[30].Volume = 2000 // above 1.2x the 20-bar average
	detected := []Pattern{{Name: "Hammer", Category: CategoryReversalBullish, Confidence: 80, BarIndex: 30}}

	out := Validate(bars, detected)
	if out[0].TrendContext != TrendDown {
		t.Fatalf("expected downtrend, got %q", out[0].TrendContext)
	}
	if !out[0].Confirmed {
		t.Error("bullish reversal in a downtrend with volume should confirm")
	}
	if out[0].Confidence != 90 {
		t.Errorf("expected confidence 80+10, got %v", out[0].Confidence)
	}
}

func TestValidateConfidenceCappedAt100(t *testing.T) {
	bars := trendSeries(40, 200, -2, 1000)
	bars[30].Volume = 2000
	detected := []Pattern{{Name: "Morning Star", Category: CategoryReversalBullish, Confidence: 95, BarIndex: 30}}

	out := Validate(bars, detected)
	if !out[0].Confirmed {
		t.Fatal("expected confirmation")
	}
	if out[0].Confidence != 100 {
		t.Errorf("confidence must cap at 100, got %v", out[0].Confidence)
	}
}

func TestValidateWrongTrendRejects(t *testing.T) {
	// Bullish reversal during a strong uptrend has nothing to reverse.
	bars := trendSeries(40, 100, 2, 1000)
	bars[30].Volume = 2000
	detected := []Pattern{{Name: "Hammer", Category: CategoryReversalBullish, Confidence: 80, BarIndex: 30}}

	out := Validate(bars, detected)
	if out[0].TrendContext != TrendUp {
		t.Fatalf("expected uptrend, got %q", out[0].TrendContext)
	}
	if out[0].Confirmed {
		t.Error("bullish reversal in an uptrend must not confirm")
	}
	if out[0].Confidence != 80 {
		t.Errorf("confidence must be unchanged, got %v", out[0].Confidence)
	}
}

func TestValidateLowVolumeRejects(t *testing.T) {
	bars := trendSeries(40, 200, -2, 1000)
	// Pattern bar volume equals the average, below the 1.2x threshold.
	detected := []Pattern{{Name: "Hammer", Category: CategoryReversalBullish, Confidence: 80, BarIndex: 30}}

	out := Validate(bars, detected)
	if out[0].Confirmed {
		t.Error("average volume must not confirm")
	}
}

func TestValidateZeroVolumeNeverConfirms(t *testing.T) {
	bars := trendSeries(40, 200, -2, 0)
	detected := []Pattern{{Name: "Hammer", Category: CategoryReversalBullish, Confidence: 80, BarIndex: 30}}

	out := Validate(bars, detected)
	if out[0].Confirmed {
		t.Error("instruments without volume data must never confirm")
	}
}

func TestValidateNeutralAcceptsAnyTrend(t *testing.T) {
	for _, step := range []float64{2, -2, 0.001} {
		bars := trendSeries(40, 200, step, 1000)
		bars[30].Volume = 2000
		detected := []Pattern{{Name: "Doji", Category: CategoryNeutral, Confidence: 75, BarIndex: 30}}

		out := Validate(bars, detected)
		if !out[0].Confirmed {
			t.Errorf("neutral pattern with volume should confirm in %q", out[0].TrendContext)
		}
	}
}

func TestValidateSidewaysTrend(t *testing.T) {
	bars := trendSeries(40, 100, 0.001, 1000)
	detected := []Pattern{{Name: "Hammer", Category: CategoryReversalBullish, Confidence: 80, BarIndex: 30}}

	out := Validate(bars, detected)
	if out[0].TrendContext != TrendSideways {
		t.Errorf("near-flat series should classify sideways, got %q", out[0].TrendContext)
	}
}

func TestTrendAppropriateTable(t *testing.T) {
	cases := []struct {
		cat   Category
		trend TrendContext
		want  bool
	}{
		{CategoryReversalBullish, TrendDown, true},
		{CategoryReversalBullish, TrendUp, false},
		{CategoryReversalBearish, TrendUp, true},
		{CategoryReversalBearish, TrendDown, false},
		{CategoryBullish, TrendUp, true},
		{CategoryBullish, TrendDown, false},
		{CategoryBearish, TrendDown, true},
		{CategoryBearish, TrendUp, false},
		{CategoryNeutral, TrendSideways, true},
		{CategoryNeutral, TrendUp, true},
	}
	for _, c := range cases {
		if got := trendAppropriate(c.cat, c.trend); got != c.want {
			t.Errorf("trendAppropriate(%q, %q) = %v, want %v", c.cat, c.trend, got, c.want)
		}
	}
}

func TestRegressionSlope(t *testing.T) {
	if got := regressionSlope([]float64{1, 2, 3, 4, 5}); got != 1 {
		t.Errorf("expected slope 1, got %v", got)
	}
	if got := regressionSlope([]float64{5, 5, 5, 5}); got != 0 {
		t.Errorf("expected slope 0 on a flat series, got %v", got)
	}
	if got := regressionSlope([]float64{7}); got != 0 {
		t.Errorf("single value has no slope, got %v", got)
	}
}
