package patterns

import (
	"testing"
	"time"

	"stock-pattern-api/internal/series"
)

// closesSeries builds bars from explicit closes with a small synthetic range.
func closesSeries(closes ...float64) []series.Bar {
	out := make([]series.Bar, len(closes))
	date := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		out[i] = series.Bar{
			Date:   date.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return out
}

func TestStatisticsForwardReturns(t *testing.T) {
	// Occurrence at index 2, close 100; index 3 is 110, index 5 is 90.
	bars := closesSeries(100, 100, 100, 110, 105, 90, 95, 100, 100, 100, 100, 100, 100)
	detected := []Pattern{{Name: "Doji", BarIndex: 2}}

	stats := Statistics(bars, detected)
	table, ok := stats["Doji"]
	if !ok {
		t.Fatal("expected a Doji table")
	}

	d1 := table["1d"]
	if d1 == nil {
		t.Fatal("expected a 1d statistic")
	}
	if d1.Count != 1 {
		t.Errorf("expected one sample, got %d", d1.Count)
	}
	if d1.Mean != 10 {
		t.Errorf("expected +10%% return at 1d, got %v", d1.Mean)
	}
	if d1.SuccessRate != 100 {
		t.Errorf("expected 100%% success at 1d, got %v", d1.SuccessRate)
	}

	d3 := table["3d"]
	if d3 == nil {
		t.Fatal("expected a 3d statistic")
	}
	if d3.Mean != -10 {
		t.Errorf("expected -10%% return at 3d, got %v", d3.Mean)
	}
	if d3.SuccessRate != 0 {
		t.Errorf("expected 0%% success at 3d, got %v", d3.SuccessRate)
	}
	if d3.AvgLoss != -10 {
		t.Errorf("expected avg loss -10, got %v", d3.AvgLoss)
	}
	if d3.AvgGain != 0 {
		t.Errorf("loss-only horizon should keep zero avg gain, got %v", d3.AvgGain)
	}
}

func TestStatisticsHorizonPastSeriesEndIsNil(t *testing.T) {
	bars := closesSeries(100, 100, 100, 101, 102, 103)
	detected := []Pattern{{Name: "Hammer", BarIndex: 2}}

	stats := Statistics(bars, detected)
	table := stats["Hammer"]
	if table["1d"] == nil || table["3d"] == nil {
		t.Error("short horizons should have samples")
	}
	if table["5d"] != nil {
		t.Error("5d runs past the series end and must be nil")
	}
	if table["10d"] != nil {
		t.Error("10d runs past the series end and must be nil")
	}
}

func TestStatisticsSuccessRateMixedOutcomes(t *testing.T) {
	// Two occurrences at the same close; 1d outcomes +5% and -5%.
	bars := closesSeries(100, 100, 100, 105, 100, 95, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100)
	detected := []Pattern{
		{Name: "Doji", BarIndex: 2},
		{Name: "Doji", BarIndex: 4},
	}

	table := Statistics(bars, detected)["Doji"]
	d1 := table["1d"]
	if d1.Count != 2 {
		t.Fatalf("expected two samples, got %d", d1.Count)
	}
	if d1.SuccessRate != 50 {
		t.Errorf("expected 50%% success, got %v", d1.SuccessRate)
	}
	if d1.Mean != 0 {
		t.Errorf("expected mean 0, got %v", d1.Mean)
	}
	if d1.AvgGain != 5 {
		t.Errorf("expected avg gain 5, got %v", d1.AvgGain)
	}
	if d1.AvgLoss != -5 {
		t.Errorf("expected avg loss -5, got %v", d1.AvgLoss)
	}
}

func TestSummarize(t *testing.T) {
	validated := []Pattern{
		{Category: CategoryBullish, Confirmed: true},
		{Category: CategoryReversalBullish},
		{Category: CategoryBearish},
		{Category: CategoryReversalBearish, Confirmed: true},
		{Category: CategoryNeutral},
	}

	s := Summarize(validated)
	if s.TotalDetected != 5 {
		t.Errorf("expected 5 total, got %d", s.TotalDetected)
	}
	if s.Bullish != 2 {
		t.Errorf("reversal_bullish counts as bullish, expected 2, got %d", s.Bullish)
	}
	if s.Bearish != 2 {
		t.Errorf("reversal_bearish counts as bearish, expected 2, got %d", s.Bearish)
	}
	if s.Confirmed != 2 {
		t.Errorf("expected 2 confirmed, got %d", s.Confirmed)
	}
}

func TestRecent(t *testing.T) {
	validated := []Pattern{
		{Name: "old", BarIndex: 10},
		{Name: "edge", BarIndex: 70},
		{Name: "new", BarIndex: 99},
	}

	recent := Recent(validated, 100, 30)
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent patterns, got %d", len(recent))
	}
	if recent[0].Name != "edge" || recent[1].Name != "new" {
		t.Errorf("unexpected recent set: %+v", recent)
	}
}

func TestHorizonKey(t *testing.T) {
	for _, h := range Horizons {
		if HorizonKey(h) == "" {
			t.Errorf("horizon %d has no key", h)
		}
	}
	if HorizonKey(4) != "" {
		t.Error("unlisted horizon should map to an empty key")
	}
}

func TestMedianEvenCount(t *testing.T) {
	if got := median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Errorf("expected median 2.5, got %v", got)
	}
	if got := median([]float64{3, 1, 2}); got != 2 {
		t.Errorf("expected median 2, got %v", got)
	}
}
