package series

import (
	"math"
	"testing"
	"time"
)

func bar(open, high, low, close, volume float64) Bar {
	return Bar{
		Date:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: volume,
	}
}

func TestMetricsBullishBar(t *testing.T) {
	m := Metrics(bar(100, 112, 98, 110, 1000))

	if !m.IsBullish {
		t.Error("expected bullish bar")
	}
	if m.Body != 10 {
		t.Errorf("expected body 10, got %v", m.Body)
	}
	if m.Range != 14 {
		t.Errorf("expected range 14, got %v", m.Range)
	}
	if m.UpperShadow != 2 {
		t.Errorf("expected upper shadow 2, got %v", m.UpperShadow)
	}
	if m.LowerShadow != 2 {
		t.Errorf("expected lower shadow 2, got %v", m.LowerShadow)
	}
	if math.Abs(m.BodyRatio-10.0/14.0) > 1e-6 {
		t.Errorf("expected body ratio ~0.714, got %v", m.BodyRatio)
	}
}

func TestMetricsBearishBar(t *testing.T) {
	m := Metrics(bar(110, 112, 98, 100, 1000))

	if m.IsBullish {
		t.Error("expected bearish bar")
	}
	if m.Body != 10 {
		t.Errorf("expected body 10, got %v", m.Body)
	}
	if m.UpperShadow != 2 {
		t.Errorf("expected upper shadow 2, got %v", m.UpperShadow)
	}
	if m.LowerShadow != 2 {
		t.Errorf("expected lower shadow 2, got %v", m.LowerShadow)
	}
}

func TestMetricsZeroRangeBar(t *testing.T) {
	m := Metrics(bar(100, 100, 100, 100, 0))

	if m.Body != 0 || m.Range != 0 {
		t.Errorf("expected zero body and range, got %v and %v", m.Body, m.Range)
	}
	if m.BodyRatio != 0 {
		t.Errorf("expected zero body ratio on flat bar, got %v", m.BodyRatio)
	}
}

func TestNormalize(t *testing.T) {
	out := Normalize([]float64{10, 15, 20})

	want := []float64{0, 0.5, 1}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-9 {
			t.Errorf("index %d: expected %v, got %v", i, want[i], out[i])
		}
	}
}

func TestNormalizeFlatWindow(t *testing.T) {
	out := Normalize([]float64{5, 5, 5, 5})

	for i, v := range out {
		if v != 0 {
			t.Errorf("index %d: flat window should normalize to 0, got %v", i, v)
		}
	}
}

func TestRSIBounds(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/4)
	}

	rsi := RSI(closes, 14)
	if len(rsi) != len(closes) {
		t.Fatalf("expected %d RSI values, got %d", len(closes), len(rsi))
	}
	for i, v := range rsi {
		if v < 0 || v > 100 {
			t.Errorf("index %d: RSI %v out of [0,100]", i, v)
		}
	}
}

func TestRSILeadingValuesNeutral(t *testing.T) {
	closes := []float64{100, 101, 102, 103, 104}

	rsi := RSI(closes, 14)
	for i, v := range rsi {
		if v != 50 {
			t.Errorf("index %d: expected neutral 50 without enough history, got %v", i, v)
		}
	}
}

func TestRSIAllGains(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	rsi := RSI(closes, 14)
	last := rsi[len(rsi)-1]
	if last < 99 {
		t.Errorf("monotonic gains should drive RSI toward 100, got %v", last)
	}
}

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}

	if got := SMA(values, 3); got != 5 {
		t.Errorf("expected trailing SMA 5, got %v", got)
	}
	if got := SMA(values, 10); got != 3.5 {
		t.Errorf("short series should average everything, expected 3.5, got %v", got)
	}
}

func TestAnnualizedVolatilityConstantSeries(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
	}

	if got := AnnualizedVolatility(closes, 20); got != 0 {
		t.Errorf("constant series should have zero volatility, got %v", got)
	}
}

func TestIndicatorsSnapshot(t *testing.T) {
	bars := make([]Bar, 60)
	for i := range bars {
		price := 100 + float64(i)*0.5
		bars[i] = bar(price-0.2, price+0.5, price-0.5, price, 1000)
	}

	snap := Indicators(bars)
	if snap.CurrentPrice != bars[len(bars)-1].Close {
		t.Errorf("expected current price %v, got %v", bars[len(bars)-1].Close, snap.CurrentPrice)
	}
	if snap.SMA20 <= 0 || snap.SMA50 <= 0 {
		t.Errorf("expected positive SMAs, got %v and %v", snap.SMA20, snap.SMA50)
	}
	if snap.SMA20 <= snap.SMA50 {
		t.Errorf("rising series should have SMA20 > SMA50, got %v vs %v", snap.SMA20, snap.SMA50)
	}
	if snap.RSI14 < 50 {
		t.Errorf("rising series should have RSI above neutral, got %v", snap.RSI14)
	}
	if snap.Change1D <= 0 {
		t.Errorf("expected positive one-day change, got %v", snap.Change1D)
	}
}

func TestClosesAndVolumes(t *testing.T) {
	bars := []Bar{bar(1, 2, 0.5, 1.5, 100), bar(1.5, 3, 1, 2.5, 200)}

	closes := Closes(bars)
	if closes[0] != 1.5 || closes[1] != 2.5 {
		t.Errorf("unexpected closes %v", closes)
	}
	volumes := Volumes(bars)
	if volumes[0] != 100 || volumes[1] != 200 {
		t.Errorf("unexpected volumes %v", volumes)
	}
}
