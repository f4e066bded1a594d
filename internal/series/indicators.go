package series

import "math"

// Normalize min-max scales a window of prices to [0,1]. A flat window (max
// equals min) normalizes to all zeros rather than dividing by zero.
func Normalize(values []float64) []float64 {
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
	if maxV == minV {
		return out
	}
	for i, v := range values {
		out[i] = (v - minV) / (maxV - minV)
	}
	return out
}

// RSI computes the Wilder-style relative strength index over closes.
// Gains and losses are rolling means over `period` deltas with a full
// `period` of observations required; leading values without enough history
// default to the neutral 50 instead of being dropped.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	for i := range out {
		out[i] = 50
	}
	if n < 2 || period <= 0 {
		return out
	}

	gains := make([]float64, n-1)
	losses := make([]float64, n-1)
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i-1] = delta
		} else {
			losses[i-1] = -delta
		}
	}

	for i := period; i < n; i++ {
		var gainSum, lossSum float64
		for j := i - period; j < i; j++ {
			gainSum += gains[j]
			lossSum += losses[j]
		}
		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)
		rs := avgGain / (avgLoss + 1e-10)
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// SMA returns the simple moving average of the trailing `period` values,
// or the mean of everything available when the series is shorter.
func SMA(values []float64, period int) float64 {
	if len(values) == 0 {
		return 0
	}
	if period > len(values) {
		period = len(values)
	}
	var sum float64
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// AnnualizedVolatility returns the standard deviation of the trailing
// `period` daily percent changes, annualized over 252 trading days, as a
// percentage.
func AnnualizedVolatility(closes []float64, period int) float64 {
	if len(closes) < 2 {
		return 0
	}
	changes := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			changes = append(changes, (closes[i]-closes[i-1])/closes[i-1])
		}
	}
	if len(changes) > period {
		changes = changes[len(changes)-period:]
	}
	if len(changes) == 0 {
		return 0
	}
	return sampleStdDev(changes) * math.Sqrt(252) * 100
}

func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
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
	return math.Sqrt(sq / float64(len(values)-1))
}

// IndicatorSnapshot summarizes the technical state of the latest bar.
type IndicatorSnapshot struct {
	CurrentPrice float64 `json:"current_price"`
	SMA20        float64 `json:"sma_20"`
	SMA50        float64 `json:"sma_50"`
	RSI14        float64 `json:"rsi_14"`
	Change1D     float64 `json:"change_1d"`
	Volatility   float64 `json:"volatility"`
	VolumeRatio  float64 `json:"volume_ratio"`
}

// Indicators computes the snapshot over the full series.
func Indicators(bars []Bar) IndicatorSnapshot {
	if len(bars) == 0 {
		return IndicatorSnapshot{}
	}
	closes := Closes(bars)
	volumes := Volumes(bars)

	snap := IndicatorSnapshot{
		CurrentPrice: closes[len(closes)-1],
		SMA20:        SMA(closes, 20),
		SMA50:        SMA(closes, 50),
		VolumeRatio:  1,
	}

	rsi := RSI(closes, 14)
	snap.RSI14 = rsi[len(rsi)-1]

	if len(closes) >= 2 && closes[len(closes)-2] != 0 {
		prev := closes[len(closes)-2]
		snap.Change1D = (closes[len(closes)-1] - prev) / prev * 100
	}
	if len(bars) >= 20 {
		snap.Volatility = AnnualizedVolatility(closes, 20)
		avgVol := SMA(volumes, 20)
		if avgVol > 0 {
			snap.VolumeRatio = volumes[len(volumes)-1] / avgVol
		}
	}
	return snap
}
