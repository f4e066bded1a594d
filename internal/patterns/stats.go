package patterns

import (
	"math"
	"sort"

	"stock-pattern-api/internal/series"
)

// Horizons are the forward look-ahead distances, in trading days, used for
// outcome statistics. Keys in result maps use the "<n>d" form.
var Horizons = []int{1, 3, 5, 7, 10}

// HorizonKey formats a horizon for use as a map key ("1d", "3d", ...).
func HorizonKey(days int) string {
	switch days {
	case 1:
		return "1d"
	case 3:
		return "3d"
	case 5:
		return "5d"
	case 7:
		return "7d"
	case 10:
		return "10d"
	default:
		return ""
	}
}

// Statistic summarizes the forward returns of one pattern name at one
// horizon. A horizon with no qualifying samples is represented by a nil
// entry in the statistics table, never a zero-valued row.
type Statistic struct {
	Count       int     `json:"count"`
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	SuccessRate float64 `json:"success_rate"`
	AvgGain     float64 `json:"avg_gain"`
	AvgLoss     float64 `json:"avg_loss"`
}

// Statistics aggregates forward returns per pattern name and horizon,
// anchored at each occurrence's own bar index. Occurrences whose horizon
// extends past the end of the series contribute no sample.
func Statistics(bars []series.Bar, detected []Pattern) map[string]map[string]*Statistic {
	closes := series.Closes(bars)

	byName := make(map[string][]int)
	for _, p := range detected {
		byName[p.Name] = append(byName[p.Name], p.BarIndex)
	}

	out := make(map[string]map[string]*Statistic, len(byName))
	for name, indexes := range byName {
		table := make(map[string]*Statistic, len(Horizons))
		for _, h := range Horizons {
			var returns []float64
			for _, idx := range indexes {
				future := idx + h
				if future >= len(closes) || closes[idx] == 0 {
					continue
				}
				returns = append(returns, (closes[future]-closes[idx])/closes[idx]*100)
			}
			table[HorizonKey(h)] = summarize(returns)
		}
		out[name] = table
	}
	return out
}

func summarize(returns []float64) *Statistic {
	if len(returns) == 0 {
		return nil
	}
	var sum, gainSum, lossSum float64
	var positives, gains, losses int
	for _, r := range returns {
		sum += r
		if r > 0 {
			positives++
			gainSum += r
			gains++
		} else if r < 0 {
			lossSum += r
			losses++
		}
	}

	stat := &Statistic{
		Count:       len(returns),
		Mean:        round2(sum / float64(len(returns))),
		Median:      round2(median(returns)),
		SuccessRate: round1(float64(positives) / float64(len(returns)) * 100),
	}
	if gains > 0 {
		stat.AvgGain = round2(gainSum / float64(gains))
	}
	if losses > 0 {
		stat.AvgLoss = round2(lossSum / float64(losses))
	}
	return stat
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Summary counts the detected patterns by direction and confirmation.
type Summary struct {
	TotalDetected int `json:"total_detected"`
	Bullish       int `json:"bullish"`
	Bearish       int `json:"bearish"`
	Confirmed     int `json:"confirmed"`
}

// Summarize builds the headline counts over validated patterns. Reversal
// categories count toward their target direction.
func Summarize(validated []Pattern) Summary {
	s := Summary{TotalDetected: len(validated)}
	for _, p := range validated {
		switch p.Category {
		case CategoryBullish, CategoryReversalBullish:
			s.Bullish++
		case CategoryBearish, CategoryReversalBearish:
			s.Bearish++
		}
		if p.Confirmed {
			s.Confirmed++
		}
	}
	return s
}

// Recent filters patterns whose bar index falls within the trailing
// `window` bars of the series.
func Recent(validated []Pattern, seriesLen, window int) []Pattern {
	cutoff := seriesLen - window
	out := []Pattern{}
	for _, p := range validated {
		if p.BarIndex >= cutoff {
			out = append(out, p)
		}
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
