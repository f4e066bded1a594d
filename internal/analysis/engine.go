// Package analysis orchestrates the similarity search and the candlestick
// subsystem over one immutable price series and shapes their results for
// the API layer.
package analysis

import (
	"fmt"
	"math"
	"runtime"

	"github.com/rs/zerolog"

	"stock-pattern-api/internal/patterns"
	"stock-pattern-api/internal/series"
	"stock-pattern-api/internal/similarity"
)

// minHistoryPad is the history required beyond the lookback window before a
// similarity search is attempted at all.
const minHistoryPad = 40

// recentWindow bounds the "recent patterns" subset of candlestick results.
const recentWindow = 30

// Config holds engine tuning.
type Config struct {
	Workers int // goroutines for the sliding-window search
}

// Engine runs the pattern analyses. It is stateless and safe for
// concurrent use.
type Engine struct {
	workers int
	logger  zerolog.Logger
}

// NewEngine creates an analysis engine. A non-positive worker count
// defaults to the number of CPUs.
func NewEngine(cfg Config, logger zerolog.Logger) *Engine {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{workers: workers, logger: logger.With().Str("component", "analysis").Logger()}
}

// SignalAnalysis is the overall trading signal derived from match quality.
type SignalAnalysis struct {
	Signal         string  `json:"signal"`
	Confidence     float64 `json:"confidence"`
	MeanSimilarity float64 `json:"mean_similarity"`
	Reason         string  `json:"reason"`
}

// RankedMatch is one similarity match shaped for the API response.
type RankedMatch struct {
	Rank          int                 `json:"rank"`
	Score         float64             `json:"score"`
	StartIndex    int                 `json:"start_idx"`
	StartDate     string              `json:"start_date"`
	EndDate       string              `json:"end_date"`
	Components    similarity.Score    `json:"mmps_components"`
	FutureReturns map[string]*float64 `json:"future_returns"`
	AIInsight     string              `json:"ai_insight,omitempty"`
}

// SimilarityResult is the full output of the similarity subsystem.
type SimilarityResult struct {
	Matches     []RankedMatch         `json:"matches"`
	Predictions map[string]Prediction `json:"predictions"`
	Analysis    SignalAnalysis        `json:"analysis"`
}

// FindSimilar runs the sliding-window search over the series with the
// trailing `lookback` bars as the query, attaches forward returns to each
// match, aggregates predictions, and derives the overall signal. Thin
// history produces a structured neutral result, never an error.
func (e *Engine) FindSimilar(bars []series.Bar, lookback, topN int) SimilarityResult {
	if len(bars) < lookback+minHistoryPad {
		return emptySimilarityResult("Not enough historical data")
	}

	res := similarity.Search(bars, lookback, topN, e.workers)
	if res.Reason != "" {
		return emptySimilarityResult(res.Reason)
	}
	if len(res.Matches) == 0 {
		return emptySimilarityResult("No patterns found")
	}

	ranked := make([]RankedMatch, len(res.Matches))
	returns := make([]map[string]*float64, len(res.Matches))
	for i, m := range res.Matches {
		fr := FutureReturns(bars, m.StartIndex, lookback)
		returns[i] = fr
		ranked[i] = RankedMatch{
			Rank:          i + 1,
			Score:         m.Score.Final,
			StartIndex:    m.StartIndex,
			StartDate:     m.StartDate,
			EndDate:       m.EndDate,
			Components:    m.Score,
			FutureReturns: fr,
		}
	}

	result := SimilarityResult{
		Matches:     ranked,
		Predictions: aggregatePredictions(returns),
		Analysis:    deriveSignal(ranked),
	}
	e.logger.Debug().
		Int("matches", len(ranked)).
		Str("signal", result.Analysis.Signal).
		Msg("similarity search complete")
	return result
}

func emptySimilarityResult(reason string) SimilarityResult {
	return SimilarityResult{
		Matches:     []RankedMatch{},
		Predictions: map[string]Prediction{},
		Analysis: SignalAnalysis{
			Signal: "NEUTRAL",
			Reason: reason,
		},
	}
}

// deriveSignal maps the mean fused score across matches onto a coarse
// BUY / HOLD / NEUTRAL signal.
func deriveSignal(matches []RankedMatch) SignalAnalysis {
	var sum float64
	for _, m := range matches {
		sum += m.Score
	}
	avg := sum / float64(len(matches))

	signal, confidence := "NEUTRAL", 45.0
	if avg > 75 {
		signal, confidence = "BUY", 75
	} else if avg > 65 {
		signal, confidence = "HOLD", 60
	}

	return SignalAnalysis{
		Signal:         signal,
		Confidence:     confidence,
		MeanSimilarity: math.Round(avg*10) / 10,
		Reason:         fmt.Sprintf("Based on %d patterns with avg similarity %.1f%%", len(matches), avg),
	}
}

// CandlestickResult is the full output of the candlestick subsystem.
type CandlestickResult struct {
	Patterns   []patterns.Pattern                      `json:"patterns"`
	Recent     []patterns.Pattern                      `json:"recent"`
	Statistics map[string]map[string]*patterns.Statistic `json:"statistics"`
	Summary    patterns.Summary                        `json:"summary"`
}

// AnalyzeCandlesticks detects, validates and grades candlestick patterns
// over the series.
func (e *Engine) AnalyzeCandlesticks(bars []series.Bar) CandlestickResult {
	detected := patterns.Detect(bars)
	validated := patterns.Validate(bars, detected)

	result := CandlestickResult{
		Patterns:   validated,
		Recent:     patterns.Recent(validated, len(bars), recentWindow),
		Statistics: patterns.Statistics(bars, validated),
		Summary:    patterns.Summarize(validated),
	}
	e.logger.Debug().
		Int("detected", len(validated)).
		Int("confirmed", result.Summary.Confirmed).
		Msg("candlestick analysis complete")
	return result
}
