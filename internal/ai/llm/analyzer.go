package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"stock-pattern-api/internal/analysis"
	"stock-pattern-api/internal/series"
)

// Analyzer turns analysis results into natural-language commentary. A
// missing or failing provider degrades to empty commentary plus an error
// string; it never fails the analysis request.
type Analyzer struct {
	client *Client
	logger zerolog.Logger
}

// NewAnalyzer creates an analyzer over the given client.
func NewAnalyzer(client *Client, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		client: client,
		logger: logger.With().Str("component", "llm").Logger(),
	}
}

// IsConfigured reports whether commentary can be generated.
func (a *Analyzer) IsConfigured() bool {
	return a.client != nil && a.client.IsConfigured()
}

// GenerateReport produces the full analysis report for a symbol.
func (a *Analyzer) GenerateReport(ctx context.Context, symbol string, indicators series.IndicatorSnapshot, result analysis.SimilarityResult) (string, error) {
	if !a.IsConfigured() {
		return "", fmt.Errorf("AI not configured")
	}

	prompt := BuildReportPrompt(BuildReportContext(symbol, indicators, result))
	report, err := a.client.Complete(ctx, SystemPromptPatternAnalyst, prompt)
	if err != nil {
		a.logger.Warn().Err(err).Str("symbol", symbol).Msg("report generation failed")
		return "", fmt.Errorf("AI invocation failed: %w", err)
	}
	return report, nil
}

// MatchInsight produces a short commentary for one ranked match. Failures
// collapse to a placeholder string so the match list stays complete.
func (a *Analyzer) MatchInsight(ctx context.Context, symbol string, m analysis.RankedMatch) string {
	if !a.IsConfigured() {
		return "AI analysis unavailable - credentials not configured."
	}

	insight, err := a.client.Complete(ctx, SystemPromptPatternAnalyst, BuildMatchPrompt(symbol, m.Rank, m))
	if err != nil {
		a.logger.Warn().Err(err).Str("symbol", symbol).Int("rank", m.Rank).Msg("match insight failed")
		return fmt.Sprintf("Analysis unavailable for this match: %v", err)
	}
	return insight
}
