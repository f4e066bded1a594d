package llm

import (
	"fmt"
	"strings"

	"stock-pattern-api/internal/analysis"
	"stock-pattern-api/internal/series"
)

// SystemPromptPatternAnalyst frames the model as a technical analyst
// producing structured prose, not trade execution advice.
const SystemPromptPatternAnalyst = `You are an expert technical analyst with 20+ years of experience in pattern recognition.
Your task is to analyze stock patterns and provide actionable insights in a structured format.
Be specific with numbers and provide clear recommendations.`

// BuildReportContext renders the analysis results as plain-text context for
// the report prompt.
func BuildReportContext(symbol string, indicators series.IndicatorSnapshot, result analysis.SimilarityResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== STOCK ANALYSIS FOR %s ===\n\n", symbol)
	fmt.Fprintf(&b, "Current Price: $%.2f\n", indicators.CurrentPrice)
	fmt.Fprintf(&b, "RSI(14): %.1f\n", indicators.RSI14)
	fmt.Fprintf(&b, "1-Day Change: %+.2f%%\n", indicators.Change1D)
	fmt.Fprintf(&b, "Volatility: %.1f%%\n\n", indicators.Volatility)

	if len(result.Matches) > 0 {
		b.WriteString("=== PATTERN MATCHING RESULTS ===\n")
		fmt.Fprintf(&b, "Total Patterns Found: %d\n", len(result.Matches))
		limit := len(result.Matches)
		if limit > 3 {
			limit = 3
		}
		for i := 0; i < limit; i++ {
			m := result.Matches[i]
			fmt.Fprintf(&b, "\nMatch #%d: %s to %s\n", i+1, m.StartDate, m.EndDate)
			fmt.Fprintf(&b, "Similarity: %.1f%%\n", m.Score)
			fmt.Fprintf(&b, "  - Shape: %.1f%%\n", m.Components.Shape)
			fmt.Fprintf(&b, "  - Trend: %.1f%%\n", m.Components.Trend)
			fmt.Fprintf(&b, "  - Structure: %.1f%%\n", m.Components.Structure)
		}
	}

	b.WriteString("\n=== ALGORITHMIC SIGNAL ===\n")
	fmt.Fprintf(&b, "Signal: %s\n", result.Analysis.Signal)
	fmt.Fprintf(&b, "Confidence: %.1f%%\n", result.Analysis.Confidence)
	fmt.Fprintf(&b, "Reason: %s\n", result.Analysis.Reason)

	return b.String()
}

// BuildReportPrompt wraps the context with the full-report instructions.
func BuildReportPrompt(context string) string {
	return fmt.Sprintf(`Analyze this stock pattern data:

%s

Provide a comprehensive analysis with:

1. **PATTERN IDENTIFICATION**
   - Technical pattern name (e.g., Head and Shoulders, Double Bottom, etc.)
   - Pattern quality/confidence (High/Medium/Low)

2. **STATISTICAL ANALYSIS**
   - Risk/Reward assessment based on the patterns
   - Win probability estimate

3. **RECOMMENDATION**
   - Clear BUY/SELL/HOLD signal with rationale
   - Entry/Exit strategy suggestions
   - Stop-loss recommendation (specific price levels if possible)

4. **KEY INSIGHTS**
   - Top 3 most important factors to consider
   - Main risk warnings

Keep the analysis concise, specific, and actionable.`, context)
}

// BuildMatchPrompt asks for a short read on one ranked match.
func BuildMatchPrompt(symbol string, rank int, m analysis.RankedMatch) string {
	return fmt.Sprintf(`Analyze this specific pattern match:

Match #%d for %s
- Date Range: %s to %s
- Similarity Score: %.1f%%

Pattern Components:
- Shape Similarity: %.1f%%
- Trend Similarity: %.1f%%
- Structure Similarity: %.1f%%
- DTW Score: %.1f%%

Provide a brief 2-3 sentence analysis of what this pattern match suggests for future price movement.`,
		rank, symbol, m.StartDate, m.EndDate, m.Score,
		m.Components.Shape, m.Components.Trend, m.Components.Structure, m.Components.DTW)
}
