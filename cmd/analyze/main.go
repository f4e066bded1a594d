// Command analyze runs the pattern analysis pipeline once against a symbol
// and prints the result as JSON. Useful for scripting and for inspecting the
// engine without running the API server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"stock-pattern-api/internal/analysis"
	"stock-pattern-api/internal/marketdata"
	"stock-pattern-api/internal/series"
)

func main() {
	var (
		symbol   = flag.String("symbol", "AAPL", "stock symbol")
		period   = flag.String("period", "6mo", "history period")
		lookback = flag.Int("lookback", 30, "pattern length in days (5-90)")
		topN     = flag.Int("top-n", 5, "number of matches (1-20)")
		apiURL   = flag.String("api-url", "", "price history API base URL (empty uses synthetic data)")
		workers  = flag.Int("workers", 0, "search goroutines (0 = number of CPUs)")
	)
	flag.Parse()

	if *lookback < 5 || *lookback > 90 {
		fmt.Fprintln(os.Stderr, "lookback must be between 5 and 90 days")
		os.Exit(1)
	}
	if *topN < 1 || *topN > 20 {
		fmt.Fprintln(os.Stderr, "top-n must be between 1 and 20")
		os.Exit(1)
	}

	var provider marketdata.Provider
	if *apiURL == "" {
		provider = &marketdata.MockClient{}
	} else {
		provider = marketdata.NewClient(*apiURL, 30*time.Second, 60)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	bars, err := provider.GetHistory(ctx, *symbol, *period, "1d")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to fetch history for %s: %v\n", *symbol, err)
		os.Exit(1)
	}

	engine := analysis.NewEngine(analysis.Config{Workers: *workers}, zerolog.Nop())

	out := map[string]any{
		"symbol":        *symbol,
		"period":        *period,
		"lookback_days": *lookback,
		"bars":          len(bars),
		"indicators":    series.Indicators(bars),
		"similarity":    engine.FindSimilar(bars, *lookback, *topN),
		"candlesticks":  engine.AnalyzeCandlesticks(bars),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode result: %v\n", err)
		os.Exit(1)
	}
}
