package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"stock-pattern-api/internal/marketdata"
	"stock-pattern-api/internal/series"
)

// Parameter bounds enforced at the request boundary.
const (
	minLookback = 5
	maxLookback = 90
	minTopN     = 1
	maxTopN     = 20
	chartTail   = 90
)

// handleAnalyze runs the full analysis pipeline for one symbol: indicators,
// similarity search with predictions, candlestick detection, and optional
// AI commentary.
func (s *Server) handleAnalyze(c *gin.Context) {
	symbol := strings.ToUpper(c.DefaultQuery("symbol", "AAPL"))
	period := c.DefaultQuery("period", "6mo")

	lookback, err := intQuery(c, "lookback", s.defaults.DefaultLookback)
	if err != nil || lookback < minLookback || lookback > maxLookback {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Lookback must be between %d and %d days", minLookback, maxLookback)})
		return
	}
	topN, err := intQuery(c, "top_n", s.defaults.DefaultTopN)
	if err != nil || topN < minTopN || topN > maxTopN {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("top_n must be between %d and %d", minTopN, maxTopN)})
		return
	}

	bars, err := s.provider.GetHistory(c.Request.Context(), symbol, period, "1d")
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, marketdata.ErrNoData) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": fmt.Sprintf("Failed to fetch data for %s", symbol)})
		return
	}

	indicators := series.Indicators(bars)
	simResult := s.engine.FindSimilar(bars, lookback, topN)
	candleResult := s.engine.AnalyzeCandlesticks(bars)

	// Attach AI commentary when configured; AI failures degrade to error
	// strings in the payload, never a failed request.
	var aiReport string
	var aiError *string
	aiConfigured := s.aiAnalyzer != nil && s.aiAnalyzer.IsConfigured()
	if aiConfigured {
		report, err := s.aiAnalyzer.GenerateReport(c.Request.Context(), symbol, indicators, simResult)
		if err != nil {
			msg := err.Error()
			aiError = &msg
		} else {
			aiReport = report
		}
		for i := range simResult.Matches {
			simResult.Matches[i].AIInsight = s.aiAnalyzer.MatchInsight(c.Request.Context(), symbol, simResult.Matches[i])
		}
	}

	var avgSimilarity float64
	if len(simResult.Matches) > 0 {
		for _, m := range simResult.Matches {
			avgSimilarity += m.Score
		}
		avgSimilarity /= float64(len(simResult.Matches))
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":        symbol,
		"period":        period,
		"lookback_days": lookback,
		"timestamp":     time.Now().Format(time.RFC3339),

		"indicators":  indicators,
		"analysis":    simResult.Analysis,
		"matches":     simResult.Matches,
		"predictions": simResult.Predictions,

		"candlesticks": candleResult,

		"chart": chartData(bars),

		"ai_report": aiReport,
		"ai_error":  aiError,

		"metadata": gin.H{
			"total_matches":  len(simResult.Matches),
			"avg_similarity": round2(avgSimilarity),
			"generated_at":   time.Now().Format(time.RFC3339),
			"ai_configured":  aiConfigured,
		},
	})
}

// handlePatterns runs the candlestick subsystem only.
func (s *Server) handlePatterns(c *gin.Context) {
	symbol := strings.ToUpper(c.DefaultQuery("symbol", "AAPL"))
	period := c.DefaultQuery("period", "6mo")

	bars, err := s.provider.GetHistory(c.Request.Context(), symbol, period, "1d")
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, marketdata.ErrNoData) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": fmt.Sprintf("Failed to fetch data for %s", symbol)})
		return
	}

	result := s.engine.AnalyzeCandlesticks(bars)
	c.JSON(http.StatusOK, gin.H{
		"symbol":       symbol,
		"period":       period,
		"timestamp":    time.Now().Format(time.RFC3339),
		"candlesticks": result,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (s *Server) handleDocs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "Stock Pattern Analysis API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"/api/v1/analyze": gin.H{
				"method": "GET",
				"parameters": gin.H{
					"symbol":   "Stock symbol (e.g., TCS.NS, AAPL)",
					"period":   "Time period (1mo, 3mo, 6mo, 1y, 2y, 5y, 10y)",
					"lookback": "Pattern length in days (5-90, default: 30)",
					"top_n":    "Number of matches (1-20, default: 5)",
				},
				"example": "/api/v1/analyze?symbol=TCS.NS&period=6mo&lookback=30&top_n=5",
			},
			"/api/v1/patterns": gin.H{
				"method": "GET",
				"parameters": gin.H{
					"symbol": "Stock symbol",
					"period": "Time period",
				},
			},
			"/health": gin.H{
				"method":      "GET",
				"description": "Health check endpoint",
			},
		},
	})
}

type chartPayload struct {
	Dates  []string  `json:"dates"`
	Prices []float64 `json:"prices"`
}

// chartData returns the trailing 90 bars shaped for the frontend chart.
func chartData(bars []series.Bar) chartPayload {
	start := 0
	if len(bars) > chartTail {
		start = len(bars) - chartTail
	}
	tail := bars[start:]
	out := chartPayload{
		Dates:  make([]string, len(tail)),
		Prices: make([]float64, len(tail)),
	}
	for i, b := range tail {
		out.Dates[i] = b.Date.Format("2006-01-02")
		out.Prices[i] = b.Close
	}
	return out
}

func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
