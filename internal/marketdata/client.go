package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"stock-pattern-api/internal/series"
)

// Client fetches history from the external stock data API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a market data client. requestsPerMinute bounds the
// upstream call rate; values below 1 disable limiting.
func NewClient(baseURL string, timeout time.Duration, requestsPerMinute int) *Client {
	var limiter *rate.Limiter
	if requestsPerMinute > 0 {
		burst := requestsPerMinute / 10
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), burst)
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

// historyResponse is the upstream payload shape.
type historyResponse struct {
	Data []struct {
		Date   string  `json:"date"`
		Open   float64 `json:"open"`
		High   float64 `json:"high"`
		Low    float64 `json:"low"`
		Close  float64 `json:"close"`
		Volume float64 `json:"volume"`
	} `json:"data"`
}

// GetHistory fetches the daily series for a symbol and returns it sorted
// ascending by date.
func (c *Client) GetHistory(ctx context.Context, symbol, period, interval string) ([]series.Bar, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("period", period)
	params.Set("interval", interval)
	endpoint := fmt.Sprintf("%s/history?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("history API returned %d: %s", resp.StatusCode, string(body))
	}

	var payload historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode history response: %w", err)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}

	bars := make([]series.Bar, 0, len(payload.Data))
	for _, row := range payload.Data {
		date, err := parseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date %q: %w", row.Date, err)
		}
		bars = append(bars, series.Bar{
			Date:   date,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// parseDate accepts ISO-8601 dates with or without a time component.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}
