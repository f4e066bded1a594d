package marketdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientGetHistory(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/history" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("symbol") != "TCS.NS" {
			t.Errorf("unexpected symbol %q", r.URL.Query().Get("symbol"))
		}
		w.Header().Set("Content-Type", "application/json")
		// Out of order on purpose; the client must sort ascending.
		w.Write([]byte(`{"data":[
			{"date":"2024-01-03","open":101,"high":103,"low":100,"close":102,"volume":1200},
			{"date":"2024-01-02","open":100,"high":102,"low":99,"close":101,"volume":1000}
		]}`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, 5*time.Second, 0)
	bars, err := c.GetHistory(context.Background(), "TCS.NS", "6mo", "1d")
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if !bars[0].Date.Before(bars[1].Date) {
		t.Error("bars must be sorted ascending by date")
	}
	if bars[0].Close != 101 || bars[1].Close != 102 {
		t.Errorf("unexpected closes: %v, %v", bars[0].Close, bars[1].Close)
	}
}

func TestClientEmptyDataIsErrNoData(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, 5*time.Second, 0)
	_, err := c.GetHistory(context.Background(), "NOPE", "6mo", "1d")
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestClientUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, 5*time.Second, 0)
	if _, err := c.GetHistory(context.Background(), "TCS.NS", "6mo", "1d"); err == nil {
		t.Error("expected an error on a non-200 response")
	}
}

func TestParseDateFormats(t *testing.T) {
	for _, s := range []string{"2024-01-02", "2024-01-02T00:00:00Z", "2024-01-02T15:30:00"} {
		if _, err := parseDate(s); err != nil {
			t.Errorf("parseDate(%q): %v", s, err)
		}
	}
	if _, err := parseDate("02/01/2024"); err == nil {
		t.Error("expected an error for an unrecognized format")
	}
}

func TestMockClientDeterministic(t *testing.T) {
	m := &MockClient{}

	a, err := m.GetHistory(context.Background(), "TCS.NS", "6mo", "1d")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := m.GetHistory(context.Background(), "TCS.NS", "6mo", "1d")
	if len(a) != 250 {
		t.Fatalf("expected default 250 bars, got %d", len(a))
	}
	for i := range a {
		if a[i].Close != b[i].Close {
			t.Fatalf("bar %d differs between identical calls", i)
		}
	}

	other, _ := m.GetHistory(context.Background(), "INFY.NS", "6mo", "1d")
	if a[0].Open == other[0].Open {
		t.Error("distinct symbols should start from different price levels")
	}

	for i, bar := range a {
		if bar.High < bar.Open || bar.High < bar.Close {
			t.Errorf("bar %d: high below body", i)
		}
		if bar.Low > bar.Open || bar.Low > bar.Close {
			t.Errorf("bar %d: low above body", i)
		}
	}
}
