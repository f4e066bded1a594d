package similarity

import (
	"sort"
	"sync"

	"stock-pattern-api/internal/series"
)

// Match is one ranked historical window.
type Match struct {
	StartIndex    int                 `json:"start_idx"`
	StartDate     string              `json:"start_date"`
	EndDate       string              `json:"end_date"`
	Score         Score               `json:"mmps_components"`
	FutureReturns map[string]*float64 `json:"future_returns,omitempty"`
}

// SearchResult carries the ranked matches or the reason no search ran.
type SearchResult struct {
	Matches []Match
	Reason  string
}

const dateLayout = "2006-01-02"

// Search ranks every historical window of size `window` against the trailing
// query window of the same size. Candidate start indexes run over
// [0, N-2*window) so a candidate never overlaps the query. Candidates are
// scored independently on `workers` goroutines; results are merged into the
// same order a single-threaded scan would produce: descending final score,
// ties broken by ascending start index.
func Search(bars []series.Bar, window, topN, workers int) SearchResult {
	n := len(bars)
	if window <= 0 || n < 2*window {
		return SearchResult{Matches: []Match{}, Reason: "Not enough historical data"}
	}
	if workers < 1 {
		workers = 1
	}

	query := bars[n-window:]
	maxStart := n - 2*window
	matches := make([]Match, maxStart)

	var wg sync.WaitGroup
	starts := make(chan int, maxStart)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range starts {
				candidate := bars[i : i+window]
				matches[i] = Match{
					StartIndex: i,
					StartDate:  bars[i].Date.Format(dateLayout),
					EndDate:    bars[i+window-1].Date.Format(dateLayout),
					Score:      MMPS(query, candidate),
				}
			}
		}()
	}
	for i := 0; i < maxStart; i++ {
		starts <- i
	}
	close(starts)
	wg.Wait()

	// matches is already in ascending start order, so a stable sort keeps
	// the scan-order tie-break regardless of worker scheduling.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score.Final > matches[j].Score.Final
	})

	if topN > 0 && len(matches) > topN {
		matches = matches[:topN]
	}
	return SearchResult{Matches: matches}
}
