package similarity

import "math"

// defaultRadius bounds the warping window of the approximate DTW.
const defaultRadius = 1

type cell struct{ i, j int }

// fastDTW computes an approximate dynamic-time-warping distance between two
// 1-D sequences using recursive coarsening: solve the half-resolution
// problem, project its warp path back up, and run the exact DP restricted to
// a window of `radius` cells around that path. Sequences too short to coarsen
// are solved exactly.
func fastDTW(x, y []float64, radius int) float64 {
	dist, _ := fastDTWPath(x, y, radius)
	return dist
}

func fastDTWPath(x, y []float64, radius int) (float64, []cell) {
	minSize := radius + 2
	if len(x) <= minSize || len(y) <= minSize {
		return dtwWindowed(x, y, fullWindow(len(x), len(y)))
	}

	shrunkX := reduceByHalf(x)
	shrunkY := reduceByHalf(y)
	_, lowResPath := fastDTWPath(shrunkX, shrunkY, radius)
	window := expandedWindow(lowResPath, len(x), len(y), radius)
	return dtwWindowed(x, y, window)
}

// reduceByHalf averages adjacent pairs, dropping a trailing odd element into
// its own point.
func reduceByHalf(values []float64) []float64 {
	out := make([]float64, 0, (len(values)+1)/2)
	for i := 0; i+1 < len(values); i += 2 {
		out = append(out, (values[i]+values[i+1])/2)
	}
	if len(values)%2 == 1 {
		out = append(out, values[len(values)-1])
	}
	return out
}

func fullWindow(n, m int) map[cell]struct{} {
	window := make(map[cell]struct{}, n*m)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			window[cell{i, j}] = struct{}{}
		}
	}
	return window
}

// expandedWindow projects a half-resolution warp path onto the full
// resolution grid and dilates it by `radius` cells in every direction.
func expandedWindow(path []cell, n, m, radius int) map[cell]struct{} {
	window := make(map[cell]struct{})
	for _, p := range path {
		for di := -radius; di <= radius; di++ {
			for dj := -radius; dj <= radius; dj++ {
				// Each low-res cell covers a 2x2 block at full resolution.
				for _, c := range [4]cell{
					{2 * (p.i + di), 2 * (p.j + dj)},
					{2*(p.i+di) + 1, 2 * (p.j + dj)},
					{2 * (p.i + di), 2*(p.j+dj) + 1},
					{2*(p.i+di) + 1, 2*(p.j+dj) + 1},
				} {
					if c.i >= 0 && c.i < n && c.j >= 0 && c.j < m {
						window[c] = struct{}{}
					}
				}
			}
		}
	}
	return window
}

// dtwWindowed runs the exact DTW dynamic program restricted to the given
// window of admissible cells and backtracks the optimal warp path.
func dtwWindowed(x, y []float64, window map[cell]struct{}) (float64, []cell) {
	cost := make(map[cell]float64, len(window))
	get := func(c cell) float64 {
		if v, ok := cost[c]; ok {
			return v
		}
		return math.Inf(1)
	}

	for i := 0; i < len(x); i++ {
		for j := 0; j < len(y); j++ {
			c := cell{i, j}
			if _, ok := window[c]; !ok {
				continue
			}
			d := math.Abs(x[i] - y[j])
			switch {
			case i == 0 && j == 0:
				cost[c] = d
			default:
				best := math.Inf(1)
				if i > 0 {
					if v := get(cell{i - 1, j}); v < best {
						best = v
					}
				}
				if j > 0 {
					if v := get(cell{i, j - 1}); v < best {
						best = v
					}
				}
				if i > 0 && j > 0 {
					if v := get(cell{i - 1, j - 1}); v < best {
						best = v
					}
				}
				cost[c] = d + best
			}
		}
	}

	// Backtrack from the terminal cell, preferring the diagonal move.
	path := []cell{}
	c := cell{len(x) - 1, len(y) - 1}
	for {
		path = append(path, c)
		if c.i == 0 && c.j == 0 {
			break
		}
		next := cell{-1, -1}
		best := math.Inf(1)
		for _, cand := range [3]cell{
			{c.i - 1, c.j - 1},
			{c.i - 1, c.j},
			{c.i, c.j - 1},
		} {
			if cand.i < 0 || cand.j < 0 {
				continue
			}
			if v := get(cand); v < best {
				best = v
				next = cand
			}
		}
		if next.i < 0 {
			break
		}
		c = next
	}

	// Reverse into start-to-end order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return cost[cell{len(x) - 1, len(y) - 1}], path
}
