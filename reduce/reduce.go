package reduce

import (
	"fmt"
	"math"

	"github.com/jbouffard/rasterframes/tile"
	"gonum.org/v1/gonum/floats"
)

// DataCells counts the data cells in a Tile
func DataCells(t *tile.Tile) int64 {
	var n int64
	size := t.Size()
	for i := 0; i < size; i++ {
		if !t.IsNoData(i) {
			n++
		}
	}
	return n
}

// NoDataCells counts the no-data cells in a Tile
func NoDataCells(t *tile.Tile) int64 {
	return int64(t.Size()) - DataCells(t)
}

// Min returns the smallest data cell in a Tile, and false if the Tile has no data cells
func Min(t *tile.Tile) (float64, bool) {
	lo, found := math.Inf(1), false
	t.ForEachData(func(_ int, v float64) {
		found = true
		if v < lo {
			lo = v
		}
	})
	if !found {
		return math.NaN(), false
	}
	return lo, true
}

// Max returns the largest data cell in a Tile, and false if the Tile has no data cells
func Max(t *tile.Tile) (float64, bool) {
	hi, found := math.Inf(-1), false
	t.ForEachData(func(_ int, v float64) {
		found = true
		if v > hi {
			hi = v
		}
	})
	if !found {
		return math.NaN(), false
	}
	return hi, true
}

// Sum returns the sum of the data cells in a Tile, and false if the Tile has no data cells
func Sum(t *tile.Tile) (float64, bool) {
	s := NewSummary()
	s.AddTile(t)
	return s.Sum()
}

// Mean returns the mean of the data cells in a Tile, and false if the Tile has no data cells
func Mean(t *tile.Tile) (float64, bool) {
	s := NewSummary()
	s.AddTile(t)
	return s.Mean()
}

// Stats computes the Statistics of a Tile in a single scan
func Stats(t *tile.Tile) Statistics {
	s := NewSummary()
	s.AddTile(t)
	return s.Statistics()
}

// Histogram counts the data cells of a Tile falling into equal-width bins
type Histogram struct {
	Edges  []float64 `json:"edges"` // bin boundaries, one more than the number of bins
	Counts []int64   `json:"counts"`
}

// TotalCount returns the number of cells counted by this Histogram
func (h *Histogram) TotalCount() int64 {
	var n int64
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// String returns a textual representation of this Histogram
func (h *Histogram) String() string {
	return fmt.Sprintf("Histogram(edges: %v, counts: %v)", h.Edges, h.Counts)
}

// ComputeHistogram bins the data cells of a Tile into the given number of equal-width
// bins spanning the Tile's minimum and maximum. A Tile without data cells produces a
// Histogram with no edges and zero counts.
func ComputeHistogram(t *tile.Tile, bins int) (*Histogram, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("histogram requires a positive number of bins, got %d", bins)
	}
	h := &Histogram{Counts: make([]int64, bins)}
	lo, ok := Min(t)
	if !ok {
		return h, nil
	}
	hi, _ := Max(t)
	h.Edges = floats.Span(make([]float64, bins+1), lo, hi)
	width := hi - lo
	t.ForEachData(func(_ int, v float64) {
		idx := bins - 1
		if width > 0 && v < hi {
			idx = int((v - lo) / width * float64(bins))
			if idx >= bins {
				idx = bins - 1
			}
		}
		h.Counts[idx]++
	})
	return h, nil
}
