package reduce

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jbouffard/rasterframes/tile"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func makeTile(t *testing.T, ct tile.CellType, cols, rows int, values []float64) *tile.Tile {
	tl, err := tile.FromFloat64s(ct, cols, rows, values)
	require.Nil(t, err)
	return tl
}

func TestTileReductions(t *testing.T) {
	tl := makeTile(t, tile.Float64CellType, 3, 2, []float64{1, 2, math.NaN(), 4, math.NaN(), 8})
	require.Equal(t, int64(4), DataCells(tl))
	require.Equal(t, int64(2), NoDataCells(tl))
	lo, ok := Min(tl)
	require.True(t, ok)
	require.Equal(t, 1.0, lo)
	hi, ok := Max(tl)
	require.True(t, ok)
	require.Equal(t, 8.0, hi)
	sum, ok := Sum(tl)
	require.True(t, ok)
	require.Equal(t, 15.0, sum)
	mean, ok := Mean(tl)
	require.True(t, ok)
	require.Equal(t, 3.75, mean)

	stats := Stats(tl)
	require.Equal(t, DataCells(tl), stats.DataCells)
	require.Equal(t, NoDataCells(tl), stats.NoDataCells)
	require.Equal(t, 1.0, stats.Min)
	require.Equal(t, 8.0, stats.Max)
	require.Equal(t, 3.75, stats.Mean)
	require.Equal(t, 15.0, stats.Sum)
	require.InDelta(t, 7.1875, stats.Variance, 1e-12)
}

func TestAllNoDataTile(t *testing.T) {
	tl, err := tile.NewBuilder(tile.Int32CellType, 4, 4)
	require.Nil(t, err)
	empty := tl.Build()
	require.Equal(t, int64(0), DataCells(empty))
	require.Equal(t, int64(16), NoDataCells(empty))
	_, ok := Mean(empty)
	require.False(t, ok)
	_, ok = Min(empty)
	require.False(t, ok)
	_, ok = Max(empty)
	require.False(t, ok)
	_, ok = Sum(empty)
	require.False(t, ok)

	stats := Stats(empty)
	require.Equal(t, DataCells(empty), stats.DataCells)
	require.Equal(t, int64(0), stats.DataCells)
	require.True(t, stats.Empty())
	require.True(t, math.IsNaN(stats.Mean))
	require.True(t, math.IsNaN(stats.Min))
	require.True(t, math.IsNaN(stats.Max))
}

func TestStatsDataCellsMatchesDataCells(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for _, ct := range []tile.CellType{tile.Uint8CellType, tile.Int16CellType.WithNoData(-1), tile.Float32CellType, tile.Int32CellType.WithMask()} {
		values := make([]float64, 50*50)
		for i := range values {
			if r.Float64() < 0.3 {
				values[i] = math.NaN()
			} else {
				values[i] = float64(r.Intn(200))
			}
		}
		tl := makeTile(t, ct, 50, 50, values)
		require.Equal(t, DataCells(tl), Stats(tl).DataCells, ct.String())
	}
}

func TestSummaryMergeIsPartitionInvariant(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	values := make([]float64, 10000)
	for i := range values {
		values[i] = r.NormFloat64()*1000 + 10158
	}
	single := NewSummary()
	for _, v := range values {
		single.Add(v)
	}
	expectedMean, ok := single.Mean()
	require.True(t, ok)
	require.InDelta(t, floats.Sum(values)/float64(len(values)), expectedMean, 1e-9)

	// unequal partitions, merged in a shuffled order
	cuts := []int{0, 3, 250, 251, 4000, 9999, 10000}
	parts := make([]*Summary, 0, len(cuts)-1)
	for i := 0; i < len(cuts)-1; i++ {
		s := NewSummary()
		for _, v := range values[cuts[i]:cuts[i+1]] {
			s.Add(v)
		}
		parts = append(parts, s)
	}
	r.Shuffle(len(parts), func(i, j int) { parts[i], parts[j] = parts[j], parts[i] })
	merged := NewSummary()
	for _, p := range parts {
		merged.Merge(p)
	}
	mean, ok := merged.Mean()
	require.True(t, ok)
	require.InDelta(t, expectedMean, mean, 1e-9)
	require.Equal(t, single.DataCells(), merged.DataCells())
	require.InDelta(t, single.Statistics().Variance, merged.Statistics().Variance, 1e-6)
	lo, _ := merged.Min()
	require.Equal(t, floats.Min(values), lo)
	hi, _ := merged.Max()
	require.Equal(t, floats.Max(values), hi)
}

func TestSummaryMergeWithEmpty(t *testing.T) {
	a := NewSummary()
	a.Add(2)
	a.Add(4)
	empty := NewSummary()
	empty.AddNoData(3)
	a.Merge(empty)
	empty.Merge(a)
	for _, s := range []*Summary{a, empty} {
		mean, ok := s.Mean()
		require.True(t, ok)
		require.Equal(t, 3.0, mean)
	}
	require.Equal(t, int64(3), a.NoDataCells())
	require.Equal(t, int64(6), empty.NoDataCells())
}

func TestSummaryBinaryRoundTrip(t *testing.T) {
	s := NewSummary()
	s.AddTile(makeTile(t, tile.Float64CellType, 2, 2, []float64{1, math.NaN(), 3, 5}))
	buff, err := s.MarshalBinary()
	require.Nil(t, err)
	decoded := &Summary{}
	require.Nil(t, decoded.UnmarshalBinary(buff))
	require.Equal(t, s.Statistics(), decoded.Statistics())
	require.NotNil(t, decoded.UnmarshalBinary(buff[:3]))
}

func TestHistogram(t *testing.T) {
	tl := makeTile(t, tile.Float64CellType, 5, 1, []float64{0, 1, 2, math.NaN(), 4})
	h, err := ComputeHistogram(tl, 4)
	require.Nil(t, err)
	require.Equal(t, []float64{0, 1, 2, 3, 4}, h.Edges)
	require.Equal(t, []int64{1, 1, 1, 1}, h.Counts)
	require.Equal(t, DataCells(tl), h.TotalCount())

	_, err = ComputeHistogram(tl, 0)
	require.NotNil(t, err)

	constant, err := tile.MakeConstantTile(3, 2, 2, tile.Int32CellType)
	require.Nil(t, err)
	h, err = ComputeHistogram(constant, 3)
	require.Nil(t, err)
	require.Equal(t, []int64{0, 0, 4}, h.Counts)
}
