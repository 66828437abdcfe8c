package accumulators

import (
	"math"
	"testing"

	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/internal/partition"
	"github.com/jbouffard/rasterframes/reduce"
	"github.com/jbouffard/rasterframes/schema"
	"github.com/jbouffard/rasterframes/tile"
	"github.com/stretchr/testify/require"
)

func tileSchema() rf.Schema {
	s := schema.CreateSchema()
	s.CreateColumn("tile", &rf.TileColumnType{})
	s.CreateColumn("n", &rf.Int32ColumnType{})
	return s
}

func tileRow(t *testing.T, s rf.Schema, values []float64, cols, rows int) rf.Row {
	ct, err := tile.ParseCellType("float64")
	require.Nil(t, err)
	tl, err := tile.FromFloat64s(ct, cols, rows, values)
	require.Nil(t, err)
	row := partition.CreateEmptyRow(s)
	require.Nil(t, row.SetTile("tile", tl))
	require.Nil(t, row.SetInt32("n", int32(len(values))))
	return row
}

func roundTrip(t *testing.T, acc rf.Accumulator) rf.Accumulator {
	buf, err := acc.ToBytes()
	require.Nil(t, err)
	res, err := acc.FromBytes(buf)
	require.Nil(t, err)
	return res
}

func TestAggDataCellsLargeTile(t *testing.T) {
	s := tileSchema()
	ct, err := tile.ParseCellType("int16")
	require.Nil(t, err)
	tl, err := tile.MakeConstantTile(1, 500, 500, ct)
	require.Nil(t, err)
	row := partition.CreateEmptyRow(s)
	require.Nil(t, row.SetTile("tile", tl))

	data := AggDataCells("tile")().(*DataCells)
	noData := AggNoDataCells("tile")().(*NoDataCells)
	require.Nil(t, data.Accumulate(row))
	require.Nil(t, noData.Accumulate(row))
	require.EqualValues(t, 250000, data.GetCount())
	require.EqualValues(t, 0, noData.GetCount())
}

func TestAggMeanIsPartitionInvariant(t *testing.T) {
	s := tileSchema()
	rows := []rf.Row{
		tileRow(t, s, []float64{1, 2, math.NaN(), 4}, 2, 2),
		tileRow(t, s, []float64{10}, 1, 1),
		tileRow(t, s, []float64{3, math.NaN(), 5, 6, 7, 8}, 3, 2),
	}
	single := AggMean("tile")().(*Mean)
	for _, r := range rows {
		require.Nil(t, single.Accumulate(r))
	}
	expected, ok := single.GetMean()
	require.True(t, ok)
	require.InDelta(t, 46.0/9.0, expected, 1e-12)

	// each row in its own accumulator, merged in both orders
	parts := make([]rf.Accumulator, len(rows))
	for i, r := range rows {
		parts[i] = AggMean("tile")()
		require.Nil(t, parts[i].Accumulate(r))
		parts[i] = roundTrip(t, parts[i])
	}
	forward := AggMean("tile")()
	for _, p := range parts {
		require.Nil(t, forward.Merge(p))
	}
	backward := AggMean("tile")()
	for i := len(parts) - 1; i >= 0; i-- {
		require.Nil(t, backward.Merge(parts[i]))
	}
	fm, ok := forward.(*Mean).GetMean()
	require.True(t, ok)
	bm, ok := backward.(*Mean).GetMean()
	require.True(t, ok)
	require.InDelta(t, expected, fm, 1e-12)
	require.InDelta(t, expected, bm, 1e-12)
}

func TestAggMeanEmpty(t *testing.T) {
	s := tileSchema()
	acc := AggMean("tile")().(*Mean)
	row := partition.CreateEmptyRow(s)
	require.Nil(t, row.SetNil("tile"))
	require.Nil(t, acc.Accumulate(row))
	require.Nil(t, acc.Accumulate(tileRow(t, s, []float64{math.NaN()}, 1, 1)))
	_, ok := acc.GetMean()
	require.False(t, ok)
	require.Nil(t, acc.Value())
	stats := AggStats("tile")().(*Stats)
	require.Nil(t, stats.Merge(roundTrip(t, stats)))
	require.True(t, stats.GetStatistics().Empty())
}

func TestAggStats(t *testing.T) {
	s := tileSchema()
	acc := AggStats("tile")()
	require.Nil(t, acc.Accumulate(tileRow(t, s, []float64{1, 2, math.NaN(), 5}, 2, 2)))
	other := AggStats("tile")()
	require.Nil(t, other.Accumulate(tileRow(t, s, []float64{-3}, 1, 1)))
	require.Nil(t, acc.Merge(roundTrip(t, other)))
	stats := acc.(*Stats).Value().(reduce.Statistics)
	require.EqualValues(t, 4, stats.DataCells)
	require.EqualValues(t, 1, stats.NoDataCells)
	require.Equal(t, -3.0, stats.Min)
	require.Equal(t, 5.0, stats.Max)
	require.Equal(t, 5.0, stats.Sum)
	require.InDelta(t, 1.25, stats.Mean, 1e-12)
}

func TestMergeMismatch(t *testing.T) {
	require.NotNil(t, AggMean("tile")().Merge(AggStats("tile")()))
	require.NotNil(t, AggMean("tile")().Merge(AggMean("other")()))
	require.NotNil(t, Counter().Merge(Adder("n")()))
	_, err := AggMean("tile")().FromBytes([]byte{1, 2, 3})
	require.NotNil(t, err)
}

func TestCountAndSum(t *testing.T) {
	s := tileSchema()
	count := Counter()
	sum := Adder("n")()
	for _, vals := range [][]float64{{1}, {1, 2}, {1, 2, 3, 4}} {
		r := tileRow(t, s, vals, len(vals), 1)
		require.Nil(t, count.Accumulate(r))
		require.Nil(t, sum.Accumulate(r))
	}
	nilRow := partition.CreateEmptyRow(s)
	require.Nil(t, nilRow.SetNil("n"))
	require.Nil(t, sum.Accumulate(nilRow))
	require.EqualValues(t, 3, roundTrip(t, count).(*Count).GetCount())
	require.Equal(t, 7.0, roundTrip(t, sum).(*Sum).GetSum())
	require.NotNil(t, Adder("tile")().Accumulate(tileRow(t, s, []float64{1}, 1, 1)))
}

func TestComposed(t *testing.T) {
	s := tileSchema()
	factory := Compose(Counter, AggMean("tile"), AggDataCells("tile"), AggNoDataCells("tile"), AggStats("tile"))
	left := factory()
	right := factory()
	require.Nil(t, left.Accumulate(tileRow(t, s, []float64{2, math.NaN()}, 2, 1)))
	require.Nil(t, right.Accumulate(tileRow(t, s, []float64{4}, 1, 1)))
	require.Nil(t, left.Merge(roundTrip(t, right)))

	comp := left.(*Composed)
	require.Equal(t, []string{"count", "agg_mean(tile)", "agg_data_cells(tile)", "agg_nodata_cells(tile)", "aggStats(tile)"}, comp.Names())
	res := comp.Row()
	require.EqualValues(t, 2, res["count"])
	require.Equal(t, 3.0, res["agg_mean(tile)"])
	require.EqualValues(t, 2, res["agg_data_cells(tile)"])
	require.EqualValues(t, 1, res["agg_nodata_cells(tile)"])
	stats := res["aggStats(tile)"].(reduce.Statistics)
	require.EqualValues(t, 2, stats.DataCells)
	require.EqualValues(t, res["agg_data_cells(tile)"], stats.DataCells)
	require.EqualValues(t, 1, stats.NoDataCells)
	require.Equal(t, 3.0, stats.Mean)
	require.Len(t, comp.GetResults(), 5)
}
