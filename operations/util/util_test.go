package util

import (
	"context"
	"fmt"
	"strings"
	"testing"

	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/accumulators"
	"github.com/jbouffard/rasterframes/datasource/memory"
	"github.com/jbouffard/rasterframes/datasource/parser/jsonl"
	"github.com/jbouffard/rasterframes/engine"
	"github.com/jbouffard/rasterframes/functions"
	"github.com/jbouffard/rasterframes/schema"
	"github.com/stretchr/testify/require"
)

// tileFrame produces a DataFrame of numBuffers buffers, each holding rowsPerBuffer rows
// with a 2x2 Tile of constant value equal to the row's global index, and an int32 "id"
func tileFrame(t *testing.T, numBuffers int, rowsPerBuffer int) rf.DataFrame {
	s := schema.CreateSchema()
	_, err := s.CreateColumn("id", &rf.Int32ColumnType{})
	require.Nil(t, err)
	_, err = s.CreateColumn("tile", &rf.TileColumnType{})
	require.Nil(t, err)
	data := make([][]byte, numBuffers)
	id := 0
	for b := range data {
		var sb strings.Builder
		for r := 0; r < rowsPerBuffer; r++ {
			fmt.Fprintf(&sb, "{\"id\": %d, \"tile\": {\"cellType\": \"float64\", \"cols\": 2, \"rows\": 2, \"cells\": [%d, %d, %d, null]}}\n", id, id, id, id)
			id++
		}
		data[b] = []byte(sb.String())
	}
	return memory.CreateDataFrame(data, jsonl.CreateParser(&jsonl.ParserConf{PartitionSize: 2}), s)
}

func run(t *testing.T, frame rf.DataFrame, ops ...*rf.DataFrameOperation) *engine.Result {
	frame, err := frame.To(ops...)
	require.Nil(t, err)
	ectx, err := engine.NewContext(context.Background(), &engine.Options{NumWorkers: 4})
	require.Nil(t, err)
	res, err := engine.Run(ectx, frame)
	require.Nil(t, err)
	return res
}

func TestCollect(t *testing.T) {
	res := run(t, tileFrame(t, 3, 4), Collect(0))
	require.Equal(t, 12, res.NumRows())
	require.Nil(t, res.Accumulated)
	// rows come back in source order
	expected := int32(0)
	err := res.ForEachRow(func(row rf.Row) error {
		id, err := row.GetInt32("id")
		require.Equal(t, expected, id)
		expected++
		return err
	})
	require.Nil(t, err)
}

func TestCollectLimit(t *testing.T) {
	res := run(t, tileFrame(t, 3, 4), Collect(2))
	require.Len(t, res.Collected, 2)
	require.Equal(t, 4, res.NumRows())
}

func TestNothingFollowsCollect(t *testing.T) {
	_, err := tileFrame(t, 1, 1).To(Collect(0), Collect(0))
	require.NotNil(t, err)
}

func TestAccumulateCount(t *testing.T) {
	res := run(t, tileFrame(t, 5, 3), Accumulate(accumulators.Counter))
	require.Empty(t, res.Collected)
	count, ok := res.Accumulated.(*accumulators.Count)
	require.True(t, ok)
	require.EqualValues(t, 15, count.GetCount())

	_, err := tileFrame(t, 1, 1).To(Accumulate(nil))
	require.NotNil(t, err)
}

func TestAgg(t *testing.T) {
	res := run(t, tileFrame(t, 4, 5), Agg(
		functions.AggMean("tile"),
		functions.AggDataCells("tile"),
		functions.AggNoDataCells("tile"),
		functions.AggStats("tile"),
	))
	composed, ok := res.Accumulated.(*accumulators.Composed)
	require.True(t, ok)
	require.Equal(t, []string{"agg_mean(tile)", "agg_data_cells(tile)", "agg_nodata_cells(tile)", "aggStats(tile)"}, composed.Names())
	row := composed.Row()
	// ids 0..19, three data cells each
	require.InDelta(t, 9.5, row["agg_mean(tile)"], 1e-9)
	require.EqualValues(t, 60, row["agg_data_cells(tile)"])
	require.EqualValues(t, 20, row["agg_nodata_cells(tile)"])
}

func TestAggErrors(t *testing.T) {
	frame := tileFrame(t, 1, 1)
	_, err := frame.To(Agg())
	require.NotNil(t, err)
	_, err = frame.To(Agg(functions.AggMean("missing")))
	require.NotNil(t, err)
	_, err = frame.To(Agg(functions.TileMean(functions.Col("tile"))))
	require.NotNil(t, err)
	_, err = frame.To(Agg(nil))
	require.NotNil(t, err)
}
