package tiles

import (
	"context"
	"math"
	"testing"
	"time"

	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/engine"
	"github.com/jbouffard/rasterframes/layer"
	"github.com/jbouffard/rasterframes/operations/util"
	"github.com/jbouffard/rasterframes/tile"
	"github.com/stretchr/testify/require"
)

func rampRaster(t *testing.T, cols int, rows int) *tile.Tile {
	values := make([]float64, cols*rows)
	for i := range values {
		values[i] = float64(i)
	}
	raster, err := tile.FromFloat64s(tile.Float64CellType, cols, rows, values)
	require.Nil(t, err)
	return raster
}

func TestFromRaster(t *testing.T) {
	raster := rampRaster(t, 5, 3)
	meta, records, err := FromRaster(raster, layer.Extent{XMin: 0, YMin: 0, XMax: 50, YMax: 30}, "EPSG:3857", 2, 2)
	require.Nil(t, err)
	require.Equal(t, 3, meta.Layout.LayoutCols)
	require.Equal(t, 2, meta.Layout.LayoutRows)
	require.Len(t, records, 6)
	// padding extends the layout extent eastward and southward
	require.Equal(t, layer.Extent{XMin: 0, YMin: -10, XMax: 60, YMax: 30}, meta.Layout.Extent)
	require.Equal(t, layer.SpatialKey{Col: 2, Row: 1}, meta.Bounds.Max)

	// top-left tile holds the first two cells of the first two rows
	first := records[0]
	require.Equal(t, layer.SpatialKey{Col: 0, Row: 0}, first.Key)
	v, ok := first.Tiles[0].Get(1, 1)
	require.True(t, ok)
	require.EqualValues(t, 6, v)

	// bottom-right tile holds a single data cell
	last := records[5]
	require.Equal(t, layer.SpatialKey{Col: 2, Row: 1}, last.Key)
	v, ok = last.Tiles[0].Get(0, 0)
	require.True(t, ok)
	require.EqualValues(t, 14, v)
	_, ok = last.Tiles[0].Get(1, 0)
	require.False(t, ok)

	// every source cell lands in exactly one tile
	total := 0.0
	dataCells := 0
	for _, r := range records {
		r.Tiles[0].ForEachData(func(i int, v float64) {
			total += v
			dataCells++
		})
	}
	require.Equal(t, 15, dataCells)
	require.EqualValues(t, 105, total)

	// key extents line up with the source raster's cells
	require.Equal(t, layer.Extent{XMin: 40, YMin: -10, XMax: 60, YMax: 10}, meta.Layout.KeyExtent(last.Key))
}

func TestFromRasterRawPadding(t *testing.T) {
	raster, err := tile.FromFloat64s(tile.Int32CellType.Raw(), 3, 1, []float64{1, 2, 3})
	require.Nil(t, err)
	meta, records, err := FromRaster(raster, layer.Extent{XMin: 0, YMin: 0, XMax: 3, YMax: 1}, "EPSG:4326", 2, 1)
	require.Nil(t, err)
	require.True(t, meta.CellType.IsMasked())
	require.Len(t, records, 2)
	_, ok := records[1].Tiles[0].Get(1, 0)
	require.False(t, ok)
}

func TestFromRasterErrors(t *testing.T) {
	raster := rampRaster(t, 2, 2)
	_, _, err := FromRaster(nil, layer.Extent{XMax: 1, YMax: 1}, "EPSG:4326", 1, 1)
	require.NotNil(t, err)
	_, _, err = FromRaster(raster, layer.Extent{XMax: 1, YMax: 1}, "EPSG:4326", 0, 1)
	require.NotNil(t, err)
	_, _, err = FromRaster(raster, layer.Extent{}, "EPSG:4326", 1, 1)
	require.NotNil(t, err)
}

func TestTileLayerDataFrame(t *testing.T) {
	raster := rampRaster(t, 8, 8)
	meta, records, err := FromRaster(raster, layer.Extent{XMin: 0, YMin: 0, XMax: 8, YMax: 8}, "EPSG:4326", 2, 2)
	require.Nil(t, err)
	when := time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := range records {
		if i%2 == 0 {
			records[i].Time = &when
		}
	}
	frame, err := CreateDataFrame(meta, records, &Conf{TimeColumn: "time", PartitionSize: 3, BatchSize: 5})
	require.Nil(t, err)
	require.Same(t, meta, frame.TileLayerMetadata())
	tileCols, err := frame.TileColumns()
	require.Nil(t, err)
	require.Equal(t, []string{"tile"}, tileCols)

	frame, err = frame.To(util.Collect(0))
	require.Nil(t, err)
	ectx, err := engine.NewContext(context.Background(), &engine.Options{NumWorkers: 2})
	require.Nil(t, err)
	res, err := engine.Run(ectx, frame)
	require.Nil(t, err)
	require.Equal(t, 16, res.NumRows())

	seen := make(map[layer.SpatialKey]bool)
	withTime := 0
	sum := 0.0
	err = res.ForEachRow(func(row rf.Row) error {
		key, err := row.GetSpatialKey("spatial_key")
		if err != nil {
			return err
		}
		seen[key] = true
		if !row.IsNil("time") {
			ts, err := row.GetTime("time")
			if err != nil {
				return err
			}
			require.True(t, when.Equal(ts))
			withTime++
		}
		tl, err := row.GetTile("tile")
		if err != nil {
			return err
		}
		tl.ForEachData(func(i int, v float64) {
			sum += v
		})
		return nil
	})
	require.Nil(t, err)
	require.Len(t, seen, 16)
	require.Equal(t, 8, withTime)
	require.EqualValues(t, 63*64/2, sum)
	require.False(t, math.IsNaN(sum))
}

func TestCreateDataFrameValidation(t *testing.T) {
	raster := rampRaster(t, 2, 2)
	meta, records, err := FromRaster(raster, layer.Extent{XMax: 2, YMax: 2}, "EPSG:4326", 1, 1)
	require.Nil(t, err)

	_, err = CreateDataFrame(nil, records, nil)
	require.NotNil(t, err)

	_, err = CreateDataFrame(meta, records, &Conf{TileColumns: []string{"red", "nir"}})
	require.NotNil(t, err)

	bad := append([]Record{}, records...)
	bad[0].Key = layer.SpatialKey{Col: 9, Row: 9}
	_, err = CreateDataFrame(meta, bad, nil)
	require.NotNil(t, err)
}
