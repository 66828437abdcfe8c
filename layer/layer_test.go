package layer

import (
	"testing"

	"github.com/jbouffard/rasterframes/tile"
	"github.com/stretchr/testify/require"
)

func testLayout() LayoutDefinition {
	return LayoutDefinition{
		Extent:     Extent{XMin: 0, YMin: 0, XMax: 40, YMax: 20},
		TileCols:   10,
		TileRows:   10,
		LayoutCols: 4,
		LayoutRows: 2,
	}
}

func TestKeyExtent(t *testing.T) {
	l := testLayout()
	require.Equal(t, Extent{XMin: 0, YMin: 10, XMax: 10, YMax: 20}, l.KeyExtent(SpatialKey{0, 0}))
	require.Equal(t, Extent{XMin: 30, YMin: 0, XMax: 40, YMax: 10}, l.KeyExtent(SpatialKey{3, 1}))
	cw, ch := l.CellSize()
	require.Equal(t, 1.0, cw)
	require.Equal(t, 1.0, ch)
}

func TestExtentGeometry(t *testing.T) {
	e := Extent{XMin: 0, YMin: 0, XMax: 2, YMax: 4}
	c := e.Center()
	require.Equal(t, 1.0, c.X)
	require.Equal(t, 2.0, c.Y)
	require.Len(t, e.Polygon()[0], 5)
	require.True(t, e.Intersects(Extent{XMin: 2, YMin: 4, XMax: 3, YMax: 5}))
	require.False(t, e.Intersects(Extent{XMin: 2.5, YMin: 0, XMax: 3, YMax: 1}))
	require.Equal(t, Extent{XMin: 0, YMin: -1, XMax: 3, YMax: 4}, e.Combine(Extent{XMin: 1, YMin: -1, XMax: 3, YMax: 0}))
	require.Equal(t, e, ExtentFromBounds(e.Bounds()))
}

func TestMetadataJSON(t *testing.T) {
	m := &TileLayerMetadata{
		CellType: tile.Int16CellType.WithNoData(-9999),
		CRS:      "EPSG:4326",
		Extent:   testLayout().Extent,
		Layout:   testLayout(),
		Bounds:   KeyBounds{Min: SpatialKey{0, 0}, Max: SpatialKey{3, 1}},
	}
	data, err := m.ToJSON()
	require.Nil(t, err)
	require.Contains(t, string(data), "\"int16ud-9999\"")
	decoded, err := MetadataFromJSON(data)
	require.Nil(t, err)
	require.Equal(t, m, decoded)
	require.True(t, decoded.Bounds.Contains(SpatialKey{2, 1}))
	require.False(t, decoded.Bounds.Contains(SpatialKey{4, 0}))
}

func TestMetadataJSONRejectsBadLayout(t *testing.T) {
	_, err := MetadataFromJSON([]byte(`{"cellType":"uint8","layoutDefinition":{"tileCols":0}}`))
	require.NotNil(t, err)
}
