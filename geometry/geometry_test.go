package geometry

import (
	"testing"

	"github.com/ctessum/geom"
	"github.com/jbouffard/rasterframes/errors"
	"github.com/jbouffard/rasterframes/layer"
	"github.com/jbouffard/rasterframes/reduce"
	"github.com/jbouffard/rasterframes/tile"
	"github.com/stretchr/testify/require"
)

func TestResolveCRS(t *testing.T) {
	def, err := ResolveCRS("epsg:4326")
	require.Nil(t, err)
	require.Contains(t, def, "longlat")
	def, err = ResolveCRS("EPSG:32633")
	require.Nil(t, err)
	require.Contains(t, def, "+zone=33")
	def, err = ResolveCRS("EPSG:32718")
	require.Nil(t, err)
	require.Contains(t, def, "+south")
	_, err = ResolveCRS("+proj=longlat")
	require.Nil(t, err)

	_, err = ResolveCRS("EPSG:999999")
	require.NotNil(t, err)
	require.IsType(t, errors.UnknownCRSError{}, err)
	require.False(t, IsKnownCRS("not a crs"))
	require.True(t, IsKnownCRS(WebMercator))
}

func TestRegisterCRS(t *testing.T) {
	require.False(t, IsKnownCRS("EPSG:900913"))
	require.Nil(t, RegisterCRS("epsg:900913", "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +no_defs"))
	require.True(t, IsKnownCRS("EPSG:900913"))
}

func TestReprojectGeometry(t *testing.T) {
	out, err := ReprojectGeometry(geom.Point{X: 180, Y: 0}, LatLng, WebMercator)
	require.Nil(t, err)
	p := out.Bounds().Min
	require.InDelta(t, 20037508.34, p.X, 1)
	require.InDelta(t, 0, p.Y, 1e-6)

	back, err := ReprojectGeometry(out, WebMercator, LatLng)
	require.Nil(t, err)
	require.InDelta(t, 180, back.Bounds().Min.X, 1e-6)

	// cached transformers are reused
	t1, err := Transformer(LatLng, WebMercator)
	require.Nil(t, err)
	require.NotNil(t, t1)
}

func TestReprojectAfterRedefiningCRS(t *testing.T) {
	const name = "TEST:SHIFTED-MERCATOR"
	const merc = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +y_0=0 +k=1.0 +units=m +no_defs"
	require.Nil(t, RegisterCRS(name, merc+" +x_0=0"))
	out, err := ReprojectGeometry(geom.Point{X: 0, Y: 0}, LatLng, name)
	require.Nil(t, err)
	require.InDelta(t, 0, out.Bounds().Min.X, 1e-6)

	require.Nil(t, RegisterCRS(name, merc+" +x_0=1000"))
	out, err = ReprojectGeometry(geom.Point{X: 0, Y: 0}, LatLng, name)
	require.Nil(t, err)
	require.InDelta(t, 1000, out.Bounds().Min.X, 1e-6)
}

func TestReprojectUnknownCRS(t *testing.T) {
	_, err := ReprojectGeometry(geom.Point{X: 1, Y: 1}, "EPSG:0", LatLng)
	require.NotNil(t, err)
	var crsErr errors.UnknownCRSError
	require.ErrorAs(t, err, &crsErr)
	require.Equal(t, "EPSG:0", crsErr.CRS)

	_, err = ReprojectGeometry(geom.Point{X: 1, Y: 1}, LatLng, "nowhere")
	require.ErrorAs(t, err, &crsErr)
	require.Equal(t, "nowhere", crsErr.CRS)
}

func TestEnvelope(t *testing.T) {
	poly := geom.Polygon{{{X: 1, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 7}, {X: 1, Y: 2}}}
	require.Equal(t, layer.Extent{XMin: 1, YMin: 2, XMax: 4, YMax: 7}, Envelope(poly))
}

func TestRasterizePolygon(t *testing.T) {
	bounds := layer.Extent{XMin: 0, YMin: 0, XMax: 10, YMax: 10}.Polygon()
	// covers the western half of the extent
	half := layer.Extent{XMin: 0, YMin: 0, XMax: 5, YMax: 10}.Polygon()
	tl, err := Rasterize(half, bounds, 7, 10, 10)
	require.Nil(t, err)
	require.Equal(t, tile.Int32CellType, tl.CellType())
	require.Equal(t, int64(50), reduce.DataCells(tl))
	require.Equal(t, int64(50), reduce.NoDataCells(tl))
	v, ok := tl.Get(0, 0)
	require.True(t, ok)
	require.Equal(t, 7.0, v)
	_, ok = tl.Get(9, 9)
	require.False(t, ok)
}

func TestRasterizeOutsideGeometry(t *testing.T) {
	bounds := layer.Extent{XMin: 0, YMin: 0, XMax: 10, YMax: 10}.Polygon()
	away := layer.Extent{XMin: 20, YMin: 20, XMax: 30, YMax: 30}.Polygon()
	tl, err := Rasterize(away, bounds, 1.5, 4, 4)
	require.Nil(t, err)
	require.Equal(t, tile.Float64CellType, tl.CellType())
	require.Equal(t, int64(0), reduce.DataCells(tl))
}

func TestRasterizePoint(t *testing.T) {
	bounds := layer.Extent{XMin: 0, YMin: 0, XMax: 4, YMax: 4}.Polygon()
	tl, err := Rasterize(geom.Point{X: 3.5, Y: 0.5}, bounds, 1, 4, 4)
	require.Nil(t, err)
	require.Equal(t, int64(1), reduce.DataCells(tl))
	_, ok := tl.Get(3, 3)
	require.True(t, ok)
}

func TestRasterizeLine(t *testing.T) {
	bounds := layer.Extent{XMin: 0, YMin: 0, XMax: 4, YMax: 4}.Polygon()
	line := geom.LineString{{X: 0.5, Y: 3.5}, {X: 3.5, Y: 3.5}}
	tl, err := Rasterize(line, bounds, 2, 4, 4)
	require.Nil(t, err)
	require.Equal(t, int64(4), reduce.DataCells(tl))
	for col := 0; col < 4; col++ {
		_, ok := tl.Get(col, 0)
		require.True(t, ok)
	}
}

func TestRasterizeDegenerateBounds(t *testing.T) {
	_, err := Rasterize(geom.Point{X: 1, Y: 1}, geom.Point{X: 1, Y: 1}, 1, 2, 2)
	require.NotNil(t, err)
}
