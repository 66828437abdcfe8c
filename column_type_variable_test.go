package rasterframes

import (
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/require"
)

func TestGeometryColumnTypeSerialization(t *testing.T) {
	ct := &GeometryColumnType{}
	poly := geom.Polygon{{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}, {X: 0, Y: 0}}}
	for _, g := range []geom.Geom{geom.Point{X: 1.5, Y: -2}, poly} {
		buf, err := ct.Serialize(g)
		require.Nil(t, err)
		// little-endian WKB
		require.Equal(t, byte(1), buf[0])
		back, err := ct.Deserialize(buf)
		require.Nil(t, err)
		require.Equal(t, g, back)
	}
	_, err := ct.Serialize("POINT (1 2)")
	require.NotNil(t, err)
}
