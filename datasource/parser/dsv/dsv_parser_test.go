package dsv

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/wkb"
	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/datasource/memory"
	"github.com/jbouffard/rasterframes/errors"
	"github.com/jbouffard/rasterframes/layer"
	"github.com/jbouffard/rasterframes/schema"
	"github.com/jbouffard/rasterframes/tile"
	"github.com/stretchr/testify/require"
)

func loadAll(t *testing.T, df rf.DataFrame, parser rf.DataSourceParser) ([]rf.Partition, error) {
	pm, err := df.GetDataSource().Analyze()
	require.Nil(t, err, "Analyze err should be null")
	parts := []rf.Partition{}
	for pm.HasNext() {
		pl := pm.Next()
		ps, err := pl.Load(parser, df.GetSchema())
		require.Nil(t, err)
		for ps.HasNextPartition() {
			part, err := ps.NextPartition()
			if _, ok := err.(errors.NoMorePartitionsError); ok {
				break
			} else if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
	}
	require.False(t, pm.HasNext())
	return parts, nil
}

func layerSchema(t *testing.T) rf.Schema {
	s := schema.CreateSchema()
	_, err := s.CreateColumn("key", &rf.SpatialKeyColumnType{})
	require.Nil(t, err)
	_, err = s.CreateColumn("extent", &rf.ExtentColumnType{})
	require.Nil(t, err)
	_, err = s.CreateColumn("time", &rf.TemporalKeyColumnType{})
	require.Nil(t, err)
	_, err = s.CreateColumn("tile", &rf.TileColumnType{})
	require.Nil(t, err)
	_, err = s.CreateColumn("geom", &rf.GeometryColumnType{})
	require.Nil(t, err)
	_, err = s.CreateColumn("count", &rf.Int32ColumnType{})
	require.Nil(t, err)
	return s
}

func TestDSVDatasourceParser(t *testing.T) {
	tl, err := tile.FromFloat64s(tile.Int16CellType, 2, 1, []float64{7, -3})
	require.Nil(t, err)
	encoded, err := tile.Encode(tl, tile.Zstd)
	require.Nil(t, err)
	g, err := wkb.Encode(geom.Point{X: 1.5, Y: -2}, binary.LittleEndian)
	require.Nil(t, err)
	line := fmt.Sprintf("2 3|0 0 10 10|2019-03-01T12:00:00Z|%s|%s|5\n", base64.StdEncoding.EncodeToString(encoded), hex.EncodeToString(g))
	header := "key|extent|time|tile|geom|count\n"

	s := layerSchema(t)
	parser := CreateParser(&ParserConf{PartitionSize: 2, HeaderLines: 1, Delimiter: '|', NilValue: "null"})
	data := [][]byte{
		[]byte(header + line + line + line),
		[]byte(header + "null|null|null|null|null|null\n"),
	}
	parts, err := loadAll(t, memory.CreateDataFrame(data, parser, s), parser)
	require.Nil(t, err)
	require.Len(t, parts, 3)
	require.Equal(t, 2, parts[0].GetNumRows())
	require.Equal(t, 1, parts[1].GetNumRows())

	row := parts[0].GetRow(1)
	key, err := row.GetSpatialKey("key")
	require.Nil(t, err)
	require.Equal(t, layer.SpatialKey{Col: 2, Row: 3}, key)
	ext, err := row.GetExtent("extent")
	require.Nil(t, err)
	require.Equal(t, layer.Extent{XMin: 0, YMin: 0, XMax: 10, YMax: 10}, ext)
	ts, err := row.GetTime("time")
	require.Nil(t, err)
	require.Equal(t, 12, ts.Hour())
	parsedTile, err := row.GetTile("tile")
	require.Nil(t, err)
	require.True(t, tl.Equal(parsedTile))
	parsedGeom, err := row.GetGeometry("geom")
	require.Nil(t, err)
	require.Equal(t, geom.Point{X: 1.5, Y: -2}, parsedGeom.Bounds().Min)
	count, err := row.GetInt32("count")
	require.Nil(t, err)
	require.EqualValues(t, 5, count)

	nilRow := parts[2].GetRow(0)
	for _, name := range s.ColumnNames() {
		require.True(t, nilRow.IsNil(name), name)
	}
}

func TestDSVInvalidValues(t *testing.T) {
	s := layerSchema(t)
	parser := CreateParser(&ParserConf{})
	for _, line := range []string{
		"1,0 0 1 1,,,,",
		"1 2,0 0 1,,,,",
		"1 2,,not a time,,,",
		"1 2,,,%%%,,",
		"1 2,,,,zz,",
		"1 2,,,,,five",
		"1 2,,,,",
	} {
		_, err := loadAll(t, memory.CreateDataFrame([][]byte{[]byte(line + "\n")}, parser, s), parser)
		require.NotNil(t, err, line)
	}
}

func TestDSVParserConf(t *testing.T) {
	conf := &ParserConf{Comment: '#'}
	parser := CreateParser(conf)
	require.Equal(t, 128, parser.PartitionSize())
	require.Equal(t, rune(0), conf.Delimiter)
	conf.PartitionSize = 7
	require.Equal(t, 128, parser.PartitionSize())

	s := schema.CreateSchema()
	_, err := s.CreateColumn("count", &rf.Int32ColumnType{})
	require.Nil(t, err)
	parts, err := loadAll(t, memory.CreateDataFrame([][]byte{[]byte("# raster rows\n4\n")}, parser, s), parser)
	require.Nil(t, err)
	require.Len(t, parts, 1)
	require.Equal(t, 1, parts[0].GetNumRows())

	bad := CreateParser(&ParserConf{Delimiter: ';', Comment: ';'})
	_, err = bad.Parse(strings.NewReader("4\n"), nil, s, nil)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "cannot equal the delimiter")
}

func TestDSVHeaderLongerThanShard(t *testing.T) {
	s := schema.CreateSchema()
	_, err := s.CreateColumn("count", &rf.Int32ColumnType{})
	require.Nil(t, err)
	parser := CreateParser(&ParserConf{HeaderLines: 3})
	parts, err := loadAll(t, memory.CreateDataFrame([][]byte{[]byte("count\n")}, parser, s), parser)
	require.Nil(t, err)
	rows := 0
	for _, p := range parts {
		rows += p.GetNumRows()
	}
	require.Equal(t, 0, rows)
}
