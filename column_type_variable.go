package rasterframes

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/wkb"
	"github.com/jbouffard/rasterframes/reduce"
	"github.com/jbouffard/rasterframes/tile"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// VarStringColumnType is a column type which stores a variable-length string value
type VarStringColumnType struct{}

// Size in bytes of the fixed-length StringColumn
func (b *VarStringColumnType) Size() int {
	return 0
}

// ToString produces a string representation of a value of a VarStringColumnType value
func (b *VarStringColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("\"%s\"", v.(string))
}

// Serialize serializes this VarStringColumnType to binary data
func (b *VarStringColumnType) Serialize(v interface{}) ([]byte, error) {
	buff := new(bytes.Buffer)
	e := gob.NewEncoder(buff)
	err := e.Encode(v)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// Deserialize deserializes a VarStringColumnType from binary data
func (b *VarStringColumnType) Deserialize(ser []byte) (interface{}, error) {
	var deser string
	buff := bytes.NewBuffer(ser)
	d := gob.NewDecoder(buff)
	err := d.Decode(&deser)
	if err != nil {
		return nil, err
	}
	return deser, nil
}

// VarBytesColumnType is a column type which stores variable-length byte arrays
type VarBytesColumnType struct{}

// Size in bytes of a VarBytesColumn
func (b *VarBytesColumnType) Size() int {
	return 0
}

// ToString produces a string representation of a value of a VarBytesColumnType value
func (b *VarBytesColumnType) ToString(v interface{}) string {
	bytes := v.([]byte)
	var res strings.Builder
	fmt.Fprint(&res, "[")
	for i, v := range bytes {
		// don't print more than 5 entries
		if i > 5 {
			fmt.Fprintf(&res, "... %d more", len(bytes)-5)
			break
		}
		fmt.Fprintf(&res, "%x", v)
	}
	fmt.Fprint(&res, "]")
	return res.String()
}

// Serialize serializes this VarBytesColumnType to binary data
func (b *VarBytesColumnType) Serialize(v interface{}) ([]byte, error) {
	return v.([]byte), nil
}

// Deserialize deserializes a VarBytesColumnType from binary data
func (b *VarBytesColumnType) Deserialize(ser []byte) (interface{}, error) {
	return ser, nil
}

// TileColumnType is a column type which stores a *tile.Tile. Columns of this type are the
// Tile columns of a RasterFrame.
type TileColumnType struct {
	Codec tile.Codec // compression applied when serializing Tiles. Defaults to no compression.
}

// Size in bytes of a TileColumn
func (b *TileColumnType) Size() int {
	return 0
}

// ToString produces a string representation of a value of a TileColumnType value
func (b *TileColumnType) ToString(v interface{}) string {
	return v.(*tile.Tile).String()
}

// Serialize serializes a Tile with the tile codec
func (b *TileColumnType) Serialize(v interface{}) ([]byte, error) {
	t, ok := v.(*tile.Tile)
	if !ok {
		return nil, fmt.Errorf("TileColumnType cannot serialize %T", v)
	}
	return tile.Encode(t, b.Codec)
}

// Deserialize deserializes a Tile produced by Serialize
func (b *TileColumnType) Deserialize(ser []byte) (interface{}, error) {
	return tile.Decode(ser)
}

// GeometryColumnType is a column type which stores a geom.Geom, serialized as WKB
type GeometryColumnType struct{}

// Size in bytes of a GeometryColumn
func (b *GeometryColumnType) Size() int {
	return 0
}

// ToString produces a GeoJSON representation of a value of a GeometryColumnType value
func (b *GeometryColumnType) ToString(v interface{}) string {
	buf, err := geojson.Encode(v.(geom.Geom))
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(buf)
}

// Serialize serializes a geometry as WKB
func (b *GeometryColumnType) Serialize(v interface{}) ([]byte, error) {
	g, ok := v.(geom.Geom)
	if !ok {
		return nil, fmt.Errorf("GeometryColumnType cannot serialize %T", v)
	}
	return wkb.Encode(g, binary.LittleEndian)
}

// Deserialize deserializes a WKB geometry
func (b *GeometryColumnType) Deserialize(ser []byte) (interface{}, error) {
	return wkb.Decode(ser)
}

// CellTypeColumnType is a column type which stores a tile.CellType
type CellTypeColumnType struct{}

// Size in bytes of a CellTypeColumn
func (b *CellTypeColumnType) Size() int {
	return 0
}

// ToString produces a string representation of a value of a CellTypeColumnType value
func (b *CellTypeColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("\"%s\"", v.(tile.CellType))
}

// Serialize serializes a CellType as its canonical name
func (b *CellTypeColumnType) Serialize(v interface{}) ([]byte, error) {
	return v.(tile.CellType).MarshalText()
}

// Deserialize deserializes a CellType from its canonical name
func (b *CellTypeColumnType) Deserialize(ser []byte) (interface{}, error) {
	return tile.ParseCellType(string(ser))
}

// StatisticsColumnType is a column type which stores reduce.Statistics
type StatisticsColumnType struct{}

// Size in bytes of a StatisticsColumn
func (b *StatisticsColumnType) Size() int {
	return 0
}

// ToString produces a string representation of a value of a StatisticsColumnType value
func (b *StatisticsColumnType) ToString(v interface{}) string {
	return v.(reduce.Statistics).String()
}

// Serialize serializes Statistics as JSON
func (b *StatisticsColumnType) Serialize(v interface{}) ([]byte, error) {
	return json.Marshal(v.(reduce.Statistics))
}

// Deserialize deserializes Statistics produced by Serialize
func (b *StatisticsColumnType) Deserialize(ser []byte) (interface{}, error) {
	var s reduce.Statistics
	if err := json.Unmarshal(ser, &s); err != nil {
		return nil, err
	}
	return s, nil
}

// HistogramColumnType is a column type which stores a *reduce.Histogram
type HistogramColumnType struct{}

// Size in bytes of a HistogramColumn
func (b *HistogramColumnType) Size() int {
	return 0
}

// ToString produces a string representation of a value of a HistogramColumnType value
func (b *HistogramColumnType) ToString(v interface{}) string {
	return v.(*reduce.Histogram).String()
}

// Serialize serializes a Histogram as JSON
func (b *HistogramColumnType) Serialize(v interface{}) ([]byte, error) {
	return json.Marshal(v.(*reduce.Histogram))
}

// Deserialize deserializes a Histogram produced by Serialize
func (b *HistogramColumnType) Deserialize(ser []byte) (interface{}, error) {
	h := &reduce.Histogram{}
	if err := json.Unmarshal(ser, h); err != nil {
		return nil, err
	}
	return h, nil
}
