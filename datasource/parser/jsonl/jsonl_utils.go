package jsonl

import (
	"encoding/base64"
	"fmt"
	"math"
	"time"

	"github.com/ctessum/geom/encoding/geojson"
	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/layer"
	"github.com/jbouffard/rasterframes/reduce"
	"github.com/jbouffard/rasterframes/tile"
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func requireType(colName string, val gjson.Result, expected ...gjson.Type) error {
	for _, t := range expected {
		if val.Type == t {
			return nil
		}
	}
	return fmt.Errorf("Column %s was not a %s. Was: %s", colName, expected[0], val.Raw)
}

func requireObject(colName string, val gjson.Result) error {
	if !val.IsObject() {
		return fmt.Errorf("Column %s was not an object. Was: %s", colName, val.Raw)
	}
	return nil
}

// ParseTile parses a Tile from its JSON representation
func ParseTile(val gjson.Result) (*tile.Tile, error) {
	if !val.IsObject() {
		return nil, fmt.Errorf("tile must be a JSON object. Was: %s", val.Raw)
	}
	if encoded := val.Get("encoded"); encoded.Exists() {
		buf, err := base64.StdEncoding.DecodeString(encoded.String())
		if err != nil {
			return nil, fmt.Errorf("tile encoding is not valid base64: %w", err)
		}
		return tile.Decode(buf)
	}
	ct, err := tile.ParseCellType(val.Get("cellType").String())
	if err != nil {
		return nil, err
	}
	cols, rows := val.Get("cols").Int(), val.Get("rows").Int()
	if cols > math.MaxInt32 || rows > math.MaxInt32 {
		return nil, fmt.Errorf("tile dimensions %dx%d are too large", cols, rows)
	}
	if err := tile.ValidateDimensions(ct, int(cols), int(rows)); err != nil {
		return nil, err
	}
	cells := val.Get("cells")
	if !cells.IsArray() {
		return nil, fmt.Errorf("tile cells must be an array")
	}
	arr := cells.Array()
	if int64(len(arr)) != cols*rows {
		return nil, fmt.Errorf("expected %d cells for a %dx%d tile, got %d", cols*rows, cols, rows, len(arr))
	}
	values := make([]float64, 0, len(arr))
	for _, c := range arr {
		switch c.Type {
		case gjson.Null:
			values = append(values, math.NaN())
		case gjson.Number:
			values = append(values, c.Float())
		default:
			return nil, fmt.Errorf("tile cell must be a number or null. Was: %s", c.Raw)
		}
	}
	return tile.FromFloat64s(ct, int(cols), int(rows), values)
}

func parseValue(val gjson.Result, colName string, colType rf.ColumnType, row rf.Row) error {
	switch ct := colType.(type) {
	case *rf.BoolColumnType:
		if err := requireType(colName, val, gjson.True, gjson.False); err != nil {
			return err
		}
		return row.SetBool(colName, val.Bool())
	case *rf.Int32ColumnType:
		if err := requireType(colName, val, gjson.Number); err != nil {
			return err
		}
		return row.SetInt32(colName, int32(val.Int()))
	case *rf.Int64ColumnType:
		if err := requireType(colName, val, gjson.Number); err != nil {
			return err
		}
		return row.SetInt64(colName, val.Int())
	case *rf.Float64ColumnType:
		if err := requireType(colName, val, gjson.Number); err != nil {
			return err
		}
		return row.SetFloat64(colName, val.Float())
	case *rf.TimeColumnType:
		return parseTime(val, colName, ct, row)
	case *rf.TemporalKeyColumnType:
		return parseTime(val, colName, &ct.TimeColumnType, row)
	case *rf.VarStringColumnType:
		if err := requireType(colName, val, gjson.String); err != nil {
			return err
		}
		return row.SetVarString(colName, val.String())
	case *rf.VarBytesColumnType:
		if err := requireType(colName, val, gjson.String); err != nil {
			return err
		}
		buf, err := base64.StdEncoding.DecodeString(val.String())
		if err != nil {
			return fmt.Errorf("Column %s was not valid base64: %w", colName, err)
		}
		return row.SetVarBytes(colName, buf)
	case *rf.SpatialKeyColumnType:
		if err := requireObject(colName, val); err != nil {
			return err
		}
		return row.SetSpatialKey(colName, layer.SpatialKey{
			Col: int32(val.Get("col").Int()),
			Row: int32(val.Get("row").Int()),
		})
	case *rf.ExtentColumnType:
		if err := requireObject(colName, val); err != nil {
			return err
		}
		return row.SetExtent(colName, layer.Extent{
			XMin: val.Get("xmin").Float(),
			YMin: val.Get("ymin").Float(),
			XMax: val.Get("xmax").Float(),
			YMax: val.Get("ymax").Float(),
		})
	case *rf.DimensionsColumnType:
		if err := requireObject(colName, val); err != nil {
			return err
		}
		return row.SetDimensions(colName, tile.Dimensions{
			Cols: int(val.Get("cols").Int()),
			Rows: int(val.Get("rows").Int()),
		})
	case *rf.TileColumnType:
		t, err := ParseTile(val)
		if err != nil {
			return fmt.Errorf("Column %s could not be parsed as a tile: %w", colName, err)
		}
		return row.SetTile(colName, t)
	case *rf.GeometryColumnType:
		if err := requireObject(colName, val); err != nil {
			return err
		}
		g, err := geojson.Decode([]byte(val.Raw))
		if err != nil {
			return fmt.Errorf("Column %s could not be parsed as GeoJSON: %w", colName, err)
		}
		return row.SetGeometry(colName, g)
	case *rf.CellTypeColumnType:
		if err := requireType(colName, val, gjson.String); err != nil {
			return err
		}
		cellType, err := tile.ParseCellType(val.String())
		if err != nil {
			return err
		}
		return row.SetCellType(colName, cellType)
	case *rf.StatisticsColumnType:
		var s reduce.Statistics
		if err := json.Unmarshal([]byte(val.Raw), &s); err != nil {
			return fmt.Errorf("Column %s could not be parsed as statistics: %w", colName, err)
		}
		return row.SetStatistics(colName, s)
	case *rf.HistogramColumnType:
		h := &reduce.Histogram{}
		if err := json.Unmarshal([]byte(val.Raw), h); err != nil {
			return fmt.Errorf("Column %s could not be parsed as a histogram: %w", colName, err)
		}
		return row.SetHistogram(colName, h)
	default:
		return fmt.Errorf("JSONL parsing does not support column type %T", colType)
	}
}

func parseTime(val gjson.Result, colName string, colType *rf.TimeColumnType, row rf.Row) error {
	if err := requireType(colName, val, gjson.String); err != nil {
		return err
	}
	tval, err := time.Parse(colType.Layout(), val.String())
	if err != nil {
		return fmt.Errorf("Column %s could not be parsed as datetime with format %s. Was: %s", colName, colType.Layout(), val.Raw)
	}
	return row.SetTime(colName, tval)
}

// ParseJSONRow parses a JSON document into a Row. Each column name is a gjson path;
// missing and null values are stored as nil.
func ParseJSONRow(names []string, types []rf.ColumnType, data gjson.Result, row rf.Row) error {
	for idx, colName := range names {
		val := data.Get(colName)
		if !val.Exists() || val.Type == gjson.Null {
			if err := row.SetNil(colName); err != nil {
				return err
			}
			continue
		}
		if err := parseValue(val, colName, types[idx], row); err != nil {
			return err
		}
	}
	return nil
}
