package dsv

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ctessum/geom/encoding/wkb"
	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/layer"
	"github.com/jbouffard/rasterframes/tile"
)

// parseFloats parses exactly n space-separated floats
func parseFloats(colVal string, n int) ([]float64, error) {
	fields := strings.Fields(colVal)
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d space-separated numbers, got %q", n, colVal)
	}
	result := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

func parseTime(colType *rf.TimeColumnType, name string, colVal string) (time.Time, error) {
	format := colType.Layout()
	tval, err := time.Parse(format, colVal)
	if err != nil {
		return tval, fmt.Errorf("Column %s could not be parsed as datetime with format %s. Was: %#v", name, format, colVal)
	}
	return tval, nil
}

// scanRow fills row from one record. Empty fields and nilValue become nil cells.
func scanRow(nilValue string, names []string, colTypes []rf.ColumnType, rowStrings []string, row rf.Row) error {
	for i := 0; i < len(rowStrings); i++ {
		colVal := rowStrings[i]
		// check for a nil value
		if len(colVal) == 0 || colVal == nilValue {
			if err := row.SetNil(names[i]); err != nil {
				return err
			}
			continue
		}
		var err error
		// otherwise, parse type
		switch ct := colTypes[i].(type) {
		case *rf.BoolColumnType:
			var bval bool
			if bval, err = strconv.ParseBool(colVal); err == nil {
				err = row.SetBool(names[i], bval)
			}
		case *rf.Int32ColumnType:
			var ival int64
			if ival, err = strconv.ParseInt(colVal, 10, 32); err == nil {
				err = row.SetInt32(names[i], int32(ival))
			}
		case *rf.Int64ColumnType:
			var ival int64
			if ival, err = strconv.ParseInt(colVal, 10, 64); err == nil {
				err = row.SetInt64(names[i], ival)
			}
		case *rf.Float64ColumnType:
			var fval float64
			if fval, err = strconv.ParseFloat(colVal, 64); err == nil {
				err = row.SetFloat64(names[i], fval)
			}
		case *rf.TimeColumnType:
			var tval time.Time
			if tval, err = parseTime(ct, names[i], colVal); err == nil {
				err = row.SetTime(names[i], tval)
			}
		case *rf.TemporalKeyColumnType:
			var tval time.Time
			if tval, err = parseTime(&ct.TimeColumnType, names[i], colVal); err == nil {
				err = row.SetTime(names[i], tval)
			}
		case *rf.VarStringColumnType:
			err = row.SetVarString(names[i], colVal)
		case *rf.VarBytesColumnType:
			err = row.SetVarBytes(names[i], []byte(colVal))
		case *rf.SpatialKeyColumnType:
			var vals []float64
			if vals, err = parseFloats(colVal, 2); err == nil {
				err = row.SetSpatialKey(names[i], layer.SpatialKey{Col: int32(vals[0]), Row: int32(vals[1])})
			}
		case *rf.ExtentColumnType:
			var vals []float64
			if vals, err = parseFloats(colVal, 4); err == nil {
				err = row.SetExtent(names[i], layer.Extent{XMin: vals[0], YMin: vals[1], XMax: vals[2], YMax: vals[3]})
			}
		case *rf.CellTypeColumnType:
			var cellType tile.CellType
			if cellType, err = tile.ParseCellType(colVal); err == nil {
				err = row.SetCellType(names[i], cellType)
			}
		case *rf.TileColumnType:
			var buf []byte
			if buf, err = base64.StdEncoding.DecodeString(colVal); err != nil {
				break
			}
			var t *tile.Tile
			if t, err = tile.Decode(buf); err == nil {
				err = row.SetTile(names[i], t)
			}
		case *rf.GeometryColumnType:
			var buf []byte
			if buf, err = hex.DecodeString(colVal); err != nil {
				break
			}
			g, derr := wkb.Decode(buf)
			if derr != nil {
				err = derr
				break
			}
			err = row.SetGeometry(names[i], g)
		default:
			return fmt.Errorf("DSV parsing does not support column type %T", colTypes[i])
		}
		if err != nil {
			return fmt.Errorf("Column %s: %w", names[i], err)
		}
	}
	return nil
}
