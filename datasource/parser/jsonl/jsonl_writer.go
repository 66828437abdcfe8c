package jsonl

import (
	"encoding/base64"
	"fmt"
	"math"
	"time"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/tile"
)

// TileJSON is the JSON representation of a Tile which ParseTile reads
type TileJSON struct {
	CellType string     `json:"cellType"`
	Cols     int        `json:"cols"`
	Rows     int        `json:"rows"`
	Cells    []*float64 `json:"cells"`
}

// ToTileJSON converts a Tile to its JSON representation, with nil cells for no-data
func ToTileJSON(t *tile.Tile) TileJSON {
	cells := make([]*float64, t.Size())
	for i := range cells {
		if v, ok := t.GetIndex(i); ok && !math.IsNaN(v) {
			cells[i] = &v
		}
	}
	return TileJSON{
		CellType: t.CellType().String(),
		Cols:     t.Cols(),
		Rows:     t.Rows(),
		Cells:    cells,
	}
}

func formatValue(colType rf.ColumnType, v interface{}) (interface{}, error) {
	switch ct := colType.(type) {
	case *rf.TimeColumnType:
		return v.(time.Time).Format(ct.Layout()), nil
	case *rf.TemporalKeyColumnType:
		return v.(time.Time).Format(ct.Layout()), nil
	case *rf.VarBytesColumnType:
		return base64.StdEncoding.EncodeToString(v.([]byte)), nil
	case *rf.TileColumnType:
		return ToTileJSON(v.(*tile.Tile)), nil
	case *rf.GeometryColumnType:
		buf, err := geojson.Encode(v.(geom.Geom))
		if err != nil {
			return nil, err
		}
		return jsonRaw(buf), nil
	case *rf.CellTypeColumnType:
		return v.(tile.CellType).String(), nil
	default:
		return v, nil
	}
}

type jsonRaw []byte

// MarshalJSON returns the raw JSON
func (r jsonRaw) MarshalJSON() ([]byte, error) {
	return r, nil
}

// MarshalRow produces a single line of JSON from a Row, in a form which the Parser reads back.
// Column names are used as top-level keys.
func MarshalRow(row rf.Row) ([]byte, error) {
	out := make(map[string]interface{})
	err := row.Schema().ForEachColumn(func(name string, col rf.Column) error {
		if row.IsNil(name) {
			out[name] = nil
			return nil
		}
		v, err := row.Get(name)
		if err != nil {
			return err
		}
		formatted, err := formatValue(col.Type(), v)
		if err != nil {
			return fmt.Errorf("Column %s could not be formatted: %w", name, err)
		}
		out[name] = formatted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}
