// Package tile implements Tiles, immutable 2-D grids of numeric cells tagged with a CellType,
// which are the unit of raster computation.
package tile

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Dimensions describes the width (cols) and height (rows) of a Tile
type Dimensions struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// String returns a textual representation of these Dimensions
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Cols, d.Rows)
}

// Tile is an immutable grid of cells. Tiles are constructed through a Builder,
// or one of the helpers in this package, and are never modified afterwards.
type Tile struct {
	cellType CellType
	cols     int
	rows     int
	data     []byte // little-endian cell values, row-major
	mask     []byte // one bit per cell, set when a cell is no-data. Only present for MaskNoData cell types.
}

// CellType returns the CellType of this Tile
func (t *Tile) CellType() CellType {
	return t.cellType
}

// Cols returns the width of this Tile
func (t *Tile) Cols() int {
	return t.cols
}

// Rows returns the height of this Tile
func (t *Tile) Rows() int {
	return t.rows
}

// Dimensions returns the width and height of this Tile
func (t *Tile) Dimensions() Dimensions {
	return Dimensions{Cols: t.cols, Rows: t.rows}
}

// Size returns the number of cells in this Tile
func (t *Tile) Size() int {
	return t.cols * t.rows
}

// Conformable returns true iff this Tile and another share the same dimensions
func (t *Tile) Conformable(o *Tile) bool {
	return t.cols == o.cols && t.rows == o.rows
}

// IsNoData returns true iff the cell at flat index i is a no-data cell
func (t *Tile) IsNoData(i int) bool {
	switch t.cellType.Policy {
	case MaskNoData:
		return maskGet(t.mask, i)
	case NoNoData:
		return false
	default:
		return t.cellType.isSentinel(decodeCell(t.cellType.Kind, t.data, i))
	}
}

// GetIndex returns the value of the cell at flat index i, and false if it is a no-data cell
func (t *Tile) GetIndex(i int) (float64, bool) {
	if t.IsNoData(i) {
		return math.NaN(), false
	}
	return decodeCell(t.cellType.Kind, t.data, i), true
}

// Get returns the value of the cell at (col, row), and false if it is a no-data cell
func (t *Tile) Get(col, row int) (float64, bool) {
	if col < 0 || col >= t.cols || row < 0 || row >= t.rows {
		panic(fmt.Errorf("cell (%d, %d) is outside of a %dx%d tile", col, row, t.cols, t.rows))
	}
	return t.GetIndex(row*t.cols + col)
}

// ForEachData calls fn for every data cell in this Tile, in row-major order
func (t *Tile) ForEachData(fn func(i int, v float64)) {
	n := t.Size()
	for i := 0; i < n; i++ {
		if v, ok := t.GetIndex(i); ok {
			fn(i, v)
		}
	}
}

// Float64s returns the cells of this Tile as float64s, with NaN in place of no-data cells
func (t *Tile) Float64s() []float64 {
	n := t.Size()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i], _ = t.GetIndex(i)
	}
	return out
}

// Equal returns true iff this Tile and another have identical dimensions, cell types,
// no-data positions and data cell values
func (t *Tile) Equal(o *Tile) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil || t.cellType != o.cellType || !t.Conformable(o) {
		return false
	}
	for i := 0; i < t.Size(); i++ {
		lv, lok := t.GetIndex(i)
		rv, rok := o.GetIndex(i)
		if lok != rok || (lok && lv != rv) {
			return false
		}
	}
	return true
}

// String returns a short description of this Tile
func (t *Tile) String() string {
	return fmt.Sprintf("Tile(%s, %dx%d)", t.cellType, t.cols, t.rows)
}

func decodeCell(kind DataKind, data []byte, i int) float64 {
	switch kind {
	case Uint8:
		return float64(data[i])
	case Int8:
		return float64(int8(data[i]))
	case Uint16:
		return float64(binary.LittleEndian.Uint16(data[i*2:]))
	case Int16:
		return float64(int16(binary.LittleEndian.Uint16(data[i*2:])))
	case Uint32:
		return float64(binary.LittleEndian.Uint32(data[i*4:]))
	case Int32:
		return float64(int32(binary.LittleEndian.Uint32(data[i*4:])))
	case Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])))
	case Float64:
		return math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	default:
		panic(fmt.Errorf("unknown cell kind %s", kind))
	}
}

// encodeCell stores v at flat index i, truncating toward zero and clamping to the range of integer kinds
func encodeCell(kind DataKind, data []byte, i int, v float64) {
	if !kind.IsFloat() {
		if math.IsNaN(v) {
			v = 0
		}
		v = math.Trunc(v)
		if v < kind.MinValue() {
			v = kind.MinValue()
		} else if v > kind.MaxValue() {
			v = kind.MaxValue()
		}
	}
	switch kind {
	case Uint8:
		data[i] = uint8(v)
	case Int8:
		data[i] = byte(int8(v))
	case Uint16:
		binary.LittleEndian.PutUint16(data[i*2:], uint16(v))
	case Int16:
		binary.LittleEndian.PutUint16(data[i*2:], uint16(int16(v)))
	case Uint32:
		binary.LittleEndian.PutUint32(data[i*4:], uint32(v))
	case Int32:
		binary.LittleEndian.PutUint32(data[i*4:], uint32(int32(v)))
	case Float32:
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(float32(v)))
	case Float64:
		binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(v))
	default:
		panic(fmt.Errorf("unknown cell kind %s", kind))
	}
}

func maskLen(n int) int {
	return (n + 7) / 8
}

func maskGet(mask []byte, i int) bool {
	return mask[i/8]&(1<<uint(i%8)) != 0
}

func maskSet(mask []byte, i int, noData bool) {
	if noData {
		mask[i/8] |= 1 << uint(i%8)
	} else {
		mask[i/8] &^= 1 << uint(i%8)
	}
}
