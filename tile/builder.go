package tile

import (
	"fmt"
	"math"
)

// Builder accumulates cell values for a new Tile. A Builder hands its buffers over to
// the Tile produced by Build, and cannot be used afterwards.
type Builder struct {
	cellType CellType
	cols     int
	rows     int
	data     []byte
	mask     []byte
}

// MaxCells returns the largest number of cells a Tile of the given DataKind can hold
func MaxCells(kind DataKind) int {
	if kind.Size() == 0 {
		return 0
	}
	return math.MaxInt32 / kind.Size()
}

// ValidateDimensions returns an error unless a cols x rows Tile of CellType ct can be constructed
func ValidateDimensions(ct CellType, cols int, rows int) error {
	if err := ct.Validate(); err != nil {
		return err
	}
	if cols <= 0 || rows <= 0 {
		return fmt.Errorf("Tile dimensions must be positive, got %dx%d", cols, rows)
	}
	if limit := MaxCells(ct.Kind); cols > limit || rows > limit/cols {
		return fmt.Errorf("Tile dimensions %dx%d exceed %d %s cells", cols, rows, limit, ct.Kind)
	}
	return nil
}

// NewBuilder returns a Builder for a cols x rows Tile of the given CellType, with every
// cell initialized to no-data (or to zero, for cell types without no-data)
func NewBuilder(ct CellType, cols int, rows int) (*Builder, error) {
	if err := ValidateDimensions(ct, cols, rows); err != nil {
		return nil, err
	}
	n := cols * rows
	b := &Builder{
		cellType: ct,
		cols:     cols,
		rows:     rows,
		data:     make([]byte, n*ct.Kind.Size()),
	}
	switch ct.Policy {
	case MaskNoData:
		b.mask = make([]byte, maskLen(n))
		for i := range b.mask {
			b.mask[i] = 0xFF
		}
	case ConstantNoData, UserDefinedNoData:
		sentinel, _ := ct.Sentinel()
		if sentinel != 0 || ct.Kind.IsFloat() {
			for i := 0; i < n; i++ {
				encodeCell(ct.Kind, b.data, i, sentinel)
			}
		}
	}
	return b, nil
}

func (b *Builder) checkBuilt() {
	if b.data == nil {
		panic(fmt.Errorf("Builder has already produced a Tile"))
	}
}

// Dimensions returns the dimensions of the Tile under construction
func (b *Builder) Dimensions() Dimensions {
	return Dimensions{Cols: b.cols, Rows: b.rows}
}

// SetIndex stores a value at flat index i. A NaN value marks the cell as no-data.
func (b *Builder) SetIndex(i int, v float64) {
	b.checkBuilt()
	if math.IsNaN(v) && b.cellType.Policy != NoNoData {
		b.SetNoData(i)
		return
	}
	encodeCell(b.cellType.Kind, b.data, i, b.cellType.clampData(v))
	if b.mask != nil {
		maskSet(b.mask, i, false)
	}
}

// Set stores a value at (col, row). A NaN value marks the cell as no-data.
func (b *Builder) Set(col, row int, v float64) {
	if col < 0 || col >= b.cols || row < 0 || row >= b.rows {
		panic(fmt.Errorf("cell (%d, %d) is outside of a %dx%d tile", col, row, b.cols, b.rows))
	}
	b.SetIndex(row*b.cols+col, v)
}

// SetNoData marks the cell at flat index i as no-data. This is a no-op for raw cell types.
func (b *Builder) SetNoData(i int) {
	b.checkBuilt()
	switch b.cellType.Policy {
	case MaskNoData:
		encodeCell(b.cellType.Kind, b.data, i, 0)
		maskSet(b.mask, i, true)
	case ConstantNoData, UserDefinedNoData:
		sentinel, _ := b.cellType.Sentinel()
		encodeCell(b.cellType.Kind, b.data, i, sentinel)
	}
}

// Build produces the Tile, transferring ownership of the Builder's buffers
func (b *Builder) Build() *Tile {
	b.checkBuilt()
	t := &Tile{
		cellType: b.cellType,
		cols:     b.cols,
		rows:     b.rows,
		data:     b.data,
		mask:     b.mask,
	}
	b.data = nil
	b.mask = nil
	return t
}

// FromFloat64s constructs a Tile from row-major values, where NaN denotes a no-data cell
func FromFloat64s(ct CellType, cols int, rows int, values []float64) (*Tile, error) {
	b, err := NewBuilder(ct, cols, rows)
	if err != nil {
		return nil, err
	}
	if len(values) != cols*rows {
		return nil, fmt.Errorf("expected %d cell values for a %dx%d tile, got %d", cols*rows, cols, rows, len(values))
	}
	for i, v := range values {
		b.SetIndex(i, v)
	}
	return b.Build(), nil
}

// MakeConstantTile constructs a Tile where every cell holds the same value
func MakeConstantTile(value float64, cols int, rows int, ct CellType) (*Tile, error) {
	b, err := NewBuilder(ct, cols, rows)
	if err != nil {
		return nil, err
	}
	for i := 0; i < cols*rows; i++ {
		b.SetIndex(i, value)
	}
	return b.Build(), nil
}

// Convert produces a copy of this Tile with a different CellType. Data values are
// truncated and clamped to the new kind's data range; no-data cells remain no-data.
func (t *Tile) Convert(ct CellType) (*Tile, error) {
	if ct == t.cellType {
		return t, nil
	}
	b, err := NewBuilder(ct, t.cols, t.rows)
	if err != nil {
		return nil, err
	}
	for i := 0; i < t.Size(); i++ {
		if v, ok := t.GetIndex(i); ok {
			b.SetIndex(i, v)
		}
	}
	return b.Build(), nil
}

// fromBuffers constructs a Tile directly from a cell buffer and mask, validating their sizes
func fromBuffers(ct CellType, cols int, rows int, data []byte, mask []byte) (*Tile, error) {
	if err := ValidateDimensions(ct, cols, rows); err != nil {
		return nil, err
	}
	if len(data) != cols*rows*ct.Kind.Size() {
		return nil, fmt.Errorf("expected %d bytes of cell data, got %d", cols*rows*ct.Kind.Size(), len(data))
	}
	if ct.IsMasked() && len(mask) != maskLen(cols*rows) {
		return nil, fmt.Errorf("expected %d bytes of mask data, got %d", maskLen(cols*rows), len(mask))
	}
	if !ct.IsMasked() {
		mask = nil
	}
	return &Tile{cellType: ct, cols: cols, rows: rows, data: data, mask: mask}, nil
}
