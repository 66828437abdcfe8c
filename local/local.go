// Package local implements cell-wise ("local") map algebra over Tiles. Every operation
// produces a new Tile. A no-data cell in any operand produces a no-data cell in the result.
package local

import (
	"math"

	"github.com/jbouffard/rasterframes/errors"
	"github.com/jbouffard/rasterframes/tile"
)

// CellOperation combines two data cells. Returning NaN marks the result cell as no-data.
type CellOperation func(l, r float64) float64

func add(l, r float64) float64 {
	return l + r
}

func subtract(l, r float64) float64 {
	return l - r
}

func multiply(l, r float64) float64 {
	return l * r
}

func divide(l, r float64) float64 {
	if r == 0 {
		return math.NaN()
	}
	return l / r
}

func normalizedDifference(l, r float64) float64 {
	denom := l + r
	if denom == 0 {
		return math.NaN()
	}
	return (l - r) / denom
}

// Combine applies op to every pair of cells in two conformable Tiles, producing a Tile of
// CellType ct, widened where a result cell would not fit ct
func Combine(a, b *tile.Tile, ct tile.CellType, op CellOperation) (*tile.Tile, error) {
	if !a.Conformable(b) {
		return nil, errors.DimensionMismatchError{
			LeftCols: a.Cols(), LeftRows: a.Rows(),
			RightCols: b.Cols(), RightRows: b.Rows(),
		}
	}
	results := make([]float64, a.Size())
	for i := range results {
		results[i] = math.NaN()
		l, lok := a.GetIndex(i)
		if !lok {
			continue
		}
		r, rok := b.GetIndex(i)
		if !rok {
			continue
		}
		results[i] = op(l, r)
	}
	return tile.FromFloat64s(ct.Widen(results), a.Cols(), a.Rows(), results)
}

// Apply applies op to every cell of a Tile and a scalar, producing a Tile of CellType ct,
// widened where a result cell would not fit ct
func Apply(t *tile.Tile, c float64, ct tile.CellType, op CellOperation) (*tile.Tile, error) {
	results := make([]float64, t.Size())
	for i := range results {
		results[i] = math.NaN()
		if v, ok := t.GetIndex(i); ok {
			results[i] = op(v, c)
		}
	}
	return tile.FromFloat64s(ct.Widen(results), t.Cols(), t.Rows(), results)
}

// float64CellType widens a CellType to float64, keeping masked and raw no-data conventions
func float64CellType(ct tile.CellType) tile.CellType {
	switch ct.Policy {
	case tile.MaskNoData, tile.NoNoData:
		return tile.CellType{Kind: tile.Float64, Policy: ct.Policy}
	default:
		return tile.Float64CellType
	}
}

// quotientCellType is the result type of divisions and ratios, which keep their fractional part
func quotientCellType(ct tile.CellType) tile.CellType {
	if ct.Kind.IsFloat() {
		return ct
	}
	return float64CellType(ct)
}

// hasNoData returns a CellType which can represent no-data results
func hasNoData(ct tile.CellType) tile.CellType {
	if !ct.HasNoData() {
		return ct.WithMask()
	}
	return ct
}

// scalarCellType is the result type of an operation between a Tile and a scalar
func scalarCellType(ct tile.CellType, c float64) tile.CellType {
	if !ct.Kind.IsFloat() && c != math.Trunc(c) {
		return float64CellType(ct)
	}
	return ct
}

// Add sums two conformable Tiles cell-wise
func Add(a, b *tile.Tile) (*tile.Tile, error) {
	return Combine(a, b, tile.Promote(a.CellType(), b.CellType()), add)
}

// Subtract subtracts Tile b from Tile a cell-wise
func Subtract(a, b *tile.Tile) (*tile.Tile, error) {
	return Combine(a, b, tile.Promote(a.CellType(), b.CellType()), subtract)
}

// Multiply multiplies two conformable Tiles cell-wise
func Multiply(a, b *tile.Tile) (*tile.Tile, error) {
	return Combine(a, b, tile.Promote(a.CellType(), b.CellType()), multiply)
}

// Divide divides Tile a by Tile b cell-wise. Division by a zero cell produces no-data.
// Integer operands produce a float64 Tile.
func Divide(a, b *tile.Tile) (*tile.Tile, error) {
	ct := quotientCellType(tile.Promote(a.CellType(), b.CellType()))
	return Combine(a, b, ct, divide)
}

// NormalizedDifference computes (a - b) / (a + b) cell-wise, producing no-data where the
// denominator is zero. The result is always a float64 Tile.
func NormalizedDifference(a, b *tile.Tile) (*tile.Tile, error) {
	ct := float64CellType(tile.Promote(a.CellType(), b.CellType()))
	return Combine(a, b, ct, normalizedDifference)
}

// AddScalar adds a constant to every data cell of a Tile
func AddScalar(t *tile.Tile, c float64) (*tile.Tile, error) {
	return Apply(t, c, scalarCellType(t.CellType(), c), add)
}

// SubtractScalar subtracts a constant from every data cell of a Tile
func SubtractScalar(t *tile.Tile, c float64) (*tile.Tile, error) {
	return Apply(t, c, scalarCellType(t.CellType(), c), subtract)
}

// MultiplyScalar multiplies every data cell of a Tile by a constant
func MultiplyScalar(t *tile.Tile, c float64) (*tile.Tile, error) {
	return Apply(t, c, scalarCellType(t.CellType(), c), multiply)
}

// DivideScalar divides every data cell of a Tile by a constant. Division by zero
// produces a Tile of no-data cells.
func DivideScalar(t *tile.Tile, c float64) (*tile.Tile, error) {
	return Apply(t, c, hasNoData(quotientCellType(t.CellType())), divide)
}
