package rasterframes

import (
	"fmt"
	"time"

	"github.com/jbouffard/rasterframes/layer"
	"github.com/jbouffard/rasterframes/tile"
)

// IsVariableLength returns true iff colType is a VarColumnType
func IsVariableLength(colType ColumnType) (isVariableLength bool) {
	_, isVariableLength = colType.(VarColumnType)
	return
}

// ColumnType is an interface which is implemented to define a supported fixed-width column types.
type ColumnType interface {
	Size() int                     // returns size in bytes of a column type
	ToString(v interface{}) string // produces a string representation of a value of this type
}

// VarColumnType is an interface which is implemented to define supported variable-length column types. Size() for VarColumnTypes should always return 0.
type VarColumnType interface {
	ColumnType
	Serialize(v interface{}) ([]byte, error) // Defines how this type is serialized
	Deserialize([]byte) (interface{}, error) // Defines how this type is deserialized
}

// BoolColumnType is a column type which stores a boolean value
type BoolColumnType struct{}

// Size in bytes of a BoolColumn
func (b *BoolColumnType) Size() int {
	return 1
}

// ToString produces a string representation of a value of a BoolColumnType value
func (b *BoolColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%t", v.(bool))
}

// Int32ColumnType is a column type which stores a int32 value
type Int32ColumnType struct{}

// Size in bytes of a Int32Column
func (b *Int32ColumnType) Size() int {
	return 4
}

// ToString produces a string representation of a value of a Int32ColumnType value
func (b *Int32ColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%d", v.(int32))
}

// Int64ColumnType is a column type which stores a int64 value
type Int64ColumnType struct{}

// Size in bytes of a Int64Column
func (b *Int64ColumnType) Size() int {
	return 8
}

// ToString produces a string representation of a value of a Int64ColumnType value
func (b *Int64ColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%d", v.(int64))
}

// Float64ColumnType is a column type which stores a float64 value
type Float64ColumnType struct{}

// Size in bytes of a Float64Column
func (b *Float64ColumnType) Size() int {
	return 8
}

// ToString produces a string representation of a value of a Float64ColumnType value
func (b *Float64ColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%f", v.(float64))
}

// TimeColumnType is a column type which stores a time.Time value, in UTC
type TimeColumnType struct {
	Format string // the layout used to parse values of this column from text. Defaults to RFC3339.
}

// Size in bytes of a TimeColumn
func (b *TimeColumnType) Size() int {
	return 15
}

// ToString produces a string representation of a value of a TimeColumnType value
func (b *TimeColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("\"%s\"", v.(time.Time).Format(b.Layout()))
}

// Layout returns the time layout used to parse and print values of this column
func (b *TimeColumnType) Layout() string {
	if b.Format == "" {
		return time.RFC3339
	}
	return b.Format
}

// TemporalKeyColumnType is a column type which stores the temporal key of a Tile, in UTC.
// A schema has at most one temporal key column.
type TemporalKeyColumnType struct {
	TimeColumnType
}

// SpatialKeyColumnType is a column type which stores the layout.SpatialKey of a Tile.
// A RasterFrame schema has exactly one spatial key column.
type SpatialKeyColumnType struct{}

// Size in bytes of a SpatialKeyColumn
func (b *SpatialKeyColumnType) Size() int {
	return 8
}

// ToString produces a string representation of a value of a SpatialKeyColumnType value
func (b *SpatialKeyColumnType) ToString(v interface{}) string {
	return v.(layer.SpatialKey).String()
}

// ExtentColumnType is a column type which stores a layer.Extent
type ExtentColumnType struct{}

// Size in bytes of an ExtentColumn
func (b *ExtentColumnType) Size() int {
	return 32
}

// ToString produces a string representation of a value of an ExtentColumnType value
func (b *ExtentColumnType) ToString(v interface{}) string {
	return v.(layer.Extent).String()
}

// DimensionsColumnType is a column type which stores the tile.Dimensions of a Tile
type DimensionsColumnType struct{}

// Size in bytes of a DimensionsColumn
func (b *DimensionsColumnType) Size() int {
	return 8
}

// ToString produces a string representation of a value of a DimensionsColumnType value
func (b *DimensionsColumnType) ToString(v interface{}) string {
	return v.(tile.Dimensions).String()
}
