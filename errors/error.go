package errors

import (
	"fmt"
)

// NilValueError occurs when a value in a Row is null
type NilValueError struct{ Name string }

// Error returns a textual representation of this NilValueError
func (e NilValueError) Error() string {
	return fmt.Sprintf("Value for column %s is nil", e.Name)
}

// IncompatibleRowError occurs when a Row's width does not match an expected Schema
type IncompatibleRowError struct{}

// Error returns a textual representation of this IncompatibleRowError
func (e IncompatibleRowError) Error() string {
	return "Row width is not compatible with Schema"
}

// PartitionFullError occurs when a Partition has reached its max size an a new Row insertion is attempted
type PartitionFullError struct{}

// Error returns a textual representation of this PartitionFullError
func (e PartitionFullError) Error() string {
	return "Partition is full"
}

// NoMorePartitionsError occurs when there are no more partitions in a PartitionIterator
type NoMorePartitionsError struct{}

// Error returns a textual representation of this NoMorePartitionsError
func (e NoMorePartitionsError) Error() string {
	return "No more partitions"
}

// DimensionMismatchError occurs when two Tiles in an element-wise operation do not share dimensions
type DimensionMismatchError struct {
	LeftCols, LeftRows   int
	RightCols, RightRows int
}

// Error returns a textual representation of this DimensionMismatchError
func (e DimensionMismatchError) Error() string {
	return fmt.Sprintf("Tile dimensions do not match: %dx%d vs %dx%d", e.LeftCols, e.LeftRows, e.RightCols, e.RightRows)
}

// UnknownCRSError occurs when a coordinate reference system identifier cannot be resolved
type UnknownCRSError struct{ CRS string }

// Error returns a textual representation of this UnknownCRSError
func (e UnknownCRSError) Error() string {
	return fmt.Sprintf("Unknown coordinate reference system %q", e.CRS)
}

// SchemaError occurs when a Schema is absent or lacks a required column
type SchemaError struct{ Reason string }

// Error returns a textual representation of this SchemaError
func (e SchemaError) Error() string {
	return fmt.Sprintf("Schema error: %s", e.Reason)
}

// UnknownCellTypeError occurs when a cell type name cannot be parsed
type UnknownCellTypeError struct{ Name string }

// Error returns a textual representation of this UnknownCellTypeError
func (e UnknownCellTypeError) Error() string {
	return fmt.Sprintf("Unknown cell type %q", e.Name)
}

// UnknownFunctionError occurs when a function name is not present in the function registry
type UnknownFunctionError struct{ Name string }

// Error returns a textual representation of this UnknownFunctionError
func (e UnknownFunctionError) Error() string {
	return fmt.Sprintf("Unknown function %s", e.Name)
}

// ArityError occurs when a function is bound with the wrong number of operands
type ArityError struct {
	Name     string
	Expected int
	Actual   int
}

// Error returns a textual representation of this ArityError
func (e ArityError) Error() string {
	return fmt.Sprintf("Function %s expects %d operands, got %d", e.Name, e.Expected, e.Actual)
}

// OperandTypeError occurs when a function operand does not have the kind the function requires
type OperandTypeError struct {
	Name     string
	Position int
	Expected string
	Actual   string
}

// Error returns a textual representation of this OperandTypeError
func (e OperandTypeError) Error() string {
	return fmt.Sprintf("Operand %d of function %s must be %s, got %s", e.Position, e.Name, e.Expected, e.Actual)
}

// ColumnTypeError occurs when a Row value is read or written with the wrong type
type ColumnTypeError struct {
	Name     string
	Expected string
}

// Error returns a textual representation of this ColumnTypeError
func (e ColumnTypeError) Error() string {
	return fmt.Sprintf("Column %s is not of type %s", e.Name, e.Expected)
}
