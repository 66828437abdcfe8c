package rasterframes

// RowFactory is a function that produces a fresh Row. Used specifically within a FlatMapOperation, a RowFactory gives the client a mechanism to return more Rows than were originally within a Partition.
type RowFactory func() Row

// AccumulatorFactory is a function that produces a fresh Accumulator
type AccumulatorFactory func() Accumulator

// DataFrameOperationResult is the result of applying a DataFrameOperation to a DataFrame:
// a Task that performs the "work", and the Schema of the data once that work is complete.
type DataFrameOperationResult struct {
	Task       Task
	DataSchema Schema
}

// DataFrameOperation is a generic DataFrame transform. Do produces the Task and
// (potentially) altered Schema which result from applying the operation to a DataFrame.
type DataFrameOperation struct {
	TaskType TaskType
	Do       func(d DataFrame) (*DataFrameOperationResult, error)
}

// MapOperation - A generic function for manipulating Rows in-place
type MapOperation func(row Row) error

// FilterOperation - A generic function for determining whether or not a Row should be retained
type FilterOperation func(row Row) (bool, error)

// FlatMapOperation - A generic function for turning a Row into multiple Rows. newRow() is used to produce new rows.
type FlatMapOperation func(row Row, newRow RowFactory) ([]Row, error)

// KeyingOperation - A generic function for generating a key from a Row
type KeyingOperation func(row Row) ([]byte, error)

// ReductionOperation - A generic function for reducing Rows which share a key. rrow is merged into lrow, and rrow is discarded.
type ReductionOperation func(lrow Row, rrow Row) error
