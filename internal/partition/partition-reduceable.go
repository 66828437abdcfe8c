package partition

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	rf "github.com/jbouffard/rasterframes"
)

// reducedRow locates a reduction result within the output Partitions of a Reducer
type reducedRow struct {
	part   int
	rowNum int
}

// A Reducer merges keyed Rows from many Partitions, so that one Row remains per key.
// Rows are emitted in order of first appearance of their key.
type Reducer struct {
	fn                  rf.ReductionOperation
	schema              rf.Schema
	targetPartitionSize int
	parts               []*partitionImpl
	index               map[uint64]reducedRow
}

// CreateReducer returns a Reducer for Rows of the given Schema. A nil ReductionOperation
// keeps only the first Row for each key.
func CreateReducer(fn rf.ReductionOperation, schema rf.Schema, targetPartitionSize int) *Reducer {
	return &Reducer{
		fn:                  fn,
		schema:              schema,
		targetPartitionSize: targetPartitionSize,
		parts:               make([]*partitionImpl, 0),
		index:               make(map[uint64]reducedRow),
	}
}

// Add merges all Rows of a keyed Partition into this Reducer
func (r *Reducer) Add(part rf.OperablePartition) error {
	if !part.IsKeyed() {
		return fmt.Errorf("Partition %s must be keyed before reduction", part.ID())
	}
	var multierr *multierror.Error
	for i := 0; i < part.GetNumRows(); i++ {
		key, err := part.GetKey(i)
		if err != nil {
			return err
		}
		row := part.GetRow(i)
		loc, ok := r.index[key]
		if !ok {
			if len(r.parts) == 0 || r.parts[len(r.parts)-1].GetNumRows() >= r.targetPartitionSize {
				r.parts = append(r.parts, createPartitionImpl(r.targetPartitionSize, defaultCapacity, r.schema))
			}
			target := r.parts[len(r.parts)-1]
			if err := target.AppendRow(row); err != nil {
				return err
			}
			r.index[key] = reducedRow{part: len(r.parts) - 1, rowNum: target.GetNumRows() - 1}
			continue
		}
		if r.fn == nil {
			continue
		}
		if err := r.fn(r.parts[loc.part].GetRow(loc.rowNum), row); err != nil {
			multierr = multierror.Append(multierr, err)
		}
	}
	return multierr.ErrorOrNil()
}

// Partitions returns the reduced Partitions
func (r *Reducer) Partitions() []rf.OperablePartition {
	result := make([]rf.OperablePartition, len(r.parts))
	for i, p := range r.parts {
		result[i] = p
	}
	return result
}

// NumKeys returns the number of distinct keys seen by this Reducer
func (r *Reducer) NumKeys() int {
	return len(r.index)
}
