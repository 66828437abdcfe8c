package partition

import (
	"github.com/hashicorp/go-multierror"
	rf "github.com/jbouffard/rasterframes"
)

// MapRows runs a MapOperation on each row in this Partition, manipulating them in-place. Will fall back to creating a fresh partition if row errors occur.
func (p *partitionImpl) MapRows(fn rf.MapOperation) (rf.OperablePartition, error) {
	inPlace := true // start by attempting to manipulate rows in-place
	var result *partitionImpl
	var multierr *multierror.Error
	for i := 0; i < p.GetNumRows(); i++ {
		row := p.GetRow(i)
		err := fn(row)
		if err != nil {
			multierr = multierror.Append(multierr, err)
			// create a new partition and switch to non-in-place mode
			if inPlace {
				inPlace = false
				result = createPartitionImpl(p.maxRows, p.numRows, p.schema)
				// append all rows we've successfully processed so far (up to this one)
				for j := 0; j < i; j++ {
					if err := result.appendRowData(p.getRowData(j), p.getRowMeta(j), p.varRowData[j]); err != nil {
						return nil, err
					}
				}
			}
		} else if !inPlace { // if we're not in in-place mode, append successful rows to new Partition
			if err := result.appendRowData(p.getRowData(i), p.getRowMeta(i), p.varRowData[i]); err != nil {
				return nil, err
			}
		}
	}
	if inPlace {
		return p, nil
	}
	return result, multierr.ErrorOrNil()
}

// FlatMapRows runs a FlatMapOperation on each row in this Partition, creating new Partitions
func (p *partitionImpl) FlatMapRows(fn rf.FlatMapOperation) ([]rf.OperablePartition, error) {
	var multierr *multierror.Error
	// factory for producing new rows compatible with this Partition
	factory := func() rf.Row {
		return createEmptyRow(p.schema)
	}
	parts := []rf.OperablePartition{createPartitionImpl(p.maxRows, defaultCapacity, p.schema)}
	for i := 0; i < p.GetNumRows(); i++ {
		newRows, err := fn(p.GetRow(i), factory)
		if err != nil {
			multierr = multierror.Append(multierr, err)
			continue
		}
		for _, row := range newRows {
			appendTarget := parts[len(parts)-1]
			if appendTarget.GetNumRows() >= appendTarget.GetMaxRows() {
				parts = append(parts, createPartitionImpl(p.maxRows, defaultCapacity, p.schema))
				appendTarget = parts[len(parts)-1]
			}
			if err := appendTarget.AppendRow(row); err != nil {
				multierr = multierror.Append(multierr, err)
			}
		}
	}
	return parts, multierr.ErrorOrNil()
}

// FilterRows filters the Rows in the current Partition, creating a new one
func (p *partitionImpl) FilterRows(fn rf.FilterOperation) (rf.OperablePartition, error) {
	var multierr *multierror.Error
	result := createPartitionImpl(p.maxRows, p.numRows, p.schema)
	for i := 0; i < p.GetNumRows(); i++ {
		shouldKeep, err := fn(p.GetRow(i))
		if err != nil {
			multierr = multierror.Append(multierr, err)
			continue
		}
		if shouldKeep {
			// the result cannot fill up, since it holds fewer rows than this Partition
			if err := result.appendRowData(p.getRowData(i), p.getRowMeta(i), p.varRowData[i]); err != nil {
				return nil, err
			}
		}
	}
	return result, multierr.ErrorOrNil()
}

// Repack repacks a Partition according to a new Schema, matching columns by name
func (p *partitionImpl) Repack(newSchema rf.Schema) (rf.OperablePartition, error) {
	part := createPartitionImpl(p.maxRows, p.numRows, newSchema)
	for i := 0; i < p.GetNumRows(); i++ {
		newRow, err := p.GetRow(i).(*rowImpl).Repack(newSchema)
		if err != nil {
			return nil, err
		}
		if err = part.appendRowData(newRow.data, newRow.meta, newRow.varData); err != nil {
			return nil, err
		}
	}
	return part, nil
}
