package dsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"sync"

	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/datasource"
	"github.com/jbouffard/rasterframes/errors"
)

type dsvFilePartitionIterator struct {
	parser       *Parser
	reader       *csv.Reader
	hasNext      bool
	source       rf.DataSource
	schema       rf.Schema
	lock         sync.Mutex
	endListeners []func()
}

// OnEnd registers a listener which fires when this iterator runs out of Partitions
func (dsvi *dsvFilePartitionIterator) OnEnd(onEnd func()) {
	dsvi.lock.Lock()
	defer dsvi.lock.Unlock()
	dsvi.endListeners = append(dsvi.endListeners, onEnd)
}

// HasNextPartition returns true iff this PartitionIterator can produce another Partition
func (dsvi *dsvFilePartitionIterator) HasNextPartition() bool {
	dsvi.lock.Lock()
	defer dsvi.lock.Unlock()
	return dsvi.hasNext
}

func (dsvi *dsvFilePartitionIterator) finish() {
	dsvi.hasNext = false
	for _, l := range dsvi.endListeners {
		l()
	}
	dsvi.endListeners = []func(){}
}

// NextPartition returns the next Partition if one is available, or an error.
// NoMorePartitionsError is returned once the data is exhausted.
func (dsvi *dsvFilePartitionIterator) NextPartition() (rf.Partition, error) {
	dsvi.lock.Lock()
	defer dsvi.lock.Unlock()
	if !dsvi.hasNext {
		return nil, errors.NoMorePartitionsError{}
	}
	colNames := dsvi.schema.ColumnNames()
	colTypes := dsvi.schema.ColumnTypes()
	part := datasource.CreateBuildablePartition(dsvi.parser.PartitionSize(), dsvi.schema)
	// parse lines
	for {
		// If the partition is full, we're done
		if part.GetNumRows() == part.GetMaxRows() {
			return part, nil
		}
		// Otherwise, grab another line from the file
		rowStrings, err := dsvi.reader.Read()
		if err == io.EOF {
			dsvi.finish()
			if part.GetNumRows() == 0 {
				return nil, errors.NoMorePartitionsError{}
			}
			return part, nil
		} else if err != nil {
			return nil, err
		}
		// create a new row to place values into
		row, err := part.AppendEmptyRowData()
		if err != nil {
			return nil, err
		}
		if err = scanRow(dsvi.parser.conf.NilValue, colNames, colTypes, rowStrings, row); err != nil {
			line, _ := dsvi.reader.FieldPos(0)
			return nil, fmt.Errorf("Unable to parse line %d: %w", line, err)
		}
	}
}
