package jsonl

import (
	"bufio"
	"fmt"
	"strings"
	"sync"

	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/datasource"
	"github.com/jbouffard/rasterframes/errors"
	"github.com/tidwall/gjson"
)

type jsonlFilePartitionIterator struct {
	parser       *Parser
	scanner      *bufio.Scanner
	hasNext      bool
	lineNum      int
	source       rf.DataSource
	schema       rf.Schema
	lock         sync.Mutex
	endListeners []func()
}

// OnEnd registers a listener which fires when this iterator runs out of Partitions
func (jsonli *jsonlFilePartitionIterator) OnEnd(onEnd func()) {
	jsonli.lock.Lock()
	defer jsonli.lock.Unlock()
	jsonli.endListeners = append(jsonli.endListeners, onEnd)
}

// HasNextPartition returns true iff this PartitionIterator can produce another Partition
func (jsonli *jsonlFilePartitionIterator) HasNextPartition() bool {
	jsonli.lock.Lock()
	defer jsonli.lock.Unlock()
	return jsonli.hasNext
}

func (jsonli *jsonlFilePartitionIterator) finish() {
	jsonli.hasNext = false
	for _, l := range jsonli.endListeners {
		l()
	}
	jsonli.endListeners = []func(){}
}

// NextPartition returns the next Partition if one is available, or an error.
// NoMorePartitionsError is returned once the data is exhausted.
func (jsonli *jsonlFilePartitionIterator) NextPartition() (rf.Partition, error) {
	jsonli.lock.Lock()
	defer jsonli.lock.Unlock()
	if !jsonli.hasNext {
		return nil, errors.NoMorePartitionsError{}
	}
	colNames := jsonli.schema.ColumnNames()
	colTypes := jsonli.schema.ColumnTypes()
	part := datasource.CreateBuildablePartition(jsonli.parser.PartitionSize(), jsonli.schema)
	for {
		// If the partition is full, we're done
		if part.GetNumRows() == part.GetMaxRows() {
			return part, nil
		}
		// Otherwise, grab another line from the file
		if !jsonli.scanner.Scan() {
			if err := jsonli.scanner.Err(); err != nil {
				return nil, err
			}
			jsonli.finish()
			if part.GetNumRows() == 0 {
				return nil, errors.NoMorePartitionsError{}
			}
			return part, nil
		}
		jsonli.lineNum++
		rowString := jsonli.scanner.Text()
		if len(strings.TrimSpace(rowString)) == 0 {
			continue
		}
		if !gjson.Valid(rowString) {
			return nil, fmt.Errorf("line %d is not valid JSON", jsonli.lineNum)
		}
		// create a new row to place values into
		row, err := part.AppendEmptyRowData()
		if err != nil {
			return nil, err
		}
		if err = ParseJSONRow(colNames, colTypes, gjson.Parse(rowString), row); err != nil {
			return nil, fmt.Errorf("Unable to parse line %d: %w", jsonli.lineNum, err)
		}
	}
}
