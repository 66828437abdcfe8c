package tiles

import (
	"fmt"
	"sync"

	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/datasource"
	"github.com/jbouffard/rasterframes/errors"
)

// PartitionLoader loads a contiguous batch of Records
type PartitionLoader struct {
	start  int
	end    int
	source *DataSource
}

// ToString returns a string representation of this PartitionLoader
func (pl *PartitionLoader) ToString() string {
	return fmt.Sprintf("Tile layer loader: records [%d, %d)", pl.start, pl.end)
}

// Load produces Partitions from a batch of Records. Tile layers are already decoded, so
// no DataSourceParser is involved.
func (pl *PartitionLoader) Load(parser rf.DataSourceParser, schema rf.Schema) (rf.PartitionIterator, error) {
	return &recordIterator{
		next:         pl.start,
		end:          pl.end,
		source:       pl.source,
		schema:       schema,
		endListeners: []func(){},
	}, nil
}

type recordIterator struct {
	next         int
	end          int
	source       *DataSource
	schema       rf.Schema
	lock         sync.Mutex
	endListeners []func()
}

func (ri *recordIterator) OnEnd(onEnd func()) {
	ri.lock.Lock()
	defer ri.lock.Unlock()
	ri.endListeners = append(ri.endListeners, onEnd)
}

func (ri *recordIterator) HasNextPartition() bool {
	ri.lock.Lock()
	defer ri.lock.Unlock()
	return ri.next < ri.end
}

func (ri *recordIterator) NextPartition() (rf.Partition, error) {
	ri.lock.Lock()
	defer ri.lock.Unlock()
	if ri.next >= ri.end {
		return nil, errors.NoMorePartitionsError{}
	}
	conf := ri.source.conf
	part := datasource.CreateBuildablePartition(conf.PartitionSize, ri.schema)
	for ; ri.next < ri.end && part.GetNumRows() < part.GetMaxRows(); ri.next++ {
		rec := ri.source.records[ri.next]
		row, err := part.AppendEmptyRowData()
		if err != nil {
			return nil, err
		}
		if err = row.SetSpatialKey(conf.KeyColumn, rec.Key); err != nil {
			return nil, err
		}
		if conf.TimeColumn != "" {
			if rec.Time == nil {
				err = row.SetNil(conf.TimeColumn)
			} else {
				err = row.SetTime(conf.TimeColumn, *rec.Time)
			}
			if err != nil {
				return nil, err
			}
		}
		for i, name := range conf.TileColumns {
			if err = row.SetTile(name, rec.Tiles[i]); err != nil {
				return nil, err
			}
		}
	}
	if ri.next >= ri.end {
		for _, l := range ri.endListeners {
			l()
		}
		ri.endListeners = []func(){}
	}
	return part, nil
}
