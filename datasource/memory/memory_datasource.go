// Package memory provides a DataSource which parses byte buffers held in memory
package memory

import (
	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/datasource"
)

// DataSource is a set of buffers containing data which will be manipulated according to a DataFrame
type DataSource struct {
	data   [][]byte
	schema rf.Schema
}

// CreateDataFrame is a factory for DataSources. Each buffer is parsed independently, and
// produces at least one Partition.
func CreateDataFrame(data [][]byte, parser rf.DataSourceParser, schema rf.Schema) rf.DataFrame {
	source := &DataSource{data, schema}
	return datasource.CreateDataFrame(source, parser, schema)
}

// Analyze returns a PartitionMap, describing how the source data will be divided into Partitions
func (fs *DataSource) Analyze() (rf.PartitionMap, error) {
	return &PartitionMap{
		source: fs,
	}, nil
}
