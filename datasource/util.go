package datasource

import (
	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/internal/dataframe"
	"github.com/jbouffard/rasterframes/internal/partition"
)

// CreateDataFrame produces a fresh DataFrame (useful for the implementation of DataSources)
func CreateDataFrame(source rf.DataSource, parser rf.DataSourceParser, schema rf.Schema) rf.DataFrame {
	return dataframe.CreateDataFrame(source, parser, schema)
}

// CreateBuildablePartition creates a new Partition which can be populated by DataSources and Parsers
func CreateBuildablePartition(maxRows int, schema rf.Schema) rf.BuildablePartition {
	return partition.CreateBuildablePartition(maxRows, schema)
}
