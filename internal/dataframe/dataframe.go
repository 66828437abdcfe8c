package dataframe

import (
	"fmt"

	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/layer"
	"github.com/jbouffard/rasterframes/schema"
)

// A dataFrameImpl implements DataFrame internally
type dataFrameImpl struct {
	parent   *dataFrameImpl      // the parent DataFrame. Nil if this is the root.
	task     rf.Task             // the task represented by this DataFrame, executed to produce the next one
	taskType rf.TaskType         // a unique name for the type of task this DataFrame represents
	source   rf.DataSource       // the source of the data
	parser   rf.DataSourceParser // the parser for the source data
	schema   rf.Schema           // the schema of the data produced by this DataFrame's task
}

// CreateDataFrame is a factory for DataFrames. This function is not intended to be used directly,
// as DataFrames are returned by DataSource packages.
func CreateDataFrame(source rf.DataSource, parser rf.DataSourceParser, schema rf.Schema) rf.DataFrame {
	return &dataFrameImpl{
		parent:   nil,
		task:     &noOpTask{},
		taskType: rf.ExtractTaskType,
		source:   source,
		parser:   parser,
		schema:   schema,
	}
}

// GetSchema returns the Schema of a DataFrame
func (df *dataFrameImpl) GetSchema() rf.Schema {
	return df.schema
}

// GetDataSource returns the DataSource of a DataFrame
func (df *dataFrameImpl) GetDataSource() rf.DataSource {
	return df.source
}

// GetParser returns the DataSourceParser of a DataFrame
func (df *dataFrameImpl) GetParser() rf.DataSourceParser {
	return df.parser
}

// TileColumns returns the names of the Tile columns of this DataFrame
func (df *dataFrameImpl) TileColumns() ([]string, error) {
	return schema.TileColumns(df.schema)
}

// SpatialKeyColumn returns the name of the spatial key column of this DataFrame
func (df *dataFrameImpl) SpatialKeyColumn() (string, error) {
	return schema.SpatialKeyColumn(df.schema)
}

// TemporalKeyColumn returns the name of the temporal key column of this DataFrame, if any
func (df *dataFrameImpl) TemporalKeyColumn() (string, bool, error) {
	return schema.TemporalKeyColumn(df.schema)
}

// TileLayerMetadata returns the layer metadata of this DataFrame's source, if it is a LayerSource
func (df *dataFrameImpl) TileLayerMetadata() *layer.TileLayerMetadata {
	if ls, ok := df.source.(rf.LayerSource); ok {
		return ls.TileLayerMetadata()
	}
	return nil
}

// To is a "functional operations" factory method for DataFrames,
// chaining operations onto the current one(s). Each operation is
// bound against the Schema of its predecessor immediately, so invalid
// column references fail here rather than during execution.
func (df *dataFrameImpl) To(ops ...*rf.DataFrameOperation) (rf.DataFrame, error) {
	next := df
	for _, op := range ops {
		if next.taskType == rf.CollectTaskType || next.taskType == rf.AccumulateTaskType {
			return nil, fmt.Errorf("No tasks can follow a %s", next.taskType)
		}
		result, err := op.Do(next)
		if err != nil {
			return nil, fmt.Errorf("Unable to apply %s operation: %w", op.TaskType, err)
		}
		next = &dataFrameImpl{
			parent:   next,
			source:   df.source,
			task:     result.Task,
			taskType: op.TaskType,
			parser:   df.parser,
			schema:   result.DataSchema,
		}
	}
	return next, nil
}

// frames returns the chain of DataFrames ending in this one, in order of execution
func (df *dataFrameImpl) frames() []*dataFrameImpl {
	frames := []*dataFrameImpl{}
	for next := df; next != nil; next = next.parent {
		frames = append([]*dataFrameImpl{next}, frames...)
	}
	return frames
}
