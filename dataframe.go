package rasterframes

import "github.com/jbouffard/rasterframes/layer"

// A DataFrame is a tool for constructing a chain of
// transformations and actions applied to columnar data.
// A DataFrame whose Schema holds Tile columns and a spatial
// key column is a RasterFrame.
type DataFrame interface {
	GetSchema() Schema                            // GetSchema returns the Schema of a DataFrame
	GetDataSource() DataSource                    // GetDataSource returns the DataSource of a DataFrame
	GetParser() DataSourceParser                  // GetParser returns the DataSourceParser of a DataFrame
	To(...*DataFrameOperation) (DataFrame, error) // To is a "functional operations" factory method for DataFrames, chaining operations onto the current one(s).
	TileColumns() ([]string, error)               // TileColumns returns the names of the Tile columns of this DataFrame, in column order
	SpatialKeyColumn() (string, error)            // SpatialKeyColumn returns the name of the spatial key column of this DataFrame, or a SchemaError if it has none
	TemporalKeyColumn() (string, bool, error)     // TemporalKeyColumn returns the name of the temporal key column of this DataFrame, and false if it has none
	TileLayerMetadata() *layer.TileLayerMetadata  // TileLayerMetadata returns the layer metadata of the source of this DataFrame, or nil if it has none
}
