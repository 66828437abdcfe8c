package rasterframes

import (
	"io"

	"github.com/jbouffard/rasterframes/layer"
)

// PartitionLoader is a description of how to load specific Partitions of data from a particular DataSource.
// DataSources implement this interface to implement data-loading logic. PartitionLoaders are distributed
// among workers, so an assumption is made that each PartitionLoader will produce a roughly equal number of Partitions
type PartitionLoader interface {
	ToString() string                                                       // for logging
	Load(parser DataSourceParser, schema Schema) (PartitionIterator, error) // how to actually load data
}

// PartitionMap is an interface describing an iterator for PartitionLoaders.
// Returned by DataSource.Analyze(), the executor will iterate through
// PartitionLoaders and assign them to workers.
type PartitionMap interface {
	HasNext() bool
	Next() PartitionLoader
}

// DataSource is a source of data which will be manipulating according to transformations and actions defined in a DataFrame.
// It represents information about how to load data from the source as Partitions.
type DataSource interface {
	Analyze() (PartitionMap, error)
}

// A LayerSource is a DataSource of keyed Tiles which carries metadata describing its tile layer
type LayerSource interface {
	DataSource
	TileLayerMetadata() *layer.TileLayerMetadata
}

// A DataSourceParser is capable of parsing raw data from a PartitionLoader to produce Partitions
type DataSourceParser interface {
	PartitionSize() int // returns the maximum size of Partitions produced by this DataSourceParser, in rows
	Parse(r io.Reader, source DataSource, schema Schema, onIteratorEnd func()) (PartitionIterator, error)
}
