// Package tiles provides a DataSource over an in-memory layer of keyed Tiles
package tiles

import (
	"fmt"
	"time"

	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/datasource"
	"github.com/jbouffard/rasterframes/layer"
	"github.com/jbouffard/rasterframes/schema"
	"github.com/jbouffard/rasterframes/tile"
)

// Record is a single entry of a tile layer
type Record struct {
	Key   layer.SpatialKey
	Time  *time.Time   // the temporal key of this Record. Ignored unless Conf.TimeColumn is set.
	Tiles []*tile.Tile // one Tile per tile column, in the order of Conf.TileColumns. A nil Tile is null.
}

// Conf configures a tiles DataSource
type Conf struct {
	KeyColumn     string   // name of the spatial key column. Defaults to "spatial_key".
	TimeColumn    string   // name of the temporal key column. Omitted if empty.
	TileColumns   []string // names of the Tile columns. Defaults to ["tile"].
	PartitionSize int      // the maximum number of rows per Partition. Defaults to 128.
	BatchSize     int      // the number of Records handed to each PartitionLoader. Defaults to 4 * PartitionSize.
	Codec         tile.Codec
}

// DataSource is a layer of keyed Tiles held in memory
type DataSource struct {
	conf     *Conf
	metadata *layer.TileLayerMetadata
	records  []Record
	schema   rf.Schema
}

func ensureDefaultConfValues(conf *Conf) {
	if conf.KeyColumn == "" {
		conf.KeyColumn = "spatial_key"
	}
	if len(conf.TileColumns) == 0 {
		conf.TileColumns = []string{"tile"}
	}
	if conf.PartitionSize <= 0 {
		conf.PartitionSize = 128
	}
	if conf.BatchSize <= 0 {
		conf.BatchSize = 4 * conf.PartitionSize
	}
}

// CreateDataFrame is a factory for DataSources. Records are validated against the
// layer's key bounds and the configured tile columns.
func CreateDataFrame(metadata *layer.TileLayerMetadata, records []Record, conf *Conf) (rf.DataFrame, error) {
	if metadata == nil {
		return nil, fmt.Errorf("a tile layer requires TileLayerMetadata")
	}
	if err := metadata.Layout.Validate(); err != nil {
		return nil, err
	}
	if conf == nil {
		conf = &Conf{}
	} else {
		c := *conf
		conf = &c
	}
	ensureDefaultConfValues(conf)
	s, err := layerSchema(conf)
	if err != nil {
		return nil, err
	}
	for i, r := range records {
		if len(r.Tiles) != len(conf.TileColumns) {
			return nil, fmt.Errorf("record %d has %d tiles, expected %d", i, len(r.Tiles), len(conf.TileColumns))
		}
		if !metadata.Bounds.Contains(r.Key) {
			return nil, fmt.Errorf("record %d has key %s outside of layer bounds", i, r.Key)
		}
	}
	source := &DataSource{conf: conf, metadata: metadata, records: records, schema: s}
	return datasource.CreateDataFrame(source, nil, s), nil
}

func layerSchema(conf *Conf) (rf.Schema, error) {
	s := schema.CreateSchema()
	if _, err := s.CreateColumn(conf.KeyColumn, &rf.SpatialKeyColumnType{}); err != nil {
		return nil, err
	}
	if conf.TimeColumn != "" {
		if _, err := s.CreateColumn(conf.TimeColumn, &rf.TemporalKeyColumnType{}); err != nil {
			return nil, err
		}
	}
	for _, name := range conf.TileColumns {
		if _, err := s.CreateColumn(name, &rf.TileColumnType{Codec: conf.Codec}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// TileLayerMetadata returns the metadata describing this layer
func (ts *DataSource) TileLayerMetadata() *layer.TileLayerMetadata {
	return ts.metadata
}

// Analyze returns a PartitionMap, describing how the source data will be divided into Partitions
func (ts *DataSource) Analyze() (rf.PartitionMap, error) {
	return &PartitionMap{
		source: ts,
	}, nil
}
