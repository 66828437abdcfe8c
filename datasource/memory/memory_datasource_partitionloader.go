package memory

import (
	"bytes"
	"fmt"

	rf "github.com/jbouffard/rasterframes"
)

// PartitionLoader is capable of loading partitions of data from a buffer
type PartitionLoader struct {
	idx    int
	source *DataSource
}

// ToString returns a string representation of this PartitionLoader
func (pl *PartitionLoader) ToString() string {
	return fmt.Sprintf("Memory loader index: %d", pl.idx)
}

// Load is capable of loading partitions of data from a buffer
func (pl *PartitionLoader) Load(parser rf.DataSourceParser, schema rf.Schema) (rf.PartitionIterator, error) {
	r := bytes.NewReader(pl.source.data[pl.idx])
	return parser.Parse(r, pl.source, schema, nil)
}
