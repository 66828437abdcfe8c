package file

import (
	"fmt"
	"os"

	rf "github.com/jbouffard/rasterframes"
)

// PartitionLoader loads the raster rows of a single shard file
type PartitionLoader struct {
	path   string
	index  int
	total  int
	source *DataSource
}

// ToString names the shard and its position among the matched shards
func (pl *PartitionLoader) ToString() string {
	return fmt.Sprintf("raster shard %d/%d: %s", pl.index+1, pl.total, pl.path)
}

// Load parses the shard's rows. The file is closed once the returned PartitionIterator
// is exhausted.
func (pl *PartitionLoader) Load(parser rf.DataSourceParser, schema rf.Schema) (rf.PartitionIterator, error) {
	if parser == nil {
		return nil, fmt.Errorf("file %s requires a DataSourceParser", pl.path)
	}
	f, err := os.Open(pl.path)
	if err != nil {
		return nil, err
	}
	pi, err := parser.Parse(f, pl.source, schema, func() {
		f.Close() // nolint: errcheck
	})
	if err != nil {
		f.Close() // nolint: errcheck
		return nil, err
	}
	return pi, nil
}
