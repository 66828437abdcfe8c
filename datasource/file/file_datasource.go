package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/datasource"
)

// DataSource is a set of shard files holding serialized raster rows
type DataSource struct {
	glob   string
	schema rf.Schema
}

// CreateDataFrame is a factory for DataSources. Every file matching glob is parsed with parser.
func CreateDataFrame(glob string, parser rf.DataSourceParser, schema rf.Schema) rf.DataFrame {
	source := &DataSource{glob, schema}
	return datasource.CreateDataFrame(source, parser, schema)
}

// Analyze resolves the glob into a PartitionMap with one loader per shard. Directories
// matched by the glob are skipped and shards are visited in lexical order.
func (fs *DataSource) Analyze() (rf.PartitionMap, error) {
	matches, err := filepath.Glob(fs.glob)
	if err != nil {
		return nil, err
	}
	shards := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			shards = append(shards, m)
		}
	}
	if len(shards) == 0 {
		return nil, fmt.Errorf("glob %s matched no shard files", fs.glob)
	}
	sort.Strings(shards)
	return &PartitionMap{
		shards: shards,
		source: fs,
	}, nil
}
