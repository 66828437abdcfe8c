package file

import rf "github.com/jbouffard/rasterframes"

// PartitionMap hands out one PartitionLoader per shard, in lexical path order
type PartitionMap struct {
	shards []string
	next   int
	source *DataSource
}

// HasNext returns true iff a shard remains to be loaded
func (pm *PartitionMap) HasNext() bool {
	return pm.next < len(pm.shards)
}

// Next returns the loader for the next shard
func (pm *PartitionMap) Next() rf.PartitionLoader {
	pl := &PartitionLoader{
		path:   pm.shards[pm.next],
		index:  pm.next,
		total:  len(pm.shards),
		source: pm.source,
	}
	pm.next++
	return pl
}
