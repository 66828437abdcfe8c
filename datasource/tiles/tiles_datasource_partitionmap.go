package tiles

import rf "github.com/jbouffard/rasterframes"

// PartitionMap is an iterator producing a sequence of PartitionLoaders
type PartitionMap struct {
	next   int
	source *DataSource
}

// HasNext returns true iff there is another PartitionLoader remaining
func (pm *PartitionMap) HasNext() bool {
	return pm.next < len(pm.source.records)
}

// Next returns the next PartitionLoader for a batch of Records
func (pm *PartitionMap) Next() rf.PartitionLoader {
	end := pm.next + pm.source.conf.BatchSize
	if end > len(pm.source.records) {
		end = len(pm.source.records)
	}
	result := &PartitionLoader{start: pm.next, end: end, source: pm.source}
	pm.next = end
	return result
}
