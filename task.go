package rasterframes

// A Task is an action or transformation applied
// to Partitions of columnar data.
type Task interface {
	RunInitialize(sctx StageContext) error                                                // RunInitialize runs once per Stage, before any Partitions are processed
	RunWorker(sctx StageContext, previous OperablePartition) ([]OperablePartition, error) // RunWorker processes a single Partition. It may be called concurrently for different Partitions.
}
