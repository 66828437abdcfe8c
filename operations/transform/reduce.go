package transform

import (
	rf "github.com/jbouffard/rasterframes"
)

// With inspiration from:
// https://blog.cloudera.com/blog/2015/01/improving-sort-performance-in-apache-spark-its-a-double/
// https://github.com/cespare/xxhash

type reduceTask struct {
	kfn                 rf.KeyingOperation
	fn                  rf.ReductionOperation
	targetPartitionSize int
}

func (s *reduceTask) RunInitialize(sctx rf.StageContext) error {
	if err := sctx.SetKeyingOperation(s.kfn); err != nil {
		return err
	}
	if err := sctx.SetReductionOperation(s.fn); err != nil {
		return err
	}
	if s.targetPartitionSize > 0 {
		return sctx.SetTargetPartitionSize(s.targetPartitionSize)
	}
	return nil
}

// RunWorker does nothing, as Rows are keyed and reduced at the end of the Stage
func (s *reduceTask) RunWorker(sctx rf.StageContext, previous rf.OperablePartition) ([]rf.OperablePartition, error) {
	return []rf.OperablePartition{previous}, nil
}

// Reduce combines rows across workers, using a key
func Reduce(kfn rf.KeyingOperation, fn rf.ReductionOperation) *rf.DataFrameOperation {
	return RepartitionReduce(-1, kfn, fn)
}
