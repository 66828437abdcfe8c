package util

import (
	rf "github.com/jbouffard/rasterframes"
)

type collectTask struct {
	collectionLimit int
}

func (s *collectTask) RunInitialize(sctx rf.StageContext) error {
	return sctx.SetCollectionLimit(s.collectionLimit)
}

func (s *collectTask) RunWorker(sctx rf.StageContext, previous rf.OperablePartition) ([]rf.OperablePartition, error) {
	// do nothing
	return []rf.OperablePartition{previous}, nil
}

// Collect declares that Partitions should be gathered into the result
// upon completion of the previous stage. At most collectionLimit Partitions
// are collected, or all of them if collectionLimit <= 0. This also signals
// the end of a DataFrame's tasks.
func Collect(collectionLimit int) *rf.DataFrameOperation {
	return &rf.DataFrameOperation{
		TaskType: rf.CollectTaskType,
		Do: func(d rf.DataFrame) (*rf.DataFrameOperationResult, error) {
			return &rf.DataFrameOperationResult{
				Task:       &collectTask{collectionLimit},
				DataSchema: d.GetSchema().Clone(),
			}, nil
		},
	}
}
