package transform

import (
	rf "github.com/jbouffard/rasterframes"
	iutil "github.com/jbouffard/rasterframes/internal/util"
)

type filterTask struct {
	fn rf.FilterOperation
}

func (s *filterTask) RunInitialize(sctx rf.StageContext) error {
	return nil
}

func (s *filterTask) RunWorker(sctx rf.StageContext, previous rf.OperablePartition) ([]rf.OperablePartition, error) {
	result, err := previous.FilterRows(s.fn)
	return []rf.OperablePartition{result}, err
}

// Filter filters Rows out of a Partition, creating a new one
func Filter(fn rf.FilterOperation) *rf.DataFrameOperation {
	return &rf.DataFrameOperation{
		TaskType: rf.FilterTaskType,
		Do: func(d rf.DataFrame) (*rf.DataFrameOperationResult, error) {
			return &rf.DataFrameOperationResult{
				Task:       &filterTask{fn: iutil.SafeFilterOperation(fn)},
				DataSchema: d.GetSchema().Clone(),
			}, nil
		},
	}
}
