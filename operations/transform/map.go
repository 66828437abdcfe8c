package transform

import (
	rf "github.com/jbouffard/rasterframes"
	iutil "github.com/jbouffard/rasterframes/internal/util"
)

type mapTask struct {
	fn rf.MapOperation
}

func (s *mapTask) RunInitialize(sctx rf.StageContext) error {
	return nil
}

func (s *mapTask) RunWorker(sctx rf.StageContext, previous rf.OperablePartition) ([]rf.OperablePartition, error) {
	next, err := previous.MapRows(s.fn)
	if err != nil {
		return []rf.OperablePartition{next}, err
	}
	return []rf.OperablePartition{next}, nil
}

// Map transforms a Row in-place
func Map(fn rf.MapOperation) *rf.DataFrameOperation {
	return &rf.DataFrameOperation{
		TaskType: rf.MapTaskType,
		Do: func(d rf.DataFrame) (*rf.DataFrameOperationResult, error) {
			return &rf.DataFrameOperationResult{
				Task:       &mapTask{fn: iutil.SafeMapOperation(fn)},
				DataSchema: d.GetSchema().Clone(),
			}, nil
		},
	}
}
