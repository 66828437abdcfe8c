package transform

import (
	rf "github.com/jbouffard/rasterframes"
	iutil "github.com/jbouffard/rasterframes/internal/util"
)

type flatMapTask struct {
	fn rf.FlatMapOperation
}

func (s *flatMapTask) RunInitialize(sctx rf.StageContext) error {
	return nil
}

func (s *flatMapTask) RunWorker(sctx rf.StageContext, previous rf.OperablePartition) ([]rf.OperablePartition, error) {
	return previous.FlatMapRows(s.fn)
}

// FlatMap transforms a Row, potentially producing new rows
func FlatMap(fn rf.FlatMapOperation) *rf.DataFrameOperation {
	return &rf.DataFrameOperation{
		TaskType: rf.FlatMapTaskType,
		Do: func(d rf.DataFrame) (*rf.DataFrameOperationResult, error) {
			return &rf.DataFrameOperationResult{
				Task:       &flatMapTask{fn: iutil.SafeFlatMapOperation(fn)},
				DataSchema: d.GetSchema().Clone(),
			}, nil
		},
	}
}
