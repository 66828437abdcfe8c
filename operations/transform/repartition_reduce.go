package transform

import (
	"fmt"

	rf "github.com/jbouffard/rasterframes"
	iutil "github.com/jbouffard/rasterframes/internal/util"
)

// RepartitionReduce is identical to Reduce, with the added ability to change the
// number of rows per partition during the reduction. A nil ReductionOperation keeps
// the first Row seen for each key.
func RepartitionReduce(targetPartitionSize int, kfn rf.KeyingOperation, fn rf.ReductionOperation) *rf.DataFrameOperation {
	return &rf.DataFrameOperation{
		TaskType: rf.ShuffleTaskType,
		Do: func(d rf.DataFrame) (*rf.DataFrameOperationResult, error) {
			if kfn == nil {
				return nil, fmt.Errorf("Reduce requires a KeyingOperation")
			}
			var safeFn rf.ReductionOperation
			if fn != nil {
				safeFn = iutil.SafeReductionOperation(fn)
			}
			return &rf.DataFrameOperationResult{
				Task: &reduceTask{
					kfn:                 iutil.SafeKeyingOperation(kfn),
					fn:                  safeFn,
					targetPartitionSize: targetPartitionSize,
				},
				DataSchema: d.GetSchema().Clone(),
			}, nil
		},
	}
}
