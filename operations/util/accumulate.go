package util

import (
	"fmt"

	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/accumulators"
	"github.com/jbouffard/rasterframes/functions"
)

type accumulateTask struct {
	facc rf.AccumulatorFactory
}

func (s *accumulateTask) RunInitialize(sctx rf.StageContext) error {
	return sctx.SetAccumulatorFactory(s.facc)
}

func (s *accumulateTask) RunWorker(sctx rf.StageContext, previous rf.OperablePartition) ([]rf.OperablePartition, error) {
	return []rf.OperablePartition{previous}, nil
}

// Accumulate combines rows across workers, using a user-provided data structure
func Accumulate(facc rf.AccumulatorFactory) *rf.DataFrameOperation {
	return &rf.DataFrameOperation{
		TaskType: rf.AccumulateTaskType,
		Do: func(d rf.DataFrame) (*rf.DataFrameOperationResult, error) {
			if facc == nil {
				return nil, fmt.Errorf("Accumulate requires an AccumulatorFactory")
			}
			return &rf.DataFrameOperationResult{
				Task:       &accumulateTask{facc: facc},
				DataSchema: d.GetSchema().Clone(),
			}, nil
		},
	}
}

// Agg computes aggregate function Expressions over all Rows. The result is an
// *accumulators.Composed, whose Row() holds one value per Expression, named after
// its Accumulator (e.g. "agg_mean(tile)").
func Agg(exprs ...*functions.Expression) *rf.DataFrameOperation {
	return &rf.DataFrameOperation{
		TaskType: rf.AccumulateTaskType,
		Do: func(d rf.DataFrame) (*rf.DataFrameOperationResult, error) {
			if len(exprs) == 0 {
				return nil, fmt.Errorf("Agg requires at least one expression")
			}
			faccs := make([]rf.AccumulatorFactory, len(exprs))
			for i, e := range exprs {
				if e == nil {
					return nil, fmt.Errorf("Agg expression %d is nil", i)
				}
				bound, err := e.Bind(d.GetSchema())
				if err != nil {
					return nil, err
				}
				if faccs[i], err = bound.Accumulator(); err != nil {
					return nil, err
				}
			}
			return &rf.DataFrameOperationResult{
				Task:       &accumulateTask{facc: accumulators.Compose(faccs...)},
				DataSchema: d.GetSchema().Clone(),
			}, nil
		},
	}
}
