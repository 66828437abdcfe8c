package dataframe

import (
	"fmt"

	rf "github.com/jbouffard/rasterframes"
)

// planImpl is an optimized execution Plan for a DataFrame
type planImpl struct {
	stages []*stageImpl
	parser rf.DataSourceParser
	source rf.DataSource
}

// Size returns the number of stages in this Plan
func (p *planImpl) Size() int {
	return len(p.stages)
}

// GetStage returns a particular Stage in this Plan
func (p *planImpl) GetStage(idx int) *stageImpl {
	return p.stages[idx]
}

// Optimize splits a DataFrame chain into stages. A shuffle ends a stage, and the
// next one begins with the reduced Partitions. Accumulate and Collect end the plan.
func Optimize(d rf.DataFrame) (*planImpl, error) {
	df, ok := d.(*dataFrameImpl)
	if !ok {
		return nil, fmt.Errorf("DataFrame of type %T cannot be executed", d)
	}
	frames := df.frames()
	stages := []*stageImpl{createStage(0, frames[0].schema)}
	for i, f := range frames {
		current := stages[len(stages)-1]
		current.frames = append(current.frames, f)
		current.outgoingSchema = f.schema
		switch f.taskType {
		case rf.ShuffleTaskType:
			if i+1 < len(frames) {
				stages = append(stages, createStage(len(stages), f.schema))
			}
		case rf.AccumulateTaskType, rf.CollectTaskType:
			if i+1 < len(frames) {
				return nil, fmt.Errorf("No tasks can follow a %s", f.taskType)
			}
		}
	}
	return &planImpl{stages: stages, parser: df.parser, source: df.source}, nil
}
