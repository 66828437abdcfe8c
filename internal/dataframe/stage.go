package dataframe

import (
	"github.com/hashicorp/go-multierror"
	rf "github.com/jbouffard/rasterframes"
)

// Stage is a group of tasks which can run against a Partition without
// exchanging data with other Partitions. Stages block the execution of
// further stages until they are complete.
type stageImpl struct {
	id             int
	incomingSchema rf.Schema
	outgoingSchema rf.Schema
	frames         []*dataFrameImpl
}

// createStage is a factory for Stages
func createStage(id int, incomingSchema rf.Schema) *stageImpl {
	return &stageImpl{
		id:             id,
		incomingSchema: incomingSchema,
		frames:         []*dataFrameImpl{},
	}
}

// ID returns the ID for this Stage
func (s *stageImpl) ID() int {
	return s.id
}

// IncomingSchema is the Schema for data entering this Stage
func (s *stageImpl) IncomingSchema() rf.Schema {
	return s.incomingSchema
}

// OutgoingSchema is the Schema for data leaving this Stage
func (s *stageImpl) OutgoingSchema() rf.Schema {
	return s.outgoingSchema
}

// finalTaskType returns the TaskType of the last task in this Stage
func (s *stageImpl) finalTaskType() rf.TaskType {
	if len(s.frames) == 0 {
		return rf.ExtractTaskType
	}
	return s.frames[len(s.frames)-1].taskType
}

// EndsInAccumulate returns true iff this Stage ends with an accumulation task
func (s *stageImpl) EndsInAccumulate() bool {
	return s.finalTaskType() == rf.AccumulateTaskType
}

// EndsInShuffle returns true iff this Stage ends with a reduction task
func (s *stageImpl) EndsInShuffle() bool {
	return s.finalTaskType() == rf.ShuffleTaskType
}

// EndsInCollect returns true iff this Stage represents a collect task
func (s *stageImpl) EndsInCollect() bool {
	return s.finalTaskType() == rf.CollectTaskType
}

// WorkerInitialize runs the initialization of every task in this Stage
func (s *stageImpl) WorkerInitialize(sctx rf.StageContext) error {
	for _, f := range s.frames {
		if err := f.task.RunInitialize(sctx); err != nil {
			return err
		}
	}
	return nil
}

// WorkerExecute runs a stage against a Partition of data, returning
// the modified Partition (which may have been modified in-place, filtered,
// or turned into multiple Partitions). Row errors are collected into a
// *multierror.Error which is returned alongside the surviving Partitions.
func (s *stageImpl) WorkerExecute(sctx rf.StageContext, part rf.OperablePartition) ([]rf.OperablePartition, error) {
	var rowErrors *multierror.Error
	var prev = []rf.OperablePartition{part}
	for _, frame := range s.frames {
		next := make([]rf.OperablePartition, 0, len(prev))
		for _, p := range prev {
			out, err := frame.task.RunWorker(sctx, p)
			if err != nil {
				merr, ok := err.(*multierror.Error)
				if !ok {
					return nil, err
				}
				rowErrors = multierror.Append(rowErrors, merr.Errors...)
			}
			next = append(next, out...)
		}
		prev = next
	}
	return prev, rowErrors.ErrorOrNil()
}
