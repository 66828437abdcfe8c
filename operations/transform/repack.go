package transform

import (
	rf "github.com/jbouffard/rasterframes"
)

// repackTask rearranges the memory layout of Partitions to respect a new Schema
type repackTask struct {
	newSchema rf.Schema
}

func (s *repackTask) RunInitialize(sctx rf.StageContext) error {
	return nil
}

func (s *repackTask) RunWorker(sctx rf.StageContext, previous rf.OperablePartition) ([]rf.OperablePartition, error) {
	part, err := previous.Repack(s.newSchema)
	if err != nil {
		return nil, err
	}
	return []rf.OperablePartition{part}, nil
}
