package dataframe

import rf "github.com/jbouffard/rasterframes"

// noOpTask is a task that does nothing
type noOpTask struct{}

// RunInitialize for noOpTask does nothing
func (s *noOpTask) RunInitialize(sctx rf.StageContext) error {
	return nil
}

// RunWorker for noOpTask does nothing
func (s *noOpTask) RunWorker(sctx rf.StageContext, previous rf.OperablePartition) ([]rf.OperablePartition, error) {
	return []rf.OperablePartition{previous}, nil
}
