package dataframe

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	rf "github.com/jbouffard/rasterframes"
)

type stageContextKey string

const keyFn stageContextKey = "rasterframes.stageContextImpl.keyingFn"
const reduceFn stageContextKey = "rasterframes.stageContextImpl.reduceFn"
const accumulatorFactory stageContextKey = "rasterframes.stageContextImpl.accumulatorFactory"
const collectionLimit stageContextKey = "rasterframes.stageContextImpl.collectionLimit"
const targetPartitionSize stageContextKey = "rasterframes.stageContextImpl.targetPartitionSize"

// stageContextImpl stores Stage state in a Context. Setters are only called
// while a Stage is initialized, before any worker reads from it.
type stageContextImpl struct {
	context.Context
	executionID string
	stageID     int
	logger      logr.Logger
	evaluate    func(df rf.DataFrame) ([]rf.CollectedPartition, error)
}

func createStageContext(ctx context.Context, executionID string, stageID int, logger logr.Logger, evaluate func(df rf.DataFrame) ([]rf.CollectedPartition, error)) *stageContextImpl {
	return &stageContextImpl{
		Context:     ctx,
		executionID: executionID,
		stageID:     stageID,
		logger:      logger.WithValues("stage", stageID),
		evaluate:    evaluate,
	}
}

func (s *stageContextImpl) ExecutionID() string {
	return s.executionID
}

func (s *stageContextImpl) StageID() int {
	return s.stageID
}

func (s *stageContextImpl) Logger() logr.Logger {
	return s.logger
}

// Evaluate runs another DataFrame with the configuration of the current job
func (s *stageContextImpl) Evaluate(df rf.DataFrame) ([]rf.CollectedPartition, error) {
	if s.evaluate == nil {
		return nil, fmt.Errorf("Cannot evaluate DataFrames from this Stage")
	}
	return s.evaluate(df)
}

// KeyingOperation retrieves the KeyingOperation for this Stage (if it exists)
func (s *stageContextImpl) KeyingOperation() rf.KeyingOperation {
	if k := s.Value(keyFn); k != nil {
		return k.(rf.KeyingOperation)
	}
	return nil
}

// Configure the keying operation for the end of this stage
func (s *stageContextImpl) SetKeyingOperation(val rf.KeyingOperation) error {
	if s.KeyingOperation() != nil {
		return fmt.Errorf("Cannot overwrite KeyingOperation for Stage (already set)")
	}
	s.Context = context.WithValue(s.Context, keyFn, val)
	return nil
}

// ReductionOperation retrieves the ReductionOperation for this Stage (if it exists)
func (s *stageContextImpl) ReductionOperation() rf.ReductionOperation {
	if r := s.Value(reduceFn); r != nil {
		return r.(rf.ReductionOperation)
	}
	return nil
}

// Configure the reduction operation for the end of this stage
func (s *stageContextImpl) SetReductionOperation(val rf.ReductionOperation) error {
	if s.ReductionOperation() != nil {
		return fmt.Errorf("Cannot overwrite ReductionOperation for Stage (already set)")
	}
	s.Context = context.WithValue(s.Context, reduceFn, val)
	return nil
}

// AccumulatorFactory retrieves the AccumulatorFactory for this Stage (if it exists)
func (s *stageContextImpl) AccumulatorFactory() rf.AccumulatorFactory {
	if a := s.Value(accumulatorFactory); a != nil {
		return a.(rf.AccumulatorFactory)
	}
	return nil
}

// Configure the accumulator for the end of this stage
func (s *stageContextImpl) SetAccumulatorFactory(val rf.AccumulatorFactory) error {
	if s.AccumulatorFactory() != nil {
		return fmt.Errorf("Cannot overwrite AccumulatorFactory for Stage (already set)")
	}
	s.Context = context.WithValue(s.Context, accumulatorFactory, val)
	return nil
}

// CollectionLimit retrieves the CollectionLimit for this Stage (or -1, if unset)
func (s *stageContextImpl) CollectionLimit() int {
	if a := s.Value(collectionLimit); a != nil {
		return a.(int)
	}
	return -1
}

// SetCollectionLimit configures the CollectionLimit for the end of this stage
func (s *stageContextImpl) SetCollectionLimit(limit int) error {
	if s.CollectionLimit() > 0 {
		return fmt.Errorf("Cannot overwrite CollectionLimit for Stage (already set)")
	}
	s.Context = context.WithValue(s.Context, collectionLimit, limit)
	return nil
}

// TargetPartitionSize retrieves the TargetPartitionSize for this Stage (or -1, if unset)
func (s *stageContextImpl) TargetPartitionSize() int {
	if t := s.Value(targetPartitionSize); t != nil {
		return t.(int)
	}
	return -1
}

// SetTargetPartitionSize configures the size of Partitions produced by a shuffle at the end of this stage
func (s *stageContextImpl) SetTargetPartitionSize(val int) error {
	if s.TargetPartitionSize() > 0 {
		return fmt.Errorf("Cannot overwrite TargetPartitionSize for Stage (already set)")
	}
	s.Context = context.WithValue(s.Context, targetPartitionSize, val)
	return nil
}
