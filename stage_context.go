package rasterframes

import (
	"context"

	"github.com/go-logr/logr"
)

// A StageContext is a Context enhanced to store Stage state during execution of a Stage
type StageContext interface {
	context.Context
	ExecutionID() string                                     // ExecutionID returns the ID of the job this Stage belongs to
	StageID() int                                            // StageID returns the index of this Stage within its plan
	Logger() logr.Logger                                     // Logger returns the Logger for this job
	Evaluate(df DataFrame) ([]CollectedPartition, error)     // Evaluate runs another DataFrame within the same job, returning all of its Partitions. Used by joins.
	KeyingOperation() KeyingOperation                        // KeyingOperation retrieves the KeyingOperation for this Stage (if it exists)
	SetKeyingOperation(keyFn KeyingOperation) error          // Configure the keying operation for the end of this stage
	ReductionOperation() ReductionOperation                  // ReductionOperation retrieves the ReductionOperation for this Stage (if it exists)
	SetReductionOperation(reduceFn ReductionOperation) error // Configure the reduction operation for the end of this stage
	AccumulatorFactory() AccumulatorFactory                  // AccumulatorFactory retrieves the AccumulatorFactory for this Stage (if it exists)
	SetAccumulatorFactory(facc AccumulatorFactory) error     // Configure the accumulator for the end of this stage
	TargetPartitionSize() int                                // TargetPartitionSize returns the intended Partition maxSize for outgoing Partitions
	SetTargetPartitionSize(targetPartitionSize int) error    // SetTargetPartitionSize configures the intended Partition maxSize for outgoing Partitions
	CollectionLimit() int                                    // CollectionLimit retrieves the maximum number of Partitions to collect at the end of this Stage, or -1 if unset
	SetCollectionLimit(limit int) error                      // SetCollectionLimit configures the maximum number of Partitions to collect
}
