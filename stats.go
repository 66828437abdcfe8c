package rasterframes

import "time"

// RuntimeStatistics facilitates the retrieval of statistics about a RasterFrames job
type RuntimeStatistics interface {
	// GetStartTime returns the start time of the job
	GetStartTime() time.Time
	// GetRuntime returns the running time of the job
	GetRuntime() time.Duration
	// GetNumRowsProcessed returns the number of Rows which have been processed so far, counted by stage
	GetNumRowsProcessed() []int64
	// GetNumPartitionsProcessed returns the number of Partitions which have been processed so far, counted by stage
	GetNumPartitionsProcessed() []int64
	// GetCurrentPartitionProcessingTime returns a rolling average of partition processing time
	GetCurrentPartitionProcessingTime() time.Duration
	// GetStageRuntimes returns all recorded stage runtimes
	GetStageRuntimes() []time.Duration
	// GetStageTransformRuntimes returns all recorded stage transform-phase runtimes
	GetStageTransformRuntimes() []time.Duration
	// GetStageShuffleRuntimes returns all recorded stage shuffle-phase runtimes
	GetStageShuffleRuntimes() []time.Duration
}
