package stats

import (
	"sync"
	"time"
)

const statisticRollingWindows = 5

// RunStatistics contains statistics about a running RasterFrame job. It is safe for concurrent use.
type RunStatistics struct {
	lock                        sync.Mutex
	started                     bool
	finished                    bool
	startTime                   time.Time
	totalRuntime                time.Duration
	rowsProcessed               []int64
	partitionsProcessed         []int64
	recentPartitionRuntimes     []time.Duration // for rolling average of recent partition processing times
	recentPartitionRuntimesHead int
	stageRuntimes               []time.Duration
	transformPhaseRuntimes      []time.Duration
	shufflePhaseRuntimes        []time.Duration

	// temp vars
	currentStageStartTime     time.Time
	currentTransformStartTime time.Time
	currentShuffleStartTime   time.Time
}

// Start triggers statistics tracking, if it hasn't been started already
func (rs *RunStatistics) Start(numStages int) {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	if rs.started {
		return
	}
	rs.started = true
	rs.startTime = time.Now()
	rs.rowsProcessed = make([]int64, numStages)
	rs.partitionsProcessed = make([]int64, numStages)
	rs.recentPartitionRuntimes = make([]time.Duration, statisticRollingWindows)
	rs.stageRuntimes = make([]time.Duration, numStages)
	rs.transformPhaseRuntimes = make([]time.Duration, numStages)
	rs.shufflePhaseRuntimes = make([]time.Duration, numStages)
}

// Finish completes statistics tracking
func (rs *RunStatistics) Finish() {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.totalRuntime = time.Since(rs.startTime)
	rs.finished = true
}

// StartStage tracks the beginning of a new Stage
func (rs *RunStatistics) StartStage() {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.currentStageStartTime = time.Now()
}

// EndStage tracks the end of a Stage
func (rs *RunStatistics) EndStage(sidx int) {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.stageRuntimes[sidx] = time.Since(rs.currentStageStartTime)
	rs.recentPartitionRuntimes = make([]time.Duration, statisticRollingWindows)
	rs.recentPartitionRuntimesHead = 0
}

// StartTransform tracks the beginning of the transformation portion of a Stage
func (rs *RunStatistics) StartTransform() {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.currentTransformStartTime = time.Now()
}

// EndTransform tracks the end of the transformation portion of a Stage
func (rs *RunStatistics) EndTransform(sidx int) {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.transformPhaseRuntimes[sidx] = time.Since(rs.currentTransformStartTime)
}

// StartShuffle tracks the beginning of the shuffle portion of a Stage
func (rs *RunStatistics) StartShuffle() {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.currentShuffleStartTime = time.Now()
}

// EndShuffle tracks the end of the shuffle portion of a Stage
func (rs *RunStatistics) EndShuffle(sidx int) {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.shufflePhaseRuntimes[sidx] = time.Since(rs.currentShuffleStartTime)
}

// EndPartition records the processing of a single Partition, which began at start
func (rs *RunStatistics) EndPartition(sidx int, start time.Time, numRows int) {
	elapsed := time.Since(start)
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.recentPartitionRuntimes[rs.recentPartitionRuntimesHead] = elapsed
	rs.recentPartitionRuntimesHead = (rs.recentPartitionRuntimesHead + 1) % len(rs.recentPartitionRuntimes)
	rs.rowsProcessed[sidx] += int64(numRows)
	rs.partitionsProcessed[sidx]++
}

// GetStartTime returns the start time of the job
func (rs *RunStatistics) GetStartTime() time.Time {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.startTime
}

// GetRuntime returns the running time of the job
func (rs *RunStatistics) GetRuntime() time.Duration {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	if rs.finished {
		return rs.totalRuntime
	}
	return time.Since(rs.startTime)
}

// GetNumRowsProcessed returns the number of Rows which have been processed so far, counted by stage
func (rs *RunStatistics) GetNumRowsProcessed() []int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return append([]int64(nil), rs.rowsProcessed...)
}

// GetNumPartitionsProcessed returns the number of Partitions which have been processed so far, counted by stage
func (rs *RunStatistics) GetNumPartitionsProcessed() []int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return append([]int64(nil), rs.partitionsProcessed...)
}

// GetCurrentPartitionProcessingTime returns a rolling average of partition processing time
func (rs *RunStatistics) GetCurrentPartitionProcessingTime() time.Duration {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	var total time.Duration
	for _, d := range rs.recentPartitionRuntimes {
		total += d
	}
	return total / statisticRollingWindows
}

// GetStageRuntimes returns all recorded stage runtimes
func (rs *RunStatistics) GetStageRuntimes() []time.Duration {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return append([]time.Duration(nil), rs.stageRuntimes...)
}

// GetStageTransformRuntimes returns all recorded stage transform-phase runtimes
func (rs *RunStatistics) GetStageTransformRuntimes() []time.Duration {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return append([]time.Duration(nil), rs.transformPhaseRuntimes...)
}

// GetStageShuffleRuntimes returns all recorded stage shuffle-phase runtimes
func (rs *RunStatistics) GetStageShuffleRuntimes() []time.Duration {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return append([]time.Duration(nil), rs.shufflePhaseRuntimes...)
}
