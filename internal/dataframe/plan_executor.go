package dataframe

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"
	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/errors"
	"github.com/jbouffard/rasterframes/internal/partition"
	"github.com/jbouffard/rasterframes/internal/stats"
	iutil "github.com/jbouffard/rasterframes/internal/util"
	"golang.org/x/sync/errgroup"
)

// ExecutorConfig configures the execution of a Plan
type ExecutorConfig struct {
	NumWorkers      int         // the number of goroutines processing Partitions concurrently
	PartitionSize   int         // the default maximum number of rows in Partitions produced by a shuffle
	IgnoreRowErrors bool        // drop (and log) rows which produce errors, rather than failing
	Logger          logr.Logger // the Logger for this execution
}

// ExecutionResult holds the output of the final Stage of a Plan
type ExecutionResult struct {
	Partitions  []rf.CollectedPartition // the Partitions produced by the final Stage, in source order. Empty if the Plan ends in an accumulation.
	Accumulator rf.Accumulator          // the merged Accumulator, if the Plan ends in an accumulation
}

// partitionSource is a unit of work for a Stage: either a PartitionLoader or a single Partition
type partitionSource struct {
	loader rf.PartitionLoader
	part   rf.OperablePartition
}

// planExecutorImpl executes a plan locally, processing Partitions in parallel
type planExecutorImpl struct {
	id           string
	plan         *planImpl
	conf         *ExecutorConfig
	statsTracker *stats.RunStatistics
}

// Execute optimizes a DataFrame into a Plan and runs it to completion
func Execute(ctx context.Context, executionID string, df rf.DataFrame, conf *ExecutorConfig, statsTracker *stats.RunStatistics) (*ExecutionResult, error) {
	plan, err := Optimize(df)
	if err != nil {
		return nil, err
	}
	pe := &planExecutorImpl{
		id:           executionID,
		plan:         plan,
		conf:         conf,
		statsTracker: statsTracker,
	}
	return pe.run(ctx)
}

func (pe *planExecutorImpl) run(ctx context.Context) (*ExecutionResult, error) {
	pe.statsTracker.Start(pe.plan.Size())
	defer pe.statsTracker.Finish()
	result := &ExecutionResult{}
	var incoming []rf.OperablePartition
	for i := 0; i < pe.plan.Size(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stage := pe.plan.GetStage(i)
		pe.statsTracker.StartStage()
		sctx := createStageContext(ctx, pe.id, stage.ID(), pe.conf.Logger, func(df rf.DataFrame) ([]rf.CollectedPartition, error) {
			return pe.evaluate(ctx, df)
		})
		sctx.Logger().V(1).Info("starting stage", "tasks", len(stage.frames), "incoming", len(incoming))
		if err := stage.WorkerInitialize(sctx); err != nil {
			return nil, fmt.Errorf("Unable to initialize stage %d: %w", stage.ID(), err)
		}
		var sources []partitionSource
		if i == 0 {
			var err error
			if sources, err = pe.analyzeSource(); err != nil {
				return nil, err
			}
		} else {
			sources = make([]partitionSource, len(incoming))
			for j, part := range incoming {
				sources[j] = partitionSource{part: part}
			}
		}
		pe.statsTracker.StartTransform()
		outputs, accs, err := pe.transformPartitions(sctx, stage, sources)
		pe.statsTracker.EndTransform(i)
		if err != nil {
			return nil, err
		}
		switch {
		case stage.EndsInShuffle():
			pe.statsTracker.StartShuffle()
			incoming, err = pe.shuffle(sctx, stage, outputs)
			pe.statsTracker.EndShuffle(i)
			if err != nil {
				return nil, err
			}
			if i+1 == pe.plan.Size() {
				result.Partitions = toCollected(incoming)
			}
		case stage.EndsInAccumulate():
			if result.Accumulator, err = pe.mergeAccumulators(sctx, accs); err != nil {
				return nil, err
			}
		default:
			result.Partitions = pe.collect(sctx, outputs)
		}
		pe.statsTracker.EndStage(i)
		sctx.Logger().V(1).Info("finished stage")
	}
	return result, nil
}

// evaluate runs another DataFrame within this execution, as required by joins
func (pe *planExecutorImpl) evaluate(ctx context.Context, df rf.DataFrame) ([]rf.CollectedPartition, error) {
	res, err := Execute(ctx, pe.id, df, pe.conf, &stats.RunStatistics{})
	if err != nil {
		return nil, err
	}
	if res.Accumulator != nil {
		return nil, fmt.Errorf("Cannot evaluate a DataFrame which ends in an accumulation")
	}
	return res.Partitions, nil
}

// analyzeSource returns a partitionSource for every PartitionLoader of the Plan's DataSource
func (pe *planExecutorImpl) analyzeSource() ([]partitionSource, error) {
	if pe.plan.source == nil {
		return nil, fmt.Errorf("DataFrame has no DataSource")
	}
	pmap, err := pe.plan.source.Analyze()
	if err != nil {
		return nil, err
	}
	sources := make([]partitionSource, 0)
	for pmap.HasNext() {
		sources = append(sources, partitionSource{loader: pmap.Next()})
	}
	return sources, nil
}

// forEachSourcePartition loads the Partitions of a partitionSource and passes them to fn
func (pe *planExecutorImpl) forEachSourcePartition(src partitionSource, schema rf.Schema, fn func(rf.OperablePartition) error) error {
	if src.part != nil {
		return fn(src.part)
	}
	it, err := src.loader.Load(pe.plan.parser, schema)
	if err != nil {
		return fmt.Errorf("Unable to load partitions from %s: %w", src.loader.ToString(), err)
	}
	for it.HasNextPartition() {
		part, err := nextPartition(it, src.loader)
		if _, ok := err.(errors.NoMorePartitionsError); ok {
			// HasNextPartition is just a hint
			break
		} else if err != nil {
			return err
		}
		opart, ok := part.(rf.OperablePartition)
		if !ok {
			return fmt.Errorf("Partition of type %T from %s is not operable", part, src.loader.ToString())
		}
		if err := fn(opart); err != nil {
			return err
		}
	}
	return nil
}

// nextPartition pulls a Partition from an iterator, converting a panicking parser into an error
func nextPartition(it rf.PartitionIterator, loader rf.PartitionLoader) (part rf.Partition, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("Panic while loading partitions from %s: %v", loader.ToString(), r)
		}
	}()
	return it.NextPartition()
}

// transformPartitions runs a Stage against every source Partition using a pool of workers.
// Outputs are indexed by source, so that source order is preserved. If the Stage ends in an
// accumulation, each worker fills its own Accumulator.
func (pe *planExecutorImpl) transformPartitions(sctx *stageContextImpl, stage *stageImpl, sources []partitionSource) ([][]rf.OperablePartition, []rf.Accumulator, error) {
	outputs := make([][]rf.OperablePartition, len(sources))
	numWorkers := pe.conf.NumWorkers
	if numWorkers > len(sources) {
		numWorkers = len(sources)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	var accs []rf.Accumulator
	if stage.EndsInAccumulate() {
		facc := sctx.AccumulatorFactory()
		if facc == nil {
			return nil, nil, fmt.Errorf("Stage %d ends in an accumulation but has no AccumulatorFactory", stage.ID())
		}
		accs = make([]rf.Accumulator, numWorkers)
		for w := range accs {
			accs[w] = facc()
		}
	}
	if stage.EndsInShuffle() && sctx.KeyingOperation() == nil {
		return nil, nil, fmt.Errorf("Stage %d ends in a shuffle but has no KeyingOperation", stage.ID())
	}

	g, gctx := errgroup.WithContext(sctx)
	jobs := make(chan int)
	g.Go(func() error {
		defer close(jobs)
		for i := range sources {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < numWorkers; w++ {
		w := w
		g.Go(func() error {
			for idx := range jobs {
				err := pe.forEachSourcePartition(sources[idx], stage.IncomingSchema(), func(part rf.OperablePartition) error {
					if err := gctx.Err(); err != nil {
						return err
					}
					start := time.Now()
					numRows := part.GetNumRows()
					out, err := stage.WorkerExecute(sctx, part)
					if err := pe.onRowError(sctx, err); err != nil {
						return err
					}
					if accs != nil {
						if err := pe.onRowError(sctx, accumulatePartitions(accs[w], out)); err != nil {
							return err
						}
						out = nil
					} else if stage.EndsInShuffle() {
						for j, p := range out {
							keyed, err := p.KeyRows(sctx.KeyingOperation())
							if err := pe.onRowError(sctx, err); err != nil {
								return err
							}
							out[j] = keyed
						}
					}
					outputs[idx] = append(outputs[idx], out...)
					pe.statsTracker.EndPartition(stage.ID(), start, numRows)
					return nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return outputs, accs, nil
}

// accumulatePartitions adds every Row of some Partitions to an Accumulator, collecting row errors
func accumulatePartitions(acc rf.Accumulator, parts []rf.OperablePartition) error {
	var rowErrors *multierror.Error
	accumulate := iutil.SafeAccumulation(acc)
	for _, p := range parts {
		for i := 0; i < p.GetNumRows(); i++ {
			if err := accumulate(p.GetRow(i)); err != nil {
				rowErrors = multierror.Append(rowErrors, err)
			}
		}
	}
	return rowErrors.ErrorOrNil()
}

// onRowError decides whether an error produced while processing a Partition is fatal
func (pe *planExecutorImpl) onRowError(sctx rf.StageContext, err error) error {
	if err == nil {
		return nil
	}
	merr, ok := err.(*multierror.Error)
	if ok && pe.conf.IgnoreRowErrors {
		sctx.Logger().Info("ignoring row errors", "count", len(merr.Errors), "errors", iutil.FormatMultiError(merr.Errors))
		return nil
	}
	return err
}

// shuffle merges keyed Partitions, in source order, so that one Row remains per key
func (pe *planExecutorImpl) shuffle(sctx *stageContextImpl, stage *stageImpl, outputs [][]rf.OperablePartition) ([]rf.OperablePartition, error) {
	targetSize := sctx.TargetPartitionSize()
	if targetSize <= 0 {
		targetSize = pe.conf.PartitionSize
	}
	reducer := partition.CreateReducer(sctx.ReductionOperation(), stage.OutgoingSchema(), targetSize)
	for _, parts := range outputs {
		for _, p := range parts {
			if err := pe.onRowError(sctx, reducer.Add(p)); err != nil {
				return nil, err
			}
		}
	}
	sctx.Logger().V(1).Info("shuffled partitions", "keys", reducer.NumKeys())
	return reducer.Partitions(), nil
}

// mergeAccumulators combines the Accumulators of all workers. Each is passed through its
// serialized form, as it would be when transferred between processes.
func (pe *planExecutorImpl) mergeAccumulators(sctx *stageContextImpl, accs []rf.Accumulator) (rf.Accumulator, error) {
	merged := sctx.AccumulatorFactory()()
	for _, acc := range accs {
		buff, err := acc.ToBytes()
		if err != nil {
			return nil, fmt.Errorf("Unable to serialize Accumulator: %w", err)
		}
		restored, err := merged.FromBytes(buff)
		if err != nil {
			return nil, fmt.Errorf("Unable to deserialize Accumulator: %w", err)
		}
		if err := merged.Merge(restored); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// collect flattens Stage outputs in source order, honouring any collection limit
func (pe *planExecutorImpl) collect(sctx *stageContextImpl, outputs [][]rf.OperablePartition) []rf.CollectedPartition {
	limit := sctx.CollectionLimit()
	result := make([]rf.CollectedPartition, 0, len(outputs))
	for _, parts := range outputs {
		for _, p := range parts {
			if limit > 0 && len(result) >= limit {
				return result
			}
			result = append(result, p)
		}
	}
	return result
}

func toCollected(parts []rf.OperablePartition) []rf.CollectedPartition {
	result := make([]rf.CollectedPartition, len(parts))
	for i, p := range parts {
		result[i] = p
	}
	return result
}
