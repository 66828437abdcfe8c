// Package engine runs RasterFrame pipelines on the local machine, processing
// Partitions in parallel.
package engine

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-logr/logr"
	uuid "github.com/gofrs/uuid"
	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/internal/dataframe"
	"github.com/jbouffard/rasterframes/internal/stats"
)

// Options configures an ExecutionContext
type Options struct {
	NumWorkers      int         // the number of goroutines processing Partitions. Defaults to GOMAXPROCS.
	PartitionSize   int         // the default maximum number of rows in Partitions produced by a Reduce. Defaults to 1024.
	IgnoreRowErrors bool        // iff true, log row transformation errors and drop the rows instead of failing
	Logger          logr.Logger // defaults to a Logger which discards everything
}

// CloneOptions makes a copy of an Options
func CloneOptions(opts *Options) *Options {
	return &Options{
		NumWorkers:      opts.NumWorkers,
		PartitionSize:   opts.PartitionSize,
		IgnoreRowErrors: opts.IgnoreRowErrors,
		Logger:          opts.Logger,
	}
}

func ensureDefaultOptionsValues(opts *Options) error {
	if opts.NumWorkers < 0 {
		return fmt.Errorf("Options.NumWorkers must not be negative")
	}
	if opts.PartitionSize < 0 {
		return fmt.Errorf("Options.PartitionSize must not be negative")
	}
	if opts.NumWorkers == 0 {
		opts.NumWorkers = runtime.GOMAXPROCS(0)
	}
	if opts.PartitionSize == 0 {
		opts.PartitionSize = 1024
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	return nil
}

// An ExecutionContext carries the configuration of a job explicitly, in place of
// any process-wide session state. It is safe to share between goroutines, and to
// run several DataFrames with.
type ExecutionContext struct {
	ctx  context.Context
	id   string
	opts *Options
}

// NewContext builds an ExecutionContext. A nil Options uses defaults.
func NewContext(ctx context.Context, opts *Options) (*ExecutionContext, error) {
	if opts == nil {
		opts = &Options{}
	} else {
		opts = CloneOptions(opts)
	}
	if err := ensureDefaultOptionsValues(opts); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for ExecutionContext: %w", err)
	}
	return &ExecutionContext{ctx: ctx, id: id.String(), opts: opts}, nil
}

// ID returns the unique ID of this ExecutionContext
func (e *ExecutionContext) ID() string {
	return e.id
}

// Context returns the Context which bounds jobs run with this ExecutionContext
func (e *ExecutionContext) Context() context.Context {
	return e.ctx
}

// Options returns a copy of the Options of this ExecutionContext
func (e *ExecutionContext) Options() *Options {
	return CloneOptions(e.opts)
}

// Logger returns the Logger of this ExecutionContext
func (e *ExecutionContext) Logger() logr.Logger {
	return e.opts.Logger
}

// Result is the outcome of running a DataFrame
type Result struct {
	Collected   []rf.CollectedPartition // the Partitions produced by the DataFrame, in source order. Empty when it ends in Accumulate.
	Accumulated rf.Accumulator          // the merged Accumulator, when the DataFrame ends in Accumulate
	Stats       rf.RuntimeStatistics    // statistics about the run
}

// NumRows returns the total number of collected Rows
func (r *Result) NumRows() int {
	total := 0
	for _, p := range r.Collected {
		total += p.GetNumRows()
	}
	return total
}

// ForEachRow iterates over all collected Rows, in order
func (r *Result) ForEachRow(fn rf.MapOperation) error {
	for _, p := range r.Collected {
		if err := p.ForEachRow(fn); err != nil {
			return err
		}
	}
	return nil
}

// Run executes a DataFrame within an ExecutionContext, blocking until it completes
func Run(ectx *ExecutionContext, frame rf.DataFrame) (*Result, error) {
	if ectx == nil {
		return nil, fmt.Errorf("Run requires an ExecutionContext")
	}
	logger := ectx.opts.Logger.WithValues("execution", ectx.id)
	conf := &dataframe.ExecutorConfig{
		NumWorkers:      ectx.opts.NumWorkers,
		PartitionSize:   ectx.opts.PartitionSize,
		IgnoreRowErrors: ectx.opts.IgnoreRowErrors,
		Logger:          logger,
	}
	statsTracker := &stats.RunStatistics{}
	res, err := dataframe.Execute(ectx.ctx, ectx.id, frame, conf, statsTracker)
	if err != nil {
		logger.Error(err, "execution failed")
		return nil, err
	}
	logger.V(1).Info("execution finished", "runtime", statsTracker.GetRuntime(), "rows", statsTracker.GetNumRowsProcessed())
	return &Result{
		Collected:   res.Partitions,
		Accumulated: res.Accumulator,
		Stats:       statsTracker,
	}, nil
}
