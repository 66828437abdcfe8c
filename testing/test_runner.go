// Package testing provides helpers for running RasterFrame pipelines in tests
package testing

import (
	"context"
	"fmt"

	rf "github.com/jbouffard/rasterframes"
	"github.com/jbouffard/rasterframes/engine"
	"github.com/jbouffard/rasterframes/logging"
)

// LocalRunFrame runs a DataFrame on the local engine with a certain number of workers.
// A nil opts uses defaults, logging to stderr at InfoLevel.
func LocalRunFrame(ctx context.Context, frame rf.DataFrame, opts *engine.Options, numWorkers int) (result *engine.Result, err error) {
	// handle panics
	defer func() {
		if r := recover(); r != nil {
			if anErr, ok := r.(error); ok {
				err = anErr
			} else {
				err = fmt.Errorf("%v", r)
			}
		}
	}()

	if opts == nil {
		opts = &engine.Options{}
	} else {
		opts = engine.CloneOptions(opts)
	}
	opts.NumWorkers = numWorkers
	if opts.Logger.GetSink() == nil {
		if opts.Logger, err = logging.NewDevelopment(logging.InfoLevel); err != nil {
			return nil, err
		}
	}
	ectx, err := engine.NewContext(ctx, opts)
	if err != nil {
		return nil, err
	}
	return engine.Run(ectx, frame)
}
