// Command rfstats computes per-column aggregate statistics over a RasterFrame stored as
// JSON lines or delimiter-separated values, printing them as a JSON object.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/go-logr/logr"
	"github.com/jbouffard/rasterframes/accumulators"
	"github.com/jbouffard/rasterframes/datasource/file"
	"github.com/jbouffard/rasterframes/engine"
	"github.com/jbouffard/rasterframes/logging"
	"github.com/jbouffard/rasterframes/operations/util"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	var configPath, input, logLevel string
	var workers int
	var ignoreRowErrors bool

	flag.StringVar(&configPath, "config", "rfstats.yaml", "Path to the YAML job configuration.")
	flag.StringVar(&input, "input", "", "Glob of input files. Overrides the configured input.")
	flag.StringVar(&logLevel, "log-level", "", "One of trace, debug, info, warn, error. Overrides the configured level.")
	flag.IntVar(&workers, "workers", 0, "Number of partitions processed concurrently. Overrides the configured value.")
	flag.BoolVar(&ignoreRowErrors, "ignore-row-errors", false, "Drop rows which fail to process instead of failing.")
	flag.Parse()

	conf, err := LoadConfig(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(2)
	}
	if input != "" {
		conf.Input = input
	}
	if logLevel != "" {
		conf.LogLevel = logLevel
	}
	if workers > 0 {
		conf.Workers = workers
	}
	conf.IgnoreRowErrors = conf.IgnoreRowErrors || ignoreRowErrors

	level, err := logging.ParseLevel(conf.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(2)
	}
	logger, err := logging.New(level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(2)
	}
	logger = logger.WithName("rfstats")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, conf, logger, os.Stdout); err != nil {
		logger.Error(err, "job failed")
		stop()
		os.Exit(1)
	}
}

// run executes the statistics job described by conf, writing results to out
func run(ctx context.Context, conf *Config, logger logr.Logger, out io.Writer) error {
	if conf.Input == "" {
		return fmt.Errorf("no input files configured")
	}
	s, err := conf.Schema()
	if err != nil {
		return err
	}
	exprs, err := conf.Expressions(s)
	if err != nil {
		return err
	}
	parser, err := conf.Parser()
	if err != nil {
		return err
	}
	frame, err := file.CreateDataFrame(conf.Input, parser, s).To(util.Agg(exprs...))
	if err != nil {
		return err
	}
	ectx, err := engine.NewContext(ctx, &engine.Options{
		NumWorkers:      conf.Workers,
		IgnoreRowErrors: conf.IgnoreRowErrors,
		Logger:          logger,
	})
	if err != nil {
		return err
	}
	logger.Info("starting job", "input", conf.Input, "aggregates", len(exprs))
	res, err := engine.Run(ectx, frame)
	if err != nil {
		return err
	}
	composed, ok := res.Accumulated.(*accumulators.Composed)
	if !ok {
		return fmt.Errorf("unexpected accumulator %T", res.Accumulated)
	}
	logger.Info("job finished", "runtime", res.Stats.GetRuntime().String(), "rows", res.Stats.GetNumRowsProcessed())
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(composed.Row())
}
