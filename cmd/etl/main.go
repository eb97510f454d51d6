// Command etl scrapes the largest-banks table, converts market caps to GBP,
// EUR and INR, and loads the result into a CSV file and a relational table.
//
// With no flags it uses the built-in defaults. Settings can be overridden
// with -config (JSON or YAML) and BANKS_ETL_* environment variables, which
// may also come from a .env file in the working directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"banksetl/internal/config"
	"banksetl/internal/logger"
	"banksetl/internal/pipeline"

	// register all backends with the storage registry.
	_ "banksetl/internal/storage/all"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	cfgPath        string
	validate       bool
	verbose        bool
	metricsBackend string
	pushGatewayURL string
	datadogAddr    string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	flags := flag.NewFlagSet("etl", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&o.cfgPath, "config", "", "pipeline config path (.json, .yaml or .yml); defaults are used when empty")
	flags.BoolVar(&o.validate, "validate", false, "validate the configuration and exit")
	flags.BoolVar(&o.verbose, "v", false, "enable debug logs")
	flags.StringVar(&o.metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway or datadog (overrides env METRICS_BACKEND)")
	flags.StringVar(&o.pushGatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flags.StringVar(&o.datadogAddr, "datadog-addr", "", "DogStatsD address (overrides env DD_AGENT_ADDR)")
	err := flags.Parse(args)
	return o, err
}

// run is main without os.Exit, returning the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "load .env: %v\n", err)
		return 1
	}

	cfg := config.Default()
	if opts.cfgPath != "" {
		if cfg, err = config.Load(opts.cfgPath); err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 1
		}
	}
	if err := config.ApplyEnv(&cfg, os.LookupEnv); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}

	issues := config.ValidatePipeline(cfg)
	for _, iss := range issues {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		fmt.Fprintf(stderr, "configuration is invalid\n")
		return 1
	}
	if opts.validate {
		fmt.Fprintf(stderr, "configuration is valid\n")
		return 0
	}

	deps, err := pipeline.DefaultDeps(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	deps.Stdout = stdout
	log := deps.Log

	flush := setupMetrics(opts, cfg.Job, log)
	defer flush()

	start := time.Now()
	log.WithFields(logger.Fields{
		"source":  cfg.SourceURL,
		"storage": cfg.Storage.Kind,
		"table":   cfg.TableName,
	}).Debug("starting")

	sum, err := pipeline.Run(ctx, cfg, deps)
	if err != nil {
		log.WithError(err).WithFields(logger.Fields{"input_error": pipeline.IsInputError(err)}).Error("etl failed")
		return 1
	}
	log.WithFields(logger.Fields{
		"run_id":  sum.RunID,
		"rows":    sum.Rows,
		"elapsed": time.Since(start).Truncate(time.Millisecond).String(),
	}).Debug("completed")
	return 0
}
