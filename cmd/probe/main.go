package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"banksetl/internal/config"
	"banksetl/internal/datasource/httpds"
	"banksetl/internal/logger"
	"banksetl/internal/probe"
)

// main fetches a candidate source page, reports what the extractor would see
// and prints a starter pipeline config as JSON. The config is meant to be
// saved and passed to cmd/etl with -config.
func main() {
	var (
		flagURL = flag.String(
			"url",
			config.DefaultSourceURL,
			"URL of the page holding the banks table",
		)
		flagRows = flag.Int(
			"rows",
			5,
			"Number of extracted rows to preview",
		)
		flagBackend = flag.String(
			"backend",
			"sqlite",
			"Storage backend for the suggested config: sqlite|postgres|mysql|mssql",
		)
		flagPretty = flag.Bool(
			"pretty",
			true,
			"Pretty-print JSON output",
		)
		flagTimeout = flag.Duration(
			"timeout",
			config.DefaultHTTPTimeout,
			"HTTP timeout",
		)
	)
	flag.Parse()

	log := logger.Discard().WithComponent("probe")
	if l, err := logger.New(logger.Config{}); err == nil {
		log = l.WithComponent("probe")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *flagTimeout+5*time.Second)
	defer cancel()

	client := httpds.NewClient(httpds.Config{Timeout: *flagTimeout, UserAgent: config.Default().HTTP.UserAgent})
	rep, err := probe.Page(ctx, client, probe.Options{URL: *flagURL, SampleRows: *flagRows, Backend: *flagBackend})
	if err != nil {
		log.WithError(err).Error("probe failed")
		os.Exit(1)
	}
	if rep.ParseError != "" {
		log.WithFields(logger.Fields{"error": rep.ParseError}).Warn("first table does not extract cleanly")
	}

	enc := json.NewEncoder(os.Stdout)
	if *flagPretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(rep); err != nil {
		fmt.Fprintf(os.Stderr, "encode report: %v\n", err)
		os.Exit(1)
	}
}
