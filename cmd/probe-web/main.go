// Command probe-web starts a tiny web UI for the source page probe.
//
// Usage:
//
//	go run ./cmd/probe-web -addr :8080
package main

import (
	"flag"
	"os"

	"banksetl/internal/config"
	"banksetl/internal/datasource/httpds"
	"banksetl/internal/logger"
	"banksetl/internal/webui"
)

type server interface {
	ListenAndServe() error
}

var newServer = func(cfg webui.Config) server { return webui.NewServer(cfg) }

func main() {
	l, err := logger.New(logger.Config{})
	if err != nil {
		l = logger.Discard()
	}
	if err := run(os.Args[1:], l.WithComponent("probe-web")); err != nil {
		os.Exit(1)
	}
}

func run(args []string, log *logger.Entry) error {
	flags := flag.NewFlagSet("probe-web", flag.ContinueOnError)
	addr := flags.String("addr", ":8080", "listen address")
	timeout := flags.Duration("timeout", config.DefaultHTTPTimeout, "HTTP timeout for probed pages")
	if err := flags.Parse(args); err != nil {
		return err
	}

	srv := newServer(webui.Config{
		Addr:    *addr,
		Fetcher: httpds.NewClient(httpds.Config{Timeout: *timeout, UserAgent: config.Default().HTTP.UserAgent}),
		Log:     log,
	})
	log.WithFields(logger.Fields{"addr": *addr}).Info("listening")
	if err := srv.ListenAndServe(); err != nil {
		log.WithError(err).Error("server stopped")
		return err
	}
	return nil
}
