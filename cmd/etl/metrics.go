package main

import (
	"os"

	"banksetl/internal/logger"
	"banksetl/internal/metrics"
	"banksetl/internal/metrics/datadog"
	"banksetl/internal/metrics/prompush"
)

const (
	defaultPushGatewayURL = "http://localhost:9091"
	defaultDatadogAddr    = "127.0.0.1:8125"
)

// firstNonEmpty picks flag, then env, then fallback.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// setupMetrics installs the selected backend and returns the function that
// flushes it at exit. Backend failures only disable metrics.
func setupMetrics(o options, job string, log *logger.Entry) func() {
	log = log.WithComponent("metrics")
	backendName := firstNonEmpty(o.metricsBackend, os.Getenv("METRICS_BACKEND"), "none")

	var (
		b   metrics.Backend
		err error
	)
	switch backendName {
	case "pushgateway":
		gwURL := firstNonEmpty(o.pushGatewayURL, os.Getenv("PUSHGATEWAY_URL"), defaultPushGatewayURL)
		b, err = prompush.NewBackend(job, gwURL)
		log = log.WithFields(logger.Fields{"url": gwURL})
	case "datadog":
		addr := firstNonEmpty(o.datadogAddr, os.Getenv("DD_AGENT_ADDR"), defaultDatadogAddr)
		b, err = datadog.NewBackend(datadog.Config{Addr: addr, GlobalTags: []string{"job:" + job}})
		log = log.WithFields(logger.Fields{"addr": addr})
	case "none":
		log.Debug("disabled")
		return func() {}
	default:
		log.WithFields(logger.Fields{"backend": backendName}).Warn("unknown backend; metrics disabled")
		return func() {}
	}
	if err != nil {
		log.WithError(err).Warn("backend init failed; using nop")
		return func() {}
	}

	log.WithFields(logger.Fields{"backend": backendName, "job": job}).Debug("enabled")
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.WithError(err).Warn("flush failed")
		}
	}
}
