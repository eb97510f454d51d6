// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from the banks ETL run.
//
//   - Backend is a narrow interface focused on counters and timing data.
//   - The global backend defaults to a no-op, so metrics are always safe to
//     call even when no real backend is configured.
//   - Concrete systems (Prometheus Pushgateway, Datadog) live in subpackages.
package metrics

import "time"

// Metric names.
const (
	StepTotal    = "banks_etl_step_total"
	StepDuration = "banks_etl_step_duration_seconds"
	RowsTotal    = "banks_etl_rows_total"
	BytesTotal   = "banks_etl_fetched_bytes_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures latency and success/failure of one pipeline step
// (extract, transform, csv, parquet, connect, load, query, close).
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRows counts rows for the given job and kind, e.g. "extracted",
// "transformed", "csv_written", "loaded".
func RecordRows(job, kind string, n int) {
	if n <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(n), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordBytes counts bytes downloaded from the source page.
func RecordBytes(job string, n int) {
	if n <= 0 {
		return
	}
	backend.IncCounter(BytesTotal, float64(n), Labels{
		"job": job,
	})
}
