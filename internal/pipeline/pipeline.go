// Package pipeline runs the banks ETL end to end: extract the largest-banks
// table from the source page, convert market caps to GBP, EUR and INR, save
// the result as CSV (and optionally Parquet), replace the relational table
// and run the reporting queries. Every milestone is appended to the audit
// log; the first error aborts the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"

	"banksetl/internal/auditlog"
	"banksetl/internal/config"
	"banksetl/internal/datasource/httpds"
	"banksetl/internal/extract"
	"banksetl/internal/logger"
	"banksetl/internal/metrics"
	"banksetl/internal/query"
	"banksetl/internal/rates"
	"banksetl/internal/sink/csvsink"
	"banksetl/internal/sink/parquetsink"
	"banksetl/internal/storage"
	"banksetl/internal/transformer"
)

// ExtractColumns names the two columns read from the source table.
var ExtractColumns = []string{transformer.ColName, transformer.ColUSD}

// Step names used in metrics and diagnostics.
const (
	StepExtract   = "extract"
	StepTransform = "transform"
	StepCSV       = "csv"
	StepParquet   = "parquet"
	StepConnect   = "connect"
	StepLoad      = "load"
	StepQuery     = "query"
	StepClose     = "close"
)

// Auditor appends milestone lines. *auditlog.Logger implements it.
type Auditor interface {
	Log(message string) error
}

// Deps are the collaborators Run uses. Zero fields are filled from
// DefaultDeps.
type Deps struct {
	Fetcher extract.Fetcher
	Audit   Auditor
	Log     *logger.Entry
	// Stdout receives the printed query results.
	Stdout io.Writer
	// OpenStore connects to the relational sink.
	OpenStore func(ctx context.Context, cfg storage.Config) (*storage.Store, error)
}

// DefaultDeps builds the production collaborators for cfg: an HTTP client,
// the audit log at cfg.LogPath, a diagnostics logger and os.Stdout.
func DefaultDeps(cfg config.Pipeline) (Deps, error) {
	l, err := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		return Deps{}, fmt.Errorf("pipeline: %w", err)
	}
	return Deps{
		Fetcher:   httpds.NewClient(clientConfig(cfg)),
		Audit:     auditlog.New(cfg.LogPath),
		Log:       l.WithComponent("pipeline"),
		Stdout:    os.Stdout,
		OpenStore: storage.Open,
	}, nil
}

func clientConfig(cfg config.Pipeline) httpds.Config {
	return httpds.Config{
		Timeout:            cfg.HTTP.Timeout.Std(),
		UserAgent:          cfg.HTTP.UserAgent,
		InsecureSkipVerify: cfg.HTTP.InsecureSkipVerify,
	}
}

func (d Deps) withDefaults(cfg config.Pipeline) Deps {
	if d.Fetcher == nil {
		d.Fetcher = httpds.NewClient(clientConfig(cfg))
	}
	if d.Audit == nil {
		d.Audit = auditlog.New(cfg.LogPath)
	}
	if d.Log == nil {
		d.Log = logger.Discard().WithComponent("pipeline")
	}
	if d.Stdout == nil {
		d.Stdout = io.Discard
	}
	if d.OpenStore == nil {
		d.OpenStore = storage.Open
	}
	return d
}

// Queries returns the reporting statements run against table, in order.
func Queries(table string) []string {
	return []string{
		"SELECT * FROM " + table,
		"SELECT AVG(MC_GBP_Billion) FROM " + table,
		"SELECT Name FROM " + table + " LIMIT 5",
	}
}

// queriesFor is a test hook.
var queriesFor = Queries

var limitRe = regexp.MustCompile(`(?i)^SELECT (.+) FROM (\S+) LIMIT (\d+)$`)

// StatementsFor rewrites stmts for the storage kind. SQL Server has no
// LIMIT, so "SELECT c FROM t LIMIT n" becomes "SELECT TOP n c FROM t".
func StatementsFor(kind string, stmts []string) []string {
	if kind != "mssql" {
		return stmts
	}
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = limitRe.ReplaceAllString(s, "SELECT TOP $3 $1 FROM $2")
	}
	return out
}

// StepTiming is the wall time of one step.
type StepTiming struct {
	Step     string
	Duration time.Duration
}

// Summary describes a completed run.
type Summary struct {
	RunID string
	Rows  int

	// SourceStatus and Fingerprint identify the page that was scraped.
	SourceStatus int
	Fingerprint  uint64

	Steps    []StepTiming
	Duration time.Duration

	// Results holds the query results in Queries order.
	Results []*query.Result
}

// FingerprintHex renders the page fingerprint for logs.
func (s *Summary) FingerprintHex() string {
	return strconv.FormatUint(s.Fingerprint, 16)
}

type runner struct {
	cfg  config.Pipeline
	deps Deps
	log  *logger.Entry
	sum  *Summary
}

// Run executes the pipeline described by cfg. Artifacts written before a
// failure are left in place.
func Run(ctx context.Context, cfg config.Pipeline, deps Deps) (*Summary, error) {
	start := time.Now()
	deps = deps.withDefaults(cfg)
	sum := &Summary{RunID: uuid.NewString()}
	r := &runner{
		cfg:  cfg,
		deps: deps,
		sum:  sum,
		log:  deps.Log.WithFields(logger.Fields{"run_id": sum.RunID, "job": cfg.Job}),
	}

	err := r.run(ctx)
	sum.Duration = time.Since(start)
	if err != nil {
		r.log.WithError(err).Error("run failed")
		return sum, err
	}
	r.log.WithFields(logger.Fields{
		"rows":        sum.Rows,
		"fingerprint": sum.FingerprintHex(),
		"elapsed":     sum.Duration.Truncate(time.Millisecond).String(),
	}).Info("run complete")
	return sum, nil
}

func (r *runner) run(ctx context.Context) error {
	if err := r.milestone(auditlog.MsgPreliminaries); err != nil {
		return err
	}

	var res *extract.Result
	if err := r.step(StepExtract, func() (err error) {
		res, err = extract.Extract(ctx, r.deps.Fetcher, r.cfg.SourceURL, ExtractColumns)
		return err
	}); err != nil {
		return err
	}
	r.sum.Rows = res.Table.Len()
	r.sum.SourceStatus = res.Page.StatusCode
	r.sum.Fingerprint = res.Page.Fingerprint
	if !res.Page.OK() {
		r.log.WithFields(logger.Fields{"status": res.Page.StatusCode, "url": res.Page.URL}).
			Warn("source returned a non-2xx status; parsed the body anyway")
	}
	metrics.RecordBytes(r.cfg.Job, len(res.Page.Body))
	metrics.RecordRows(r.cfg.Job, "extracted", res.Table.Len())
	if err := r.milestone(auditlog.MsgExtracted); err != nil {
		return err
	}

	table := res.Table
	if err := r.step(StepTransform, func() error {
		rt, err := rates.Load(r.cfg.RateTablePath)
		if err != nil {
			return err
		}
		table, err = transformer.Transform(table, rt)
		return err
	}); err != nil {
		return err
	}
	metrics.RecordRows(r.cfg.Job, "transformed", table.Len())
	if err := r.milestone(auditlog.MsgTransformed); err != nil {
		return err
	}

	if err := r.step(StepCSV, func() error {
		return csvsink.Write(table, r.cfg.CSVOutputPath)
	}); err != nil {
		return err
	}
	metrics.RecordRows(r.cfg.Job, "csv_written", table.Len())
	if err := r.milestone(auditlog.MsgCSVSaved); err != nil {
		return err
	}

	if r.cfg.ParquetOutputPath != "" {
		if err := r.step(StepParquet, func() error {
			return parquetsink.Write(table, r.cfg.ParquetOutputPath)
		}); err != nil {
			return err
		}
		if err := r.milestone(auditlog.MsgParquetSaved); err != nil {
			return err
		}
	}

	var store *storage.Store
	if err := r.step(StepConnect, func() (err error) {
		store, err = r.deps.OpenStore(ctx, storage.Config{Kind: r.cfg.Storage.Kind, DSN: r.cfg.Storage.DSN})
		return err
	}); err != nil {
		return err
	}
	closed := false
	defer func() {
		if !closed {
			if cerr := store.Close(); cerr != nil {
				r.log.WithError(cerr).Warn("close store after failure")
			}
		}
	}()
	if err := r.milestone(auditlog.MsgConnected); err != nil {
		return err
	}

	if err := r.step(StepLoad, func() error {
		return store.WriteTable(ctx, table, r.cfg.TableName)
	}); err != nil {
		return err
	}
	metrics.RecordRows(r.cfg.Job, "loaded", table.Len())
	if err := r.milestone(auditlog.MsgDBLoaded); err != nil {
		return err
	}

	for _, stmt := range StatementsFor(r.cfg.Storage.Kind, queriesFor(r.cfg.TableName)) {
		var qr *query.Result
		if err := r.step(StepQuery, func() (err error) {
			qr, err = query.Run(ctx, store, stmt, r.deps.Stdout)
			return err
		}); err != nil {
			return err
		}
		r.sum.Results = append(r.sum.Results, qr)
		if err := r.milestone(auditlog.MsgQueryExecuted); err != nil {
			return err
		}
	}

	closed = true
	if err := r.step(StepClose, store.Close); err != nil {
		return err
	}
	return r.milestone(auditlog.MsgConnectionClose)
}

// step times fn, records it and wraps its error with the step name.
func (r *runner) step(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)
	metrics.RecordStep(r.cfg.Job, name, err, d)
	r.sum.Steps = append(r.sum.Steps, StepTiming{Step: name, Duration: d})

	entry := r.log.WithFields(logger.Fields{"step": name, "elapsed": d.String()})
	if err != nil {
		entry.WithError(err).Error("step failed")
		return fmt.Errorf("pipeline: %s: %w", name, err)
	}
	entry.Debug("step done")
	return nil
}

func (r *runner) milestone(msg string) error {
	if err := r.deps.Audit.Log(msg); err != nil {
		return fmt.Errorf("pipeline: audit: %w", err)
	}
	r.log.Info(msg)
	return nil
}

// IsInputError reports whether err was caused by bad input data (the page
// layout or the rate table) rather than by infrastructure.
func IsInputError(err error) bool {
	var mre *extract.MalformedRowError
	var mr *transformer.MissingRateError
	return errors.Is(err, extract.ErrNoTableFound) || errors.As(err, &mre) || errors.As(err, &mr)
}
