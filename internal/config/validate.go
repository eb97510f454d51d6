// Package config provides configuration models and helpers for the ETL run.
//
// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind"). Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// identRe matches plain SQL identifiers. The table name is interpolated into
// the fixed read queries, so anything else is rejected.
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// KnownStorageKinds lists the relational backends compiled into cmd/etl.
var KnownStorageKinds = []string{"sqlite", "postgres", "mysql", "mssql"}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Callers may decide whether to treat
// warnings as fatal or not.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "job",
			Message:  "job is empty; metrics will be labeled with the default job name",
		})
	}

	issues = append(issues, validateSourceURL(p.SourceURL)...)

	for _, f := range []struct{ path, val string }{
		{"rate_table_path", p.RateTablePath},
		{"csv_output_path", p.CSVOutputPath},
		{"log_path", p.LogPath},
	} {
		if strings.TrimSpace(f.val) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     f.path,
				Message:  f.path + " must not be empty",
			})
		}
	}

	if !identRe.MatchString(p.TableName) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "table_name",
			Message:  fmt.Sprintf("table_name %q must be a plain identifier ([A-Za-z_][A-Za-z0-9_]*)", p.TableName),
		})
	}

	issues = append(issues, validateStorage(p.Storage)...)

	if p.HTTP.Timeout < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "http.timeout",
			Message:  "http.timeout must be >= 0",
		})
	}

	return issues
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

func validateSourceURL(raw string) []Issue {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return []Issue{{
			Severity: SeverityError,
			Path:     "source_url",
			Message:  fmt.Sprintf("source_url %q must be an absolute http(s) URL", raw),
		}}
	}
	return nil
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
	}

	known := false
	for _, k := range KnownStorageKinds {
		if s.Kind == k {
			known = true
			break
		}
	}
	if !known {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	if strings.TrimSpace(s.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.dsn",
			Message:  "storage.dsn must not be empty",
		})
	}
	return issues
}
