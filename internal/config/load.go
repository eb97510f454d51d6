package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BANKS_ETL_"

// Load reads a JSON (.json) or YAML (.yaml/.yml) file and overlays it on
// Default(). Keys absent from the file keep their default values.
func Load(path string) (Pipeline, error) {
	p := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("config: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return p, fmt.Errorf("config: decode json %s: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return p, fmt.Errorf("config: decode yaml %s: %w", path, err)
		}
	default:
		return p, fmt.Errorf("config: unsupported config extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
	return p, nil
}

// ApplyEnv overlays BANKS_ETL_* variables found through lookup (normally
// os.LookupEnv). Only set variables are applied.
func ApplyEnv(p *Pipeline, lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"JOB":                 &p.Job,
		"SOURCE_URL":          &p.SourceURL,
		"RATE_TABLE_PATH":     &p.RateTablePath,
		"CSV_OUTPUT_PATH":     &p.CSVOutputPath,
		"PARQUET_OUTPUT_PATH": &p.ParquetOutputPath,
		"LOG_PATH":            &p.LogPath,
		"TABLE_NAME":          &p.TableName,
		"STORAGE_KIND":        &p.Storage.Kind,
		"STORAGE_DSN":         &p.Storage.DSN,
		"HTTP_USER_AGENT":     &p.HTTP.UserAgent,
		"LOG_LEVEL":           &p.Logging.Level,
		"LOG_FORMAT":          &p.Logging.Format,
		"LOG_OUTPUT":          &p.Logging.Output,
	}
	for key, dst := range str {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "HTTP_TIMEOUT"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %sHTTP_TIMEOUT: %w", EnvPrefix, err)
		}
		p.HTTP.Timeout = Duration(d)
	}
	return nil
}

// Duration is a time.Duration that decodes from "90s"-style strings or from
// a bare number of seconds.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String implements fmt.Stringer.
func (d Duration) String() string { return time.Duration(d).String() }

// MarshalJSON renders the duration as a string such as "1m0s".
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return d.parse(s)
	}
	var secs float64
	if err := json.Unmarshal(b, &secs); err != nil {
		return fmt.Errorf("duration must be a string or number: %s", b)
	}
	*d = Duration(secs * float64(time.Second))
	return nil
}

// UnmarshalYAML accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	if n.Tag == "!!int" || n.Tag == "!!float" {
		var secs float64
		if err := n.Decode(&secs); err != nil {
			return err
		}
		*d = Duration(secs * float64(time.Second))
		return nil
	}
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	return d.parse(s)
}

func (d *Duration) parse(s string) error {
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
