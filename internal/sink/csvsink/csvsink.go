// Package csvsink writes a dataset.Table to a CSV file and reads it back.
package csvsink

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"banksetl/internal/dataset"
	csvparser "banksetl/internal/parser/csv"
)

// Write stores t at path as a header row followed by one line per row. An
// existing file is truncated. Floats use their shortest exact form, with
// ".0" appended to integral values (80.0).
func Write(t *dataset.Table, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csvsink: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("csvsink: close: %w", cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns()); err != nil {
		return fmt.Errorf("csvsink: header: %w", err)
	}
	rec := make([]string, len(t.Columns()))
	for i := 0; i < t.Len(); i++ {
		for j, v := range t.Row(i) {
			rec[j] = FormatCell(v)
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("csvsink: row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csvsink: flush: %w", err)
	}
	return nil
}

// FormatCell renders a single value.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Read loads a file written by Write. The first column is kept as text;
// cells in the other columns that parse as float64 become float64.
func Read(path string) (*dataset.Table, error) {
	f, err := csvparser.ReadFile(path, csvparser.Options{})
	if err != nil {
		return nil, fmt.Errorf("csvsink: %w", err)
	}
	t, err := dataset.New(f.Header)
	if err != nil {
		return nil, fmt.Errorf("csvsink: %w", err)
	}
	for i, rec := range f.Rows {
		row := make([]any, len(rec))
		for j, cell := range rec {
			row[j] = cell
			if j == 0 {
				continue
			}
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				row[j] = v
			}
		}
		if err := t.Append(row...); err != nil {
			return nil, fmt.Errorf("csvsink: line %d: %w", i+2, err)
		}
	}
	return t, nil
}
