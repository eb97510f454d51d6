// Package rates loads the exchange-rate table: a CSV with a Currency,Rate
// header and one row per currency code, where Rate is the multiplier that
// converts USD into that currency.
package rates

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	csvparser "banksetl/internal/parser/csv"
)

// Header names, matched case-insensitively.
const (
	CurrencyHeader = "Currency"
	RateHeader     = "Rate"
)

// Table maps an upper-case currency code to its USD multiplier.
type Table map[string]float64

// Rate returns the multiplier for code (case-insensitive).
func (t Table) Rate(code string) (float64, bool) {
	r, ok := t[strings.ToUpper(strings.TrimSpace(code))]
	return r, ok
}

// Load reads the exchange-rate CSV at path.
func Load(path string) (Table, error) {
	f, err := csvparser.ReadFile(path, csvparser.Options{TrimSpace: true})
	if err != nil {
		return nil, fmt.Errorf("rates: %w", err)
	}
	return FromFile(f)
}

// FromFile builds a Table from an already parsed CSV.
func FromFile(f *csvparser.File) (Table, error) {
	ci, ri := f.Index(CurrencyHeader), f.Index(RateHeader)
	if ci < 0 || ri < 0 {
		return nil, fmt.Errorf("rates: header must contain %q and %q, got %q", CurrencyHeader, RateHeader, f.Header)
	}

	out := make(Table, len(f.Rows))
	for i, row := range f.Rows {
		line := i + 2 // header is line 1
		code := strings.ToUpper(strings.TrimSpace(row[ci]))
		if code == "" {
			return nil, fmt.Errorf("rates: line %d: empty currency code", line)
		}
		if _, dup := out[code]; dup {
			return nil, fmt.Errorf("rates: line %d: duplicate currency %q", line, code)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[ri]), 64)
		if err != nil {
			return nil, fmt.Errorf("rates: line %d: currency %s: %w", line, code, err)
		}
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, fmt.Errorf("rates: line %d: currency %s: rate must be a positive finite number, got %v", line, code, v)
		}
		out[code] = v
	}
	return out, nil
}
