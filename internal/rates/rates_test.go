package rates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeRates(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exchange_rate.csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeRates(t, "Currency,Rate\nEUR,0.93\nGBP,0.8\nINR,82.95\n")
	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbl) != 3 {
		t.Fatalf("len = %d, want 3", len(tbl))
	}
	for code, want := range map[string]float64{"EUR": 0.93, "gbp": 0.8, " INR ": 82.95} {
		got, ok := tbl.Rate(code)
		if !ok || got != want {
			t.Errorf("Rate(%q) = %v, %v; want %v, true", code, got, ok, want)
		}
	}
	if _, ok := tbl.Rate("JPY"); ok {
		t.Errorf("Rate(JPY) found in table without JPY")
	}
}

func TestLoad_ColumnOrderAndCaseDoNotMatter(t *testing.T) {
	t.Parallel()

	tbl, err := Load(writeRates(t, "rate,currency\n0.8,gbp\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r, _ := tbl.Rate("GBP"); r != 0.8 {
		t.Fatalf("Rate(GBP) = %v", r)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"missing rate header", "Currency,Value\nGBP,0.8\n", "header must contain"},
		{"non numeric", "Currency,Rate\nGBP,abc\n", "GBP"},
		{"zero rate", "Currency,Rate\nGBP,0\n", "positive"},
		{"negative rate", "Currency,Rate\nGBP,-1\n", "positive"},
		{"duplicate", "Currency,Rate\nGBP,0.8\ngbp,0.81\n", "duplicate"},
		{"empty code", "Currency,Rate\n,0.8\n", "empty currency"},
		{"empty file", "", "empty input"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeRates(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("Load error = %v, want containing %q", err, tt.msg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatalf("Load(missing) error = nil")
	}
}
