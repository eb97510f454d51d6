package csv

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead_HeaderAndRows(t *testing.T) {
	t.Parallel()

	in := "\uFEFFCurrency, Rate\nEUR, 0.93\nGBP,0.8\n"
	f, err := Read(strings.NewReader(in), Options{TrimSpace: true})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if want := []string{"Currency", "Rate"}; !reflect.DeepEqual(f.Header, want) {
		t.Fatalf("Header = %q, want %q", f.Header, want)
	}
	want := [][]string{{"EUR", "0.93"}, {"GBP", "0.8"}}
	if !reflect.DeepEqual(f.Rows, want) {
		t.Fatalf("Rows = %q, want %q", f.Rows, want)
	}
	if f.Index("rate") != 1 || f.Index("missing") != -1 {
		t.Fatalf("Index lookups wrong")
	}
}

func TestRead_QuotedDelimiters(t *testing.T) {
	t.Parallel()

	in := "Name,MC_USD_Billion\n\"Mitsubishi UFJ, Ltd\",100.5\n"
	f, err := Read(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if f.Rows[0][0] != "Mitsubishi UFJ, Ltd" {
		t.Fatalf("quoted field = %q", f.Rows[0][0])
	}
}

func TestRead_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Read(strings.NewReader(""), Options{}); err == nil {
		t.Errorf("empty input error = nil")
	}
	if _, err := Read(strings.NewReader("a,b\n1,2,3\n"), Options{}); err == nil {
		t.Errorf("ragged row error = nil")
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "x.csv")
	if err := os.WriteFile(path, []byte("a;b\n1;2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := ReadFile(path, Options{Comma: ';'})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(f.Rows) != 1 || f.Rows[0][1] != "2" {
		t.Fatalf("Rows = %q", f.Rows)
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"), Options{}); err == nil {
		t.Fatalf("missing file error = nil")
	}
}

func TestStripHeaderBOM(t *testing.T) {
	t.Parallel()

	if got := StripHeaderBOM(nil); got != nil {
		t.Errorf("StripHeaderBOM(nil) = %v", got)
	}
	if got := StripHeaderBOM([]string{"\uFEFFa", "b"}); got[0] != "a" {
		t.Errorf("BOM not stripped: %q", got[0])
	}
}
