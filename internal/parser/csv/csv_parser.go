// Package csv reads small, header-first CSV files into memory. It is used for
// the exchange-rate table and for reading the output CSV back.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Options configures the CSV reader. All fields are optional.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing whitespace from each field value.
	TrimSpace bool
}

// File is a parsed CSV: a header and the data rows. Every row has exactly
// len(Header) fields.
type File struct {
	Header []string
	Rows   [][]string
}

// Index returns the position of the header named name, compared
// case-insensitively after trimming, or -1.
func (f *File) Index(name string) int {
	for i, h := range f.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// Read parses r. The first record is the header; a UTF-8 BOM on it is
// removed. An input without a header is an error.
func Read(r io.Reader, opt Options) (*File, error) {
	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.TrimLeadingSpace = opt.TrimSpace

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv: empty input, header row required")
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	header = StripHeaderBOM(header)
	if opt.TrimSpace {
		trimAll(header)
	}

	out := &File{Header: header}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row %d: %w", len(out.Rows)+1, err)
		}
		if opt.TrimSpace {
			trimAll(rec)
		}
		out.Rows = append(out.Rows, rec)
	}
	return out, nil
}

// ReadFile opens path and calls Read.
func ReadFile(path string, opt Options) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	defer f.Close()
	return Read(f, opt)
}

func trimAll(fields []string) {
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
}
