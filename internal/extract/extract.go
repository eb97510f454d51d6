// Package extract turns the source page into a two-column dataset.Table:
// the bank name and its market capitalization in USD billions.
//
// Column-index contract: within each body row of the first table, cell
// NameCell holds the name and cell MarketCapCell holds the market cap. Rows
// with at most one <td> (header and separator rows) are skipped. Any other
// row whose market cap cannot be read aborts extraction with a
// *MalformedRowError; rows are never silently dropped.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"banksetl/internal/dataset"
	"banksetl/internal/datasource/httpds"
	"banksetl/internal/parser/html"
)

// Cell positions within a body row (0-based).
const (
	NameCell      = 1
	MarketCapCell = 2
)

// numberNoise lists characters stripped from the market cap cell before
// parsing: newlines, thousands separators and the dollar sign.
const numberNoise = "\n,$"

// ErrNoTableFound is returned when the page has no <table> element.
var ErrNoTableFound = errors.New("extract: no table found")

// MalformedRowError reports a body row whose cells cannot be read into a
// Record.
type MalformedRowError struct {
	// Row is the 0-based index among the table's body rows.
	Row int
	// Cell is the 0-based cell index that failed.
	Cell int
	// Value is the cleaned cell text, if the cell exists.
	Value string
	Err   error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("extract: malformed row %d cell %d (%q): %v", e.Row, e.Cell, e.Value, e.Err)
}

func (e *MalformedRowError) Unwrap() error { return e.Err }

// Record is one extracted bank.
type Record struct {
	Name         string
	MarketCapUSD float64
}

// Fetcher retrieves a page. *httpds.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*httpds.Page, error)
}

// Result is the extracted table plus the page it came from.
type Result struct {
	Table *dataset.Table
	Page  *httpds.Page
}

// Extract fetches sourceURL and builds a Table with exactly columns, which
// must name the name column and the market cap column, in that order.
func Extract(ctx context.Context, f Fetcher, sourceURL string, columns []string) (*Result, error) {
	if len(columns) != 2 {
		return nil, fmt.Errorf("extract: want 2 columns (name, market cap), got %d", len(columns))
	}
	tbl, err := dataset.New(columns)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	page, err := f.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	records, err := ParseRecords(page.Body)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := tbl.Append(r.Name, r.MarketCapUSD); err != nil {
			return nil, fmt.Errorf("extract: %w", err)
		}
	}
	return &Result{Table: tbl, Page: page}, nil
}

// ParseRecords reads the records from the first table of an HTML document.
func ParseRecords(body []byte) ([]Record, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	table := html.FirstTable(doc)
	if table == nil {
		return nil, ErrNoTableFound
	}

	var out []Record
	for i, cells := range html.BodyRows(table) {
		if len(cells) <= 1 {
			continue
		}
		name := html.CleanText(html.CellText(cells[NameCell]))
		if len(cells) <= MarketCapCell {
			return nil, &MalformedRowError{
				Row:  i,
				Cell: MarketCapCell,
				Err:  fmt.Errorf("row has %d cells", len(cells)),
			}
		}
		mc, err := ParseMarketCap(html.CellText(cells[MarketCapCell]))
		if err != nil {
			var mre *MalformedRowError
			if errors.As(err, &mre) {
				mre.Row = i
				mre.Cell = MarketCapCell
			}
			return nil, err
		}
		out = append(out, Record{Name: name, MarketCapUSD: mc})
	}
	return out, nil
}

// ParseMarketCap converts a raw market cap cell such as "1,432.92\n" or
// "$99" to a float. Negative, NaN and infinite values are rejected.
func ParseMarketCap(raw string) (float64, error) {
	s := strings.TrimSpace(html.RemoveChars(raw, numberNoise))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &MalformedRowError{Value: s, Err: err}
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &MalformedRowError{Value: s, Err: fmt.Errorf("market cap must be a finite number >= 0")}
	}
	return v, nil
}
