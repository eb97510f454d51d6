package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"banksetl/internal/datasource/httpds"
)

var columns = []string{"Name", "MC_USD_Billion"}

// bankPage renders a page shaped like the archived Wikipedia list: a header
// row of <th>, then one <tr> per bank with rank, name and market cap cells.
func bankPage(rows ...[3]string) string {
	var b strings.Builder
	b.WriteString(`<html><body><h2>By market capitalization</h2><table class="wikitable"><tbody>`)
	b.WriteString("<tr><th>Rank\n</th><th>Bank name\n</th><th>Market cap<br/>(US$ billion)\n</th></tr>\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "<tr>\n<td>%s\n</td>\n<td><span class=\"flagicon\"><img src=\"x.png\"/>&nbsp;</span><a href=\"/wiki/x\">%s</a>\n</td>\n<td>%s\n</td></tr>\n", r[0], r[1], r[2])
	}
	b.WriteString(`</tbody></table><table><tr><td>1</td><td>Second table</td><td>1.0</td></tr></table></body></html>`)
	return b.String()
}

// staticFetcher returns a fixed body without touching the network.
type staticFetcher struct {
	body string
	err  error
}

func (s staticFetcher) Fetch(_ context.Context, url string) (*httpds.Page, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &httpds.Page{URL: url, StatusCode: http.StatusOK, Body: []byte(s.body)}, nil
}

// TestExtract_FixtureOverHTTP fetches an N-row fixture through the real
// client and checks names are trimmed and numbers are free of ",", "$" and
// newline artifacts.
func TestExtract_FixtureOverHTTP(t *testing.T) {
	t.Parallel()

	page := bankPage(
		[3]string{"1", "JPMorgan Chase", "432.92"},
		[3]string{"2", "Bank of America", "$231.52"},
		[3]string{"3", "Industrial and Commercial Bank of China", "1,194.56"},
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	res, err := Extract(context.Background(), httpds.NewClient(httpds.Config{}), srv.URL, columns)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	tbl := res.Table
	if got := tbl.Columns(); !reflect.DeepEqual(got, columns) {
		t.Fatalf("Columns() = %v, want %v", got, columns)
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tbl.Len())
	}

	want := [][]any{
		{"JPMorgan Chase", 432.92},
		{"Bank of America", 231.52},
		{"Industrial and Commercial Bank of China", 1194.56},
	}
	for i, w := range want {
		if got := tbl.Row(i); !reflect.DeepEqual(got, w) {
			t.Errorf("Row(%d) = %#v, want %#v", i, got, w)
		}
	}
	if res.Page == nil || res.Page.Fingerprint == 0 {
		t.Errorf("page fingerprint not propagated: %+v", res.Page)
	}
}

func TestExtract_NoTable(t *testing.T) {
	t.Parallel()

	f := staticFetcher{body: "<html><body><p>archived page moved</p></body></html>"}
	_, err := Extract(context.Background(), f, "http://x", columns)
	if !errors.Is(err, ErrNoTableFound) {
		t.Fatalf("error = %v, want ErrNoTableFound", err)
	}
}

func TestExtract_FetchErrorPropagates(t *testing.T) {
	t.Parallel()

	fe := &httpds.FetchError{URL: "http://x", Err: errors.New("dial tcp: refused")}
	_, err := Extract(context.Background(), staticFetcher{err: fe}, "http://x", columns)
	var got *httpds.FetchError
	if !errors.As(err, &got) {
		t.Fatalf("error = %v, want *httpds.FetchError", err)
	}
}

// TestExtract_MalformedMarketCapAborts documents the propagate-and-abort
// policy: a non-numeric cell fails the whole extraction.
func TestExtract_MalformedMarketCapAborts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{"not available", "N/A"},
		{"empty", ""},
		{"negative", "-5"},
		{"footnote", "432.92[1]"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			body := bankPage(
				[3]string{"1", "Good Bank", "10"},
				[3]string{"2", "Bad Bank", tt.value},
			)
			_, err := Extract(context.Background(), staticFetcher{body: body}, "http://x", columns)

			var mre *MalformedRowError
			if !errors.As(err, &mre) {
				t.Fatalf("error = %v, want *MalformedRowError", err)
			}
			// Body row 0 is the <th> header row.
			if mre.Row != 2 || mre.Cell != MarketCapCell {
				t.Fatalf("MalformedRowError row/cell = %d/%d, want 2/%d", mre.Row, mre.Cell, MarketCapCell)
			}
		})
	}
}

func TestExtract_TwoCellRowIsMalformed(t *testing.T) {
	t.Parallel()

	body := `<table><tr><td>1</td><td>Only a name</td></tr></table>`
	_, err := Extract(context.Background(), staticFetcher{body: body}, "http://x", columns)
	var mre *MalformedRowError
	if !errors.As(err, &mre) {
		t.Fatalf("error = %v, want *MalformedRowError", err)
	}
}

func TestExtract_SkipsSingleCellRows(t *testing.T) {
	t.Parallel()

	body := `<table>
<tr><td colspan="3">Separator</td></tr>
<tr><td>1</td><td> A </td><td>1.5</td></tr>
<tr></tr>
<tr><td>2</td><td>B</td><td>2</td></tr>
</table>`
	res, err := Extract(context.Background(), staticFetcher{body: body}, "http://x", columns)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", res.Table.Len())
	}
	if got := res.Table.Row(0); got[0] != "A" || got[1] != 1.5 {
		t.Fatalf("Row(0) = %v", got)
	}
}

func TestExtract_RequiresTwoColumns(t *testing.T) {
	t.Parallel()

	if _, err := Extract(context.Background(), staticFetcher{}, "http://x", []string{"Name"}); err == nil {
		t.Fatalf("error = nil for a single column schema")
	}
}

func TestParseMarketCap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"432.92\n", 432.92, false},
		{"\n1,194.56\n", 1194.56, false},
		{"$99", 99, false},
		{" 0 ", 0, false},
		{"N/A", 0, true},
		{"Inf", 0, true},
		{"NaN", 0, true},
		{"-1", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMarketCap(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMarketCap(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMarketCap(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
