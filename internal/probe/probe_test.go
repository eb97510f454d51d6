package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"banksetl/internal/datasource/httpds"
)

func bankRows(n int) string {
	var b strings.Builder
	b.WriteString("<html><body><table><tbody><tr><th>Rank</th><th>Bank</th><th>Cap</th></tr>")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>Bank %d</td><td>%d.5</td></tr>", i, i, 100-i)
	}
	b.WriteString("</tbody></table><table><tr><td>x</td></tr></table></body></html>")
	return b.String()
}

func serve(t *testing.T, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestPage(t *testing.T) {
	t.Parallel()

	url := serve(t, bankRows(8))
	rep, err := Page(context.Background(), httpds.NewClient(httpds.Config{}), Options{URL: url, SampleRows: 3, Backend: "postgres"})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if rep.StatusCode != http.StatusOK || rep.Tables != 2 || rep.BodyRows != 9 || rep.Records != 8 {
		t.Fatalf("Report = %+v", rep)
	}
	if len(rep.Sample) != 3 || rep.Sample[0].Name != "Bank 1" || rep.Sample[0].MarketCapUSD != 99.5 {
		t.Fatalf("Sample = %+v", rep.Sample)
	}
	if rep.Fingerprint == "" || rep.ParseError != "" {
		t.Fatalf("fingerprint/parse error = %q/%q", rep.Fingerprint, rep.ParseError)
	}
	if rep.Config.SourceURL != url || rep.Config.Storage.Kind != "postgres" {
		t.Fatalf("suggested config = %+v", rep.Config)
	}
}

func TestPage_NoTable(t *testing.T) {
	t.Parallel()

	rep, err := Page(context.Background(), httpds.NewClient(httpds.Config{}), Options{URL: serve(t, "<p>none</p>")})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if rep.Tables != 0 || rep.ParseError == "" {
		t.Fatalf("Report = %+v", rep)
	}
}

func TestPage_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Page(context.Background(), httpds.NewClient(httpds.Config{}), Options{}); err == nil {
		t.Fatalf("Page(no URL) error = nil")
	}
	_, err := Page(context.Background(), httpds.NewClient(httpds.Config{}), Options{URL: "http://127.0.0.1:1/"})
	var fe *httpds.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Page(unreachable) error = %v, want *httpds.FetchError", err)
	}
}

func TestSuggestConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		backend  string
		wantKind string
		wantDSN  string
	}{
		{"", "sqlite", "Banks.db"},
		{"sqlite", "sqlite", "Banks.db"},
		{"postgres", "postgres", "postgres://"},
		{"mysql", "mysql", "@tcp("},
		{"mssql", "mssql", "sqlserver://"},
		{"oracle", "oracle", ""},
	}
	for _, tt := range tests {
		cfg := suggestConfig(Options{URL: "https://example.com/banks", Backend: tt.backend})
		if cfg.Storage.Kind != tt.wantKind || !strings.Contains(cfg.Storage.DSN, tt.wantDSN) {
			t.Errorf("suggestConfig(%q).Storage = %+v, want kind %q, DSN containing %q", tt.backend, cfg.Storage, tt.wantKind, tt.wantDSN)
		}
		if cfg.SourceURL != "https://example.com/banks" {
			t.Errorf("suggestConfig(%q).SourceURL = %q", tt.backend, cfg.SourceURL)
		}
	}
}
