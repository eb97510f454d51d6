// These tests exercise the HTTP datasource client, focusing on:
//   - Default configuration and TLS settings.
//   - Single-attempt semantics (no retries, even on 5xx).
//   - Non-2xx bodies being returned rather than treated as errors.
//   - Transport failures surfacing as *FetchError.
package httpds

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zeebo/xxh3"
)

// TestNewClient_Defaults verifies TLS behavior when no custom Transport is
// supplied.
func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{InsecureSkipVerify: true, Timeout: time.Second})

	transport, ok := c.httpClient.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", c.httpClient.Transport)
	}
	if transport.TLSClientConfig == nil || !transport.TLSClientConfig.InsecureSkipVerify {
		t.Fatalf("expected InsecureSkipVerify=true when configured")
	}
	if c.httpClient.Timeout != time.Second {
		t.Fatalf("timeout = %v, want 1s", c.httpClient.Timeout)
	}
}

// TestFetch_Success returns the body, status, fingerprint and sends the
// configured User-Agent.
func TestFetch_Success(t *testing.T) {
	t.Parallel()

	const body = "<html><table></table></html>"
	var gotUA atomic.Value

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewClient(Config{UserAgent: "banksetl-test"})
	page, err := c.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(page.Body) != body || page.StatusCode != http.StatusOK || !page.OK() {
		t.Fatalf("unexpected page: status=%d body=%q", page.StatusCode, page.Body)
	}
	if page.Fingerprint != xxh3.Hash([]byte(body)) {
		t.Fatalf("fingerprint mismatch")
	}
	if ua, _ := gotUA.Load().(string); ua != "banksetl-test" {
		t.Fatalf("User-Agent = %q", ua)
	}
}

// TestFetch_NonSuccessStatusIsNotRetriedOrRejected documents that a 5xx page
// is fetched exactly once and its body is still returned.
func TestFetch_NonSuccessStatusIsNotRetriedOrRejected(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance"))
	}))
	defer srv.Close()

	page, err := NewClient(Config{}).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if page.OK() || page.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", page.StatusCode)
	}
	if string(page.Body) != "maintenance" {
		t.Fatalf("body = %q", page.Body)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("server hits = %d, want 1", n)
	}
}

type failingTransport struct{ err error }

func (f failingTransport) RoundTrip(*http.Request) (*http.Response, error) { return nil, f.err }

func TestFetch_TransportErrorIsFetchError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	c := NewClient(Config{Transport: failingTransport{err: boom}})

	_, err := c.Fetch(context.Background(), "http://example.invalid/banks")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v (%T), want *FetchError", err, err)
	}
	if fe.URL != "http://example.invalid/banks" {
		t.Fatalf("FetchError.URL = %q", fe.URL)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("error does not wrap transport cause: %v", err)
	}
}

func TestFetch_InvalidURL(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{})
	for _, u := range []string{"", "://bad"} {
		var fe *FetchError
		if _, err := c.Fetch(context.Background(), u); !errors.As(err, &fe) {
			t.Errorf("Fetch(%q) error = %v, want *FetchError", u, err)
		}
	}
}

func TestFetch_CanceledContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(Config{}).Fetch(ctx, srv.URL)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
