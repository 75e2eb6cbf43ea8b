package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/use-agent/printprobe/config"
	"github.com/use-agent/printprobe/models"
)

func newTestFetcher(timeout time.Duration, paths ...string) *Fetcher {
	return NewFetcher(config.FetchConfig{
		Timeout:    timeout,
		UserAgent:  "printprobe-test",
		UsagePaths: paths,
	})
}

// hostOf strips the scheme from an httptest server URL.
func hostOf(srv *httptest.Server) string {
	return strings.TrimPrefix(strings.TrimPrefix(srv.URL, "http://"), "https://")
}

func fetchErrorCode(t *testing.T, err error) string {
	t.Helper()
	var fe *models.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error %v is not a *models.FetchError", err)
	}
	return fe.Code
}

func TestFetch_OK(t *testing.T) {
	var gotUA, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<title>WF-3540 Series</title>"))
	}))
	defer srv.Close()

	f := newTestFetcher(time.Second)
	body, err := f.Fetch(context.Background(), hostOf(srv), "PRESENTATION/HTML/TOP/PRTINFO.HTML")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if body != "<title>WF-3540 Series</title>" {
		t.Errorf("body = %q", body)
	}
	if gotPath != "/PRESENTATION/HTML/TOP/PRTINFO.HTML" {
		t.Errorf("path = %q", gotPath)
	}
	if gotUA != "printprobe-test" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestFetch_InvalidUTF8IsReplaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Druckt\xe4"))
	}))
	defer srv.Close()

	body, err := newTestFetcher(time.Second).Fetch(context.Background(), hostOf(srv), "/")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if body != "Druckt\uFFFD" {
		t.Errorf("body = %q", body)
	}
}

func TestFetch_BodyIsCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	f := NewFetcher(config.FetchConfig{Timeout: time.Second, MaxBodyBytes: 10})
	body, err := f.Fetch(context.Background(), hostOf(srv), "/")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(body) != 10 {
		t.Errorf("len(body) = %d, want 10", len(body))
	}
}

func TestFetch_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher(time.Second).Fetch(context.Background(), hostOf(srv), "/missing")
	if code := fetchErrorCode(t, err); code != models.ErrCodeHTTPStatus {
		t.Errorf("code = %s, want %s", code, models.ErrCodeHTTPStatus)
	}
	var fe *models.FetchError
	errors.As(err, &fe)
	if fe.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", fe.StatusCode)
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := newTestFetcher(100*time.Millisecond).Fetch(context.Background(), hostOf(srv), "/")
	if code := fetchErrorCode(t, err); code != models.ErrCodeTimeout {
		t.Errorf("code = %s, want %s", code, models.ErrCodeTimeout)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
}

func TestFetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	host := hostOf(srv)
	srv.Close()

	_, err := newTestFetcher(time.Second).Fetch(context.Background(), host, "/")
	if code := fetchErrorCode(t, err); code != models.ErrCodeUnreachable {
		t.Errorf("code = %s, want %s", code, models.ErrCodeUnreachable)
	}
}

func TestFetch_InvalidInput(t *testing.T) {
	f := newTestFetcher(time.Second)
	for _, host := range []string{"", "   ", "ftp://printer.lan", "http://"} {
		_, err := f.Fetch(context.Background(), host, "/")
		if code := fetchErrorCode(t, err); code != models.ErrCodeInvalidInput {
			t.Errorf("Fetch(%q) code = %s, want %s", host, code, models.ErrCodeInvalidInput)
		}
	}
}

func TestFetch_SelfSignedHTTPS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("secure page"))
	}))
	defer srv.Close()

	body, err := newTestFetcher(2*time.Second).Fetch(context.Background(), srv.URL, "/")
	if err != nil {
		t.Fatalf("Fetch over self-signed TLS: %v", err)
	}
	if body != "secure page" {
		t.Errorf("body = %q", body)
	}
}

func TestFetchUsage_StopsAtFirstMatch(t *testing.T) {
	var (
		mu   sync.Mutex
		hits []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, r.URL.Path)
		mu.Unlock()
		switch r.URL.Path {
		case "/empty":
			_, _ = w.Write([]byte("<html><body>No counters here</body></html>"))
		case "/counters":
			_, _ = w.Write([]byte(`<dl><dt>Total Number of Pages</dt><dd>12,345</dd></dl>`))
		case "/never":
			_, _ = w.Write([]byte(`<dl><dt>Total Number of Pages</dt><dd>1</dd></dl>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := newTestFetcher(time.Second, "/missing", "/empty", "/counters", "/never")
	u := f.FetchUsage(context.Background(), hostOf(srv))

	if u.TotalPages != "12345" {
		t.Errorf("TotalPages = %q, want 12345", u.TotalPages)
	}
	if u.Source != "/counters" {
		t.Errorf("Source = %q, want /counters", u.Source)
	}
	mu.Lock()
	defer mu.Unlock()
	want := []string{"/missing", "/empty", "/counters"}
	if strings.Join(hits, ",") != strings.Join(want, ",") {
		t.Errorf("requests = %v, want %v", hits, want)
	}
}

func TestFetchUsage_NothingReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	host := hostOf(srv)
	srv.Close()

	u := newTestFetcher(time.Second, "/a", "/b").FetchUsage(context.Background(), host)
	if !u.Empty() {
		t.Errorf("expected empty counters, got %+v", u)
	}
}
