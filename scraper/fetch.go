package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/use-agent/printprobe/config"
	"github.com/use-agent/printprobe/models"
	"github.com/use-agent/printprobe/parser"
)

const (
	defaultTimeout = 5 * time.Second
	defaultMaxBody = 2 << 20
	maxRedirects   = 5
)

// Fetcher reads firmware pages from devices. It performs exactly one GET
// per call and never retries. It is safe for concurrent use.
type Fetcher struct {
	client     *http.Client
	scheme     string
	timeout    time.Duration
	maxBody    int64
	userAgent  string
	usagePaths []string
}

// NewFetcher creates a Fetcher. Zero values in cfg fall back to defaults.
func NewFetcher(cfg config.FetchConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	scheme := strings.ToLower(cfg.Scheme)
	if scheme == "" {
		scheme = "http"
	}

	transport := &http.Transport{
		// Devices live on the LAN; proxy environment variables don't apply.
		Proxy:       nil,
		DialContext: (&net.Dialer{Timeout: timeout}).DialContext,
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialDeviceTLS(ctx, network, addr, timeout)
		},
		ForceAttemptHTTP2:     false,
		MaxIdleConnsPerHost:   1,
		IdleConnTimeout:       30 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		scheme:     scheme,
		timeout:    timeout,
		maxBody:    maxBody,
		userAgent:  cfg.UserAgent,
		usagePaths: cfg.UsagePaths,
	}
}

// Fetch reads one page from host and returns it as UTF-8 text, with
// invalid bytes replaced. host may carry an explicit http:// or https://
// prefix that overrides the configured scheme. Errors are *models.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, host, path string) (string, error) {
	target, err := f.pageURL(host, path)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", models.NewFetchError(models.ErrCodeInvalidInput, "cannot build request for "+target, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", classify(err, target)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		fe := models.NewFetchError(models.ErrCodeHTTPStatus,
			fmt.Sprintf("%s returned HTTP %d", target, resp.StatusCode), nil)
		fe.StatusCode = resp.StatusCode
		return "", fe
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		if isTimeout(err) {
			return "", models.NewFetchError(models.ErrCodeTimeout, "timed out reading "+target, err)
		}
		return "", models.NewFetchError(models.ErrCodeReadFailed, "cannot read "+target, err)
	}

	return parser.Decode(body), nil
}

// pageURL joins host and path into an absolute URL.
func (f *Fetcher) pageURL(host, path string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", models.NewFetchError(models.ErrCodeInvalidInput, "host is required", nil)
	}
	if !strings.Contains(host, "://") {
		host = f.scheme + "://" + host
	}
	u, err := url.Parse(host)
	if err != nil || u.Host == "" {
		return "", models.NewFetchError(models.ErrCodeInvalidInput, "invalid host "+host, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", models.NewFetchError(models.ErrCodeInvalidInput, "unsupported scheme "+u.Scheme, nil)
	}
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return u.Scheme + "://" + u.Host + path, nil
}

// classify maps a transport error to a FetchError code.
func classify(err error, target string) *models.FetchError {
	if isTimeout(err) {
		return models.NewFetchError(models.ErrCodeTimeout, "device did not answer in time: "+target, err)
	}
	return models.NewFetchError(models.ErrCodeUnreachable, "device unreachable: "+target, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
