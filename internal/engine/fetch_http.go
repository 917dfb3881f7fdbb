package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a response body is read before parsing.
const maxBodyBytes = 4 << 20

// PageFetcher retrieves one URL and returns its cleaned text.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Fetcher downloads pages over HTTP and extracts their readable text.
type Fetcher struct {
	client       *http.Client
	limiter      *rate.Limiter
	timeout      time.Duration
	parseTimeout time.Duration
	maxChars     int
}

// NewFetcher builds a Fetcher from cfg. FetchRPS <= 0 disables rate limiting.
func NewFetcher(cfg Config) *Fetcher {
	cfg = cfg.withDefaults()
	lim := rate.NewLimiter(rate.Inf, 0)
	if cfg.FetchRPS > 0 {
		lim = rate.NewLimiter(rate.Limit(cfg.FetchRPS), cfg.BatchSize)
	}
	return &Fetcher{
		client:       cfg.HTTPClient,
		limiter:      lim,
		timeout:      cfg.FetchTimeout,
		parseTimeout: cfg.ParseTimeout,
		maxChars:     cfg.MaxContentChars,
	}
}

// NewHTTPClient creates the HTTP client shared by search and fetch: pooled
// connections, proxy from the environment, at most 10 redirects.
// Per-request deadlines come from the caller's context.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
}

// Fetch downloads rawURL under the fetch timeout and extracts its text under
// the parse timeout. The result holds at most maxChars runes.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (text string, err error) {
	if err := validateURL(rawURL); err != nil {
		return "", err
	}

	metrics.FetchRequests.Add(1)
	defer func() {
		switch {
		case errors.Is(err, ErrFetchTimeout):
			metrics.FetchTimeouts.Add(1)
		case err != nil:
			metrics.FetchErrors.Add(1)
		}
	}()

	body, contentType, err := f.download(ctx, rawURL)
	if err != nil {
		return "", err
	}

	return f.parse(ctx, body, contentType)
}

// download performs the GET and reads the body; the connection is released
// before any parsing starts.
func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, "", classifyFetchErr(ctx, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	setBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", classifyFetchErr(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: %w", ErrFetchFailed, &httpStatusError{StatusCode: resp.StatusCode})
	}

	contentType := resp.Header.Get("Content-Type")
	reader, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), contentType)
	if err != nil {
		slog.Debug("fetch: body read failed", slog.String("url", rawURL), slog.Any("error", err))
		return nil, "", classifyFetchErr(ctx, err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", classifyFetchErr(ctx, err)
	}
	return body, contentType, nil
}

// parse runs extraction in its own goroutine so a pathological document
// cannot hold the caller past the parse timeout.
func (f *Fetcher) parse(ctx context.Context, body []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.parseTimeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := extractText(body, contentType, f.maxChars)
		done <- result{text, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("%w: %w", ErrParseFailed, r.err)
		}
		return r.text, nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", ErrParseFailed, ctx.Err())
	}
}

// validateURL rejects anything that is not an absolute http(s) URL.
func validateURL(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}

// setBrowserHeaders applies Chrome-like headers. Accept-Encoding is left to
// the transport so compressed bodies are decoded transparently.
func setBrowserHeaders(req *http.Request) {
	for k, v := range stealth.ChromeHeaders() {
		if strings.EqualFold(k, "accept-encoding") {
			continue
		}
		req.Header.Set(k, v)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", stealth.RandomUserAgent())
	}
}

// classifyFetchErr maps transport errors onto ErrFetchTimeout or ErrFetchFailed.
func classifyFetchErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrFetchTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrFetchTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrFetchFailed, err)
}

// mediaType returns the lowercased media type of a Content-Type header.
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}
	return mt
}
