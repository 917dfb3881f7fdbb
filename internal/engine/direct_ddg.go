package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Searcher turns a query into an ordered list of candidates.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchCandidate, error)
}

// DDGSearcher scrapes the DuckDuckGo HTML lite results page.
type DDGSearcher struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	retry   RetryConfig
}

// NewDDGSearcher builds a searcher from cfg.
func NewDDGSearcher(cfg Config) *DDGSearcher {
	cfg = cfg.withDefaults()
	return &DDGSearcher{
		client:  cfg.HTTPClient,
		baseURL: cfg.SearchURL,
		timeout: cfg.SearchTimeout,
		retry:   cfg.SearchRetry,
	}
}

// Search queries DuckDuckGo. Any transport failure, non-200 status or timeout
// is reported as ErrSearchUnavailable; a page with no parseable results is
// an empty, successful answer.
func (s *DDGSearcher) Search(ctx context.Context, query string) ([]SearchCandidate, error) {
	metrics.SearchRequests.Add(1)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	u := s.baseURL + "?q=" + url.QueryEscape(query)
	data, err := RetryDo(ctx, s.retry, func() ([]byte, error) {
		return s.get(ctx, u)
	})
	if err != nil {
		metrics.SearchErrors.Add(1)
		return nil, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}

	results := parseDDGHTML(data)
	slog.Debug("ddg results", slog.String("query", query), slog.Int("count", len(results)))
	return results, nil
}

func (s *DDGSearcher) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	setBrowserHeaders(req)
	req.Header.Set("Referer", "https://html.duckduckgo.com/")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &httpStatusError{StatusCode: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

// parseDDGHTML extracts candidates in page order. Blocks without a usable
// URL are skipped, as are sponsored results.
func parseDDGHTML(data []byte) []SearchCandidate {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		slog.Debug("ddg: html parse failed", slog.Any("error", err))
		return nil
	}

	var results []SearchCandidate
	doc.Find(".result").Each(func(_ int, s *goquery.Selection) {
		if s.HasClass("result--ad") {
			return
		}

		link := ddgResultURL(s)
		if link == "" {
			return
		}

		results = append(results, SearchCandidate{
			URL:     link,
			Snippet: CollapseWhitespace(s.Find(".result__snippet").First().Text()),
		})
	})
	return results
}

// ddgResultURL prefers the redirect href of the title link and falls back to
// the visible URL line.
func ddgResultURL(s *goquery.Selection) string {
	for _, sel := range []string{"a.result__a", "a.result__url"} {
		if href, ok := s.Find(sel).First().Attr("href"); ok {
			if u := normalizeResultURL(ddgUnwrapURL(href)); u != "" {
				return u
			}
		}
	}
	return normalizeResultURL(s.Find(".result__url").First().Text())
}

// ddgUnwrapURL extracts the destination from a redirect wrapper such as
// //duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com&rut=...
func ddgUnwrapURL(href string) string {
	i := strings.Index(href, "uddg=")
	if i < 0 {
		return href
	}
	enc := href[i+len("uddg="):]
	if j := strings.Index(enc, "&"); j >= 0 {
		enc = enc[:j]
	}
	dec, err := url.QueryUnescape(enc)
	if err != nil {
		return ""
	}
	return dec
}

// normalizeResultURL removes markup whitespace and forces an https scheme.
// Relative and engine-internal links yield "".
func normalizeResultURL(raw string) string {
	s := strings.Join(strings.Fields(raw), "")
	switch {
	case strings.HasPrefix(s, "https://"):
		s = s[len("https://"):]
	case strings.HasPrefix(s, "http://"):
		s = s[len("http://"):]
	case strings.HasPrefix(s, "//"):
		s = s[2:]
	case strings.HasPrefix(s, "/"):
		return ""
	}
	if s == "" || strings.HasPrefix(s, "duckduckgo.com/") {
		return ""
	}
	return "https://" + s
}
