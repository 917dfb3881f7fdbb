package engine

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
)

// maxFileNameBytes keeps cache file names under common filesystem limits.
const maxFileNameBytes = 200

// DocumentCache is a disk-backed store of fetched documents, one JSON file per
// normalized URL. Records older than maxAge read as absent.
type DocumentCache struct {
	dir    string
	maxAge time.Duration
	now    func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// NewDocumentCache creates the per-conversation cache directory
// <root>/<conversationID>/web_cache.
func NewDocumentCache(root, conversationID string, maxAge time.Duration) (*DocumentCache, error) {
	if root == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("cache root: %w", err)
		}
		root = filepath.Join(base, "go_research")
	}
	if conversationID == "" {
		return nil, errors.New("cache: conversation id is required")
	}
	if maxAge <= 0 {
		maxAge = DefaultCacheMaxAge
	}
	dir := filepath.Join(root, conversationID, "web_cache")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	return &DocumentCache{dir: dir, maxAge: maxAge, now: time.Now}, nil
}

// Dir returns the directory holding cache records.
func (c *DocumentCache) Dir() string { return c.dir }

// Read returns the cached record for rawURL if it exists and is younger than
// the freshness window. Missing, stale and corrupt records are all misses.
func (c *DocumentCache) Read(rawURL string) (CachedDocument, bool) {
	data, err := os.ReadFile(c.path(rawURL))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Debug("cache: read failed", slog.String("url", rawURL), slog.Any("error", err))
		}
		return c.miss()
	}

	var doc CachedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Debug("cache: corrupt record", slog.String("url", rawURL), slog.Any("error", err))
		return c.miss()
	}

	if !c.fresh(doc.Timestamp) {
		slog.Debug("cache: stale record", slog.String("url", rawURL), slog.Uint64("timestamp", doc.Timestamp))
		return c.miss()
	}

	c.hits.Add(1)
	metrics.CacheHits.Add(1)
	return doc, true
}

// Write replaces the record for rawURL. The file is written to a temp path
// and renamed, so readers never observe a partial record.
func (c *DocumentCache) Write(rawURL, snippet, content, summary string) (CachedDocument, error) {
	doc := CachedDocument{
		URL:       rawURL,
		Snippet:   snippet,
		Document:  content,
		Summary:   summary,
		Timestamp: uint64(c.now().Unix()),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return doc, fmt.Errorf("cache encode: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".write-*")
	if err != nil {
		return doc, fmt.Errorf("cache temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return doc, fmt.Errorf("cache write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return doc, fmt.Errorf("cache close: %w", err)
	}
	if err := os.Rename(tmpName, c.path(rawURL)); err != nil {
		os.Remove(tmpName)
		return doc, fmt.Errorf("cache rename: %w", err)
	}
	return doc, nil
}

// Prune deletes records older than the freshness window and returns how many
// were removed.
func (c *DocumentCache) Prune() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		p := filepath.Join(c.dir, e.Name())
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		var doc CachedDocument
		if json.Unmarshal(data, &doc) == nil && c.fresh(doc.Timestamp) {
			continue
		}
		if err := os.Remove(p); err == nil {
			removed++
		}
	}
	return removed, nil
}

// Stats returns hit/miss counters for this cache.
func (c *DocumentCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *DocumentCache) miss() (CachedDocument, bool) {
	c.misses.Add(1)
	metrics.CacheMisses.Add(1)
	return CachedDocument{}, false
}

// fresh measures age from the last write, so every refresh restarts the window.
func (c *DocumentCache) fresh(ts uint64) bool {
	written := time.Unix(int64(ts), 0)
	return c.now().Sub(written) < c.maxAge
}

func (c *DocumentCache) path(rawURL string) string {
	return filepath.Join(c.dir, CacheFileName(rawURL))
}

// CacheKey normalizes a URL so near-duplicates share one record: the scheme,
// "www." prefix, default ports, fragment and trailing slash are dropped and
// the host is lowercased. The query string is kept.
func CacheKey(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		// Not a parseable absolute URL; strip a scheme prefix textually.
		if i := strings.Index(s, "://"); i >= 0 {
			s = s[i+3:]
		}
		return strings.TrimSuffix(s, "/")
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if port := u.Port(); port != "" && port != "80" && port != "443" {
		host += ":" + port
	}

	path := strings.TrimSuffix(u.EscapedPath(), "/")
	key := host + path
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return key
}

// CacheFileName returns a filesystem-safe file name for rawURL: the cache key
// with every non-alphanumeric byte percent-encoded, or a sha256 digest when
// that would be too long.
func CacheFileName(rawURL string) string {
	key := CacheKey(rawURL)
	var sb strings.Builder
	for i := 0; i < len(key); i++ {
		b := key[i]
		if (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') {
			sb.WriteByte(b)
		} else {
			fmt.Fprintf(&sb, "%%%02X", b)
		}
	}
	name := sb.String()
	if len(name)+len(".json") > maxFileNameBytes {
		sum := sha256.Sum256([]byte(key))
		name = fmt.Sprintf("h-%x", sum[:16])
	}
	return name + ".json"
}
