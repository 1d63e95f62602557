package client

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"puttpals_server/logger"
)

// CacheVersion names the active cache generation. Bumping it makes
// Purge drop every entry written under an older version.
const CacheVersion = "puttpals-v1"

type cacheEntry struct {
	version string
	status  int
	header  http.Header
	body    []byte
	stored  time.Time
}

func (e *cacheEntry) response(req *http.Request) *http.Response {
	return &http.Response{
		StatusCode: e.status,
		Status:     http.StatusText(e.status),
		Header:     e.header.Clone(),
		Body:       io.NopCloser(bytes.NewReader(e.body)),
		Request:    req,
	}
}

// CachingTransport is an http.RoundTripper giving the app an offline
// window. Document requests go network-first, falling back to the cache
// when the backend is unreachable; static assets are served from cache
// immediately and refreshed in the background (stale-while-revalidate).
// Only successful GET responses are cached.
type CachingTransport struct {
	// Base performs the real round trips; nil means the default transport.
	Base http.RoundTripper

	// AssetPrefixes mark request paths handled stale-while-revalidate.
	AssetPrefixes []string

	Version string

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

// NewCachingTransport builds a transport over base with the current
// cache version.
func NewCachingTransport(base http.RoundTripper) *CachingTransport {
	return &CachingTransport{
		Base:          base,
		AssetPrefixes: []string{"/assets/", "/static/", "/icons/"},
		Version:       CacheVersion,
		entries:       map[string]*cacheEntry{},
	}
}

func (t *CachingTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *CachingTransport) isAsset(path string) bool {
	for _, p := range t.AssetPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// RoundTrip implements http.RoundTripper. Non-GET requests pass through
// untouched; writes are never served from or stored in the cache.
func (t *CachingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.base().RoundTrip(req)
	}
	if t.isAsset(req.URL.Path) {
		return t.staleWhileRevalidate(req)
	}
	return t.networkFirst(req)
}

func (t *CachingTransport) networkFirst(req *http.Request) (*http.Response, error) {
	resp, err := t.base().RoundTrip(req)
	if err == nil {
		return t.store(req, resp), nil
	}
	if cached := t.lookup(req); cached != nil {
		logger.Log.Debugf("serving %s from cache: %v", req.URL.Path, err)
		return cached.response(req), nil
	}
	return nil, err
}

func (t *CachingTransport) staleWhileRevalidate(req *http.Request) (*http.Response, error) {
	cached := t.lookup(req)
	if cached == nil {
		resp, err := t.base().RoundTrip(req)
		if err != nil {
			return nil, err
		}
		return t.store(req, resp), nil
	}

	// Serve the cached copy now, refresh it off the request path. The
	// refresh uses a detached request so the caller's context cannot
	// cancel it mid-flight.
	refresh := req.Clone(req.Context())
	go func() {
		resp, err := t.base().RoundTrip(refresh)
		if err != nil {
			logger.Log.Debugf("background refresh of %s failed: %v", refresh.URL.Path, err)
			return
		}
		t.store(refresh, resp).Body.Close()
	}()
	return cached.response(req), nil
}

// store caches a successful response and returns a replayable copy of it.
func (t *CachingTransport) store(req *http.Request, resp *http.Response) *http.Response {
	if resp.StatusCode != http.StatusOK {
		return resp
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		resp.Body = io.NopCloser(bytes.NewReader(body))
		return resp
	}

	entry := &cacheEntry{
		version: t.Version,
		status:  resp.StatusCode,
		header:  resp.Header.Clone(),
		body:    body,
		stored:  time.Now(),
	}
	t.mu.Lock()
	t.entries[cacheKey(req)] = entry
	t.mu.Unlock()

	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp
}

func (t *CachingTransport) lookup(req *http.Request) *cacheEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry := t.entries[cacheKey(req)]
	if entry == nil || entry.version != t.Version {
		return nil
	}
	return entry
}

// Precache fetches and caches urls up front, the way an install step
// warms the shell assets. Individual failures are logged, not fatal.
func (t *CachingTransport) Precache(urls []string) {
	for _, u := range urls {
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			logger.Log.Warnf("precache %s: %v", u, err)
			continue
		}
		resp, err := t.RoundTrip(req)
		if err != nil {
			logger.Log.Warnf("precache %s: %v", u, err)
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}

// Purge drops every entry written under a version other than the
// current one. Called after a version bump at startup.
func (t *CachingTransport) Purge() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, entry := range t.entries {
		if entry.version != t.Version {
			delete(t.entries, key)
		}
	}
}

// Size returns the number of cached entries.
func (t *CachingTransport) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func cacheKey(req *http.Request) string {
	return req.URL.Path + "?" + req.URL.RawQuery
}
