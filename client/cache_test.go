package client

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRT serves canned bodies per path and can be taken offline.
type scriptedRT struct {
	mu      sync.Mutex
	bodies  map[string]string
	offline bool
	calls   int
}

func (rt *scriptedRT) set(path, body string) {
	rt.mu.Lock()
	if rt.bodies == nil {
		rt.bodies = map[string]string{}
	}
	rt.bodies[path] = body
	rt.mu.Unlock()
}

func (rt *scriptedRT) setOffline(offline bool) {
	rt.mu.Lock()
	rt.offline = offline
	rt.mu.Unlock()
}

func (rt *scriptedRT) callCount() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.calls
}

func (rt *scriptedRT) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.calls++
	if rt.offline {
		return nil, errors.New("network unreachable")
	}
	body, ok := rt.bodies[req.URL.Path]
	if !ok {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader("")),
			Request:    req,
		}, nil
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

func get(t *testing.T, transport *CachingTransport, url string) (string, error) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := transport.RoundTrip(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body), nil
}

func TestNetworkFirstFallsBackToCacheWhenOffline(t *testing.T) {
	rt := &scriptedRT{}
	rt.set("/api/matches", `[{"id":"m1"}]`)
	transport := NewCachingTransport(rt)

	body, err := get(t, transport, "http://app/api/matches")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"m1"}]`, body)

	rt.setOffline(true)
	body, err = get(t, transport, "http://app/api/matches")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"m1"}]`, body)
}

func TestNetworkFirstPrefersFreshResponses(t *testing.T) {
	rt := &scriptedRT{}
	rt.set("/api/matches", `[{"id":"m1"}]`)
	transport := NewCachingTransport(rt)

	_, err := get(t, transport, "http://app/api/matches")
	require.NoError(t, err)

	rt.set("/api/matches", `[{"id":"m1"},{"id":"m2"}]`)
	body, err := get(t, transport, "http://app/api/matches")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"m1"},{"id":"m2"}]`, body)
}

func TestNetworkFirstErrorsWithoutCache(t *testing.T) {
	rt := &scriptedRT{offline: true}
	transport := NewCachingTransport(rt)

	_, err := get(t, transport, "http://app/api/matches")
	assert.Error(t, err)
}

func TestAssetsServeStaleAndRevalidate(t *testing.T) {
	rt := &scriptedRT{}
	rt.set("/assets/app.js", "v1")
	transport := NewCachingTransport(rt)

	// Cold cache: fetched from the network.
	body, err := get(t, transport, "http://app/assets/app.js")
	require.NoError(t, err)
	assert.Equal(t, "v1", body)

	// Warm cache: the stale copy is served immediately even though the
	// network already has v2; the refresh happens off the request path.
	rt.set("/assets/app.js", "v2")
	body, err = get(t, transport, "http://app/assets/app.js")
	require.NoError(t, err)
	assert.Equal(t, "v1", body)

	assert.Eventually(t, func() bool {
		body, err := get(t, transport, "http://app/assets/app.js")
		return err == nil && body == "v2"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNonGETBypassesCache(t *testing.T) {
	rt := &scriptedRT{}
	rt.set("/api/matches/like", `{"id":"m1"}`)
	transport := NewCachingTransport(rt)

	req, err := http.NewRequest(http.MethodPost, "http://app/api/matches/like", nil)
	require.NoError(t, err)
	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 1, rt.callCount())
	assert.Zero(t, transport.Size())
}

func TestPrecacheWarmsAssets(t *testing.T) {
	rt := &scriptedRT{}
	rt.set("/assets/app.js", "app")
	rt.set("/icons/icon-192.png", "icon")
	transport := NewCachingTransport(rt)

	transport.Precache([]string{
		"http://app/assets/app.js",
		"http://app/icons/icon-192.png",
	})
	assert.Equal(t, 2, transport.Size())

	// Precached assets survive going offline.
	rt.setOffline(true)
	body, err := get(t, transport, "http://app/assets/app.js")
	require.NoError(t, err)
	assert.Equal(t, "app", body)
}

func TestPurgeDropsStaleVersions(t *testing.T) {
	rt := &scriptedRT{}
	rt.set("/assets/app.js", "v1")
	transport := NewCachingTransport(rt)

	_, err := get(t, transport, "http://app/assets/app.js")
	require.NoError(t, err)
	require.Equal(t, 1, transport.Size())

	// A deploy bumps the version; old entries are gone after the purge
	// and invisible to lookups even before it.
	transport.Version = "puttpals-v2"
	transport.Purge()
	assert.Zero(t, transport.Size())

	rt.setOffline(true)
	_, err = get(t, transport, "http://app/assets/app.js")
	assert.Error(t, err)
}
