package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puttpals_server/models"
)

// sessionBackend is a scripted auth backend for session-store tests.
type sessionBackend struct {
	mu       sync.Mutex
	mode     string // "ok", "unauthorized", "down"
	sessions int
}

func (b *sessionBackend) setMode(mode string) {
	b.mu.Lock()
	b.mode = mode
	b.mu.Unlock()
}

func (b *sessionBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/session", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		mode := b.mode
		b.sessions++
		b.mu.Unlock()
		switch mode {
		case "unauthorized":
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid or expired session token", "code": "invalid_token"})
		case "down":
			w.WriteHeader(http.StatusBadGateway)
		default:
			json.NewEncoder(w).Encode(map[string]string{"userId": "u1"})
		}
	})
	mux.HandleFunc("/api/auth/signin", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Session{UserID: "u1", Email: "anna@example.com", AccessToken: "fresh-token"})
	})
	mux.HandleFunc("/api/auth/signout", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "signed out"})
	})
	mux.HandleFunc("/api/profiles/u1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Profile{ID: "u1", Name: "Anna", Handicap: 12})
	})
	return mux
}

func newTestSession(t *testing.T, backend *sessionBackend) (*SessionStore, *MemoryTokenStore) {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	tokens := &MemoryTokenStore{}
	store := NewSessionStore(NewAPI(srv.URL), tokens)
	return store, tokens
}

func TestStartWithoutTokenIsReadySignedOut(t *testing.T) {
	store, _ := newTestSession(t, &sessionBackend{})

	store.Start(context.Background())
	defer store.Stop()

	assert.Equal(t, StateReady, store.State())
	assert.Empty(t, store.UserID())
	assert.Nil(t, store.Profile())
}

func TestStartRestoresPersistedSession(t *testing.T) {
	store, tokens := newTestSession(t, &sessionBackend{})
	require.NoError(t, tokens.Save("persisted-token"))

	store.Start(context.Background())
	defer store.Stop()

	assert.Equal(t, StateReady, store.State())
	assert.Equal(t, "u1", store.UserID())
	require.NotNil(t, store.Profile())
	assert.Equal(t, "Anna", store.Profile().Name)
}

func TestStartClearsRejectedToken(t *testing.T) {
	store, tokens := newTestSession(t, &sessionBackend{mode: "unauthorized"})
	require.NoError(t, tokens.Save("dead-token"))

	store.Start(context.Background())
	defer store.Stop()

	// The dead token is cleared for good; the store settles signed out.
	assert.Equal(t, StateReady, store.State())
	assert.Empty(t, store.UserID())
	assert.Empty(t, store.API.Token())
	persisted, err := tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestStartAbandonsAfterBackoff(t *testing.T) {
	store, tokens := newTestSession(t, &sessionBackend{mode: "down"})
	require.NoError(t, tokens.Save("some-token"))

	var delays []time.Duration
	store.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	store.Start(context.Background())
	defer store.Stop()

	assert.Equal(t, StateFailed, store.State())
	assert.Error(t, store.Err())
	// Doubling from the base, one delay per recovery attempt.
	assert.Equal(t, []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
	}, delays)
}

func TestStartRecoversWhenBackendReturns(t *testing.T) {
	backend := &sessionBackend{mode: "down"}
	store, tokens := newTestSession(t, backend)
	require.NoError(t, tokens.Save("some-token"))

	attempts := 0
	store.sleep = func(_ context.Context, d time.Duration) error {
		attempts++
		if attempts == 3 {
			backend.setMode("ok")
		}
		return nil
	}

	store.Start(context.Background())
	defer store.Stop()

	assert.Equal(t, StateReady, store.State())
	assert.Equal(t, "u1", store.UserID())
}

func TestSignInPersistsTokenAndLoadsProfile(t *testing.T) {
	store, tokens := newTestSession(t, &sessionBackend{})

	require.NoError(t, store.SignIn(context.Background(), "anna@example.com", "password123"))

	assert.Equal(t, StateReady, store.State())
	assert.Equal(t, "u1", store.UserID())
	require.NotNil(t, store.Profile())
	persisted, err := tokens.Load()
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", persisted)
}

func TestSignOutClearsAllLocalState(t *testing.T) {
	store, tokens := newTestSession(t, &sessionBackend{})
	require.NoError(t, store.SignIn(context.Background(), "anna@example.com", "password123"))

	require.NoError(t, store.SignOut(context.Background()))

	assert.Equal(t, StateReady, store.State())
	assert.Empty(t, store.UserID())
	assert.Nil(t, store.Profile())
	assert.Empty(t, store.API.Token())
	persisted, err := tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestSubscribersSeeStateChanges(t *testing.T) {
	store, _ := newTestSession(t, &sessionBackend{})

	var mu sync.Mutex
	var seen []SessionState
	unsubscribe := store.Subscribe(func(s SessionState) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})
	defer unsubscribe()

	store.Start(context.Background())
	defer store.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []SessionState{StateLoading, StateReady}, seen)
}

func TestFileTokenStoreRoundTrip(t *testing.T) {
	store := &FileTokenStore{Path: t.TempDir() + "/session/token"}

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("abc123"))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	require.NoError(t, store.Clear())
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	// Clearing an absent token stays a no-op.
	assert.NoError(t, store.Clear())
}
