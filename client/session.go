package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"puttpals_server/logger"
	"puttpals_server/models"
)

// SessionState is the explicit lifecycle of the session store. It replaces
// a pile of boolean flags with one enum, so every consumer renders exactly
// one of these and an infinite spinner is unrepresentable.
type SessionState int

const (
	StateUninitialized SessionState = iota
	StateLoading
	StateReady
	StateDegraded
	StateFailed
)

func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateDegraded:
		return "degraded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session/backoff tuning. A probe failure retries with a doubling delay
// from BackoffBase capped at BackoffCap; after MaxRecoveryAttempts the
// store gives up and reports Failed so the UI can offer a reconnect.
const (
	BackoffBase         = 1 * time.Second
	BackoffCap          = 30 * time.Second
	MaxRecoveryAttempts = 5

	DefaultProbeInterval = 30 * time.Second
	InitialLoadTimeout   = 10 * time.Second
)

// SessionStore owns the signed-in identity: it restores a persisted token
// at startup, keeps the session alive with periodic probes, and broadcasts
// every state change to subscribers. Ready with a nil user means "nobody
// signed in", which is a normal resting state, not an error.
type SessionStore struct {
	API    *API
	Tokens TokenStore

	// ProbeInterval overrides the probe cadence; zero means the default.
	ProbeInterval time.Duration

	mu      sync.Mutex
	state   SessionState
	userID  string
	profile *models.Profile
	lastErr error
	subs    map[int]func(SessionState)
	nextSub int
	cancel  context.CancelFunc
	done    chan struct{}

	// sleep is swapped in tests to avoid real backoff delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewSessionStore wires a store over api and tokens.
func NewSessionStore(api *API, tokens TokenStore) *SessionStore {
	return &SessionStore{
		API:    api,
		Tokens: tokens,
		state:  StateUninitialized,
		subs:   map[int]func(SessionState){},
		sleep:  sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// State returns the current lifecycle state.
func (s *SessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// UserID returns the signed-in user id, "" when nobody is signed in.
func (s *SessionStore) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// Profile returns the signed-in user's profile, nil when absent.
func (s *SessionStore) Profile() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Err returns the error behind a Degraded or Failed state.
func (s *SessionStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Subscribe registers fn for state changes and returns an unsubscribe
// func. Subscriptions live until removed or the store stops.
func (s *SessionStore) Subscribe(fn func(SessionState)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *SessionStore) setState(state SessionState, err error) {
	s.mu.Lock()
	changed := s.state != state
	s.state = state
	s.lastErr = err
	var fns []func(SessionState)
	if changed {
		for _, fn := range s.subs {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(state)
	}
}

// Start restores any persisted session and begins the probe loop. The
// initial load is capped at InitialLoadTimeout; a dead backend lands in
// Failed rather than leaving the caller in Loading forever.
func (s *SessionStore) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.setState(StateLoading, nil)

	loadCtx, loadCancel := context.WithTimeout(ctx, InitialLoadTimeout)
	s.restore(loadCtx)
	loadCancel()

	go s.probeLoop(ctx)
}

// Stop cancels the probe loop and waits for it to exit.
func (s *SessionStore) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// restore loads the persisted token and validates it. A rejected token is
// cleared for good, a connectivity failure goes through recovery.
func (s *SessionStore) restore(ctx context.Context) {
	token, err := s.Tokens.Load()
	if err != nil {
		logger.Log.Warnf("token store read failed: %v", err)
		token = ""
	}
	if token == "" {
		s.setState(StateReady, nil)
		return
	}

	s.API.SetToken(token)
	userID, err := s.API.SessionUserID(ctx)
	if errors.Is(err, ErrUnauthorized) {
		// The persisted token is dead; keep it would wedge every later
		// startup, so clear it and come up signed out.
		logger.Log.Infof("persisted session rejected, clearing token")
		s.clearLocal()
		s.setState(StateReady, nil)
		return
	}
	if err != nil {
		if !s.recover(ctx) {
			return
		}
		userID, err = s.API.SessionUserID(ctx)
		if err != nil {
			s.setState(StateFailed, err)
			return
		}
	}

	s.mu.Lock()
	s.userID = userID
	s.mu.Unlock()
	if err := s.RefreshProfile(ctx); err != nil {
		logger.Log.Warnf("profile load failed for %s: %v", userID, err)
	}
	s.setState(StateReady, nil)
}

// recover retries connectivity with exponential backoff. Returns false
// when the attempts are exhausted or the context is cancelled, in which
// case the store is already Failed.
func (s *SessionStore) recover(ctx context.Context) bool {
	delay := BackoffBase
	var lastErr error
	for attempt := 1; attempt <= MaxRecoveryAttempts; attempt++ {
		s.setState(StateDegraded, lastErr)
		if err := s.sleep(ctx, delay); err != nil {
			if errors.Is(err, context.Canceled) {
				return false
			}
			s.setState(StateFailed, err)
			return false
		}

		_, err := s.API.SessionUserID(ctx)
		if err == nil || errors.Is(err, ErrUnauthorized) {
			return true
		}
		lastErr = err
		logger.Log.Warnf("session probe attempt %d failed: %v", attempt, err)

		delay *= 2
		if delay > BackoffCap {
			delay = BackoffCap
		}
	}
	s.setState(StateFailed, lastErr)
	return false
}

// probeLoop checks session health on an interval. One failed probe drops
// to Degraded and enters recovery; a token rejection signs the user out
// locally instead of retrying a dead credential.
func (s *SessionStore) probeLoop(ctx context.Context) {
	defer close(s.done)

	interval := s.ProbeInterval
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if s.UserID() == "" {
			continue
		}
		_, err := s.API.SessionUserID(ctx)
		if err == nil {
			s.setState(StateReady, nil)
			continue
		}
		if errors.Is(err, ErrUnauthorized) {
			logger.Log.Infof("session expired, clearing token")
			s.clearLocal()
			s.setState(StateReady, nil)
			continue
		}
		if !s.recover(ctx) {
			return
		}
		s.setState(StateReady, nil)
	}
}

// SignIn authenticates, persists the token and loads the profile.
func (s *SessionStore) SignIn(ctx context.Context, email, password string) error {
	session, err := s.API.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	return s.adopt(ctx, session)
}

// SignUp registers an account and signs it in. The backend seeds the
// default profile; the completion step overwrites it later.
func (s *SessionStore) SignUp(ctx context.Context, email, password string) error {
	session, err := s.API.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	return s.adopt(ctx, session)
}

func (s *SessionStore) adopt(ctx context.Context, session *Session) error {
	if err := s.Tokens.Save(session.AccessToken); err != nil {
		logger.Log.Warnf("token persist failed: %v", err)
	}
	s.mu.Lock()
	s.userID = session.UserID
	s.profile = nil
	s.mu.Unlock()
	if err := s.RefreshProfile(ctx); err != nil {
		logger.Log.Warnf("profile load failed for %s: %v", session.UserID, err)
	}
	s.setState(StateReady, nil)
	return nil
}

// SignOut revokes the session and drops all local identity. Local state
// is cleared even when the revoke call fails.
func (s *SessionStore) SignOut(ctx context.Context) error {
	err := s.API.SignOut(ctx)
	s.clearLocal()
	s.setState(StateReady, nil)
	return err
}

func (s *SessionStore) clearLocal() {
	s.API.SetToken("")
	if err := s.Tokens.Clear(); err != nil {
		logger.Log.Warnf("token clear failed: %v", err)
	}
	s.mu.Lock()
	s.userID = ""
	s.profile = nil
	s.mu.Unlock()
}

// RefreshProfile reloads the signed-in user's profile from the backend.
func (s *SessionStore) RefreshProfile(ctx context.Context) error {
	userID := s.UserID()
	if userID == "" {
		return errors.New("not signed in")
	}
	profile, err := s.API.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()
	return nil
}
