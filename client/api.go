// Package client implements the application-side core of PuttPals: the
// session store, the swipe interaction surface, the match reconciler,
// the offline cache and the push relay, on top of a thin HTTP API client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"puttpals_server/models"
)

// DefaultTimeout caps every API call so a dead backend surfaces as an
// error instead of a hang.
const DefaultTimeout = 30 * time.Second

var (
	// ErrUnauthorized means the session token was rejected. The caller
	// must treat the cached token as dead.
	ErrUnauthorized = errors.New("session token rejected")
	// ErrNoToken means an authenticated call was attempted without a
	// signed-in session.
	ErrNoToken = errors.New("no session token")
)

// APIError is a non-401 failure response from the backend, carrying the
// user-facing message the server produced.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Session mirrors the backend's session response.
type Session struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	AccessToken string `json:"accessToken"`
	ExpiresAt   string `json:"expiresAt"`
}

// API is the HTTP client for the PuttPals backend. All methods are safe
// for concurrent use; the token is guarded because the session store
// swaps it on sign-in/out while other calls are in flight.
type API struct {
	BaseURL string
	HTTP    *http.Client

	mu    sync.RWMutex
	token string
}

// NewAPI builds a client for baseURL with the default timeout.
func NewAPI(baseURL string) *API {
	return &API{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: DefaultTimeout},
	}
}

// SetToken installs the bearer token used for authenticated calls.
func (a *API) SetToken(token string) {
	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
}

// Token returns the current bearer token, empty when signed out.
func (a *API) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// SignUp registers an account and installs the returned token.
func (a *API) SignUp(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := a.do(ctx, http.MethodPost, "/api/auth/signup", map[string]string{
		"email": email, "password": password,
	}, &session, false)
	if err != nil {
		return nil, err
	}
	a.SetToken(session.AccessToken)
	return &session, nil
}

// SignIn exchanges credentials for a session and installs its token.
func (a *API) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := a.do(ctx, http.MethodPost, "/api/auth/signin", map[string]string{
		"email": email, "password": password,
	}, &session, false)
	if err != nil {
		return nil, err
	}
	a.SetToken(session.AccessToken)
	return &session, nil
}

// SignOut revokes the session server-side and drops the local token. The
// local token is dropped even when the revoke call fails.
func (a *API) SignOut(ctx context.Context) error {
	err := a.do(ctx, http.MethodPost, "/api/auth/signout", nil, nil, true)
	a.SetToken("")
	return err
}

// SessionUserID validates the installed token and returns the user id it
// carries. ErrUnauthorized means the token is dead.
func (a *API) SessionUserID(ctx context.Context) (string, error) {
	var out struct {
		UserID string `json:"userId"`
	}
	if err := a.do(ctx, http.MethodGet, "/api/auth/session", nil, &out, true); err != nil {
		return "", err
	}
	return out.UserID, nil
}

// GetProfile fetches a golfer profile by id.
func (a *API) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := a.do(ctx, http.MethodGet, "/api/profiles/"+url.PathEscape(userID), nil, &profile, true); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveProfile creates or updates the caller's profile.
func (a *API) SaveProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	var saved models.Profile
	if err := a.do(ctx, http.MethodPost, "/api/profiles", profile, &saved, true); err != nil {
		return nil, err
	}
	return &saved, nil
}

// CandidateFilter narrows a browse pass. Zero values disable a dimension.
type CandidateFilter struct {
	HandicapTolerance float64
	AgeMin            int
	AgeMax            int
	RoundTypes        []string
}

// ListCandidates fetches a shuffled, filtered batch of browsable profiles.
func (a *API) ListCandidates(ctx context.Context, filter CandidateFilter) ([]models.Profile, error) {
	q := url.Values{}
	if filter.HandicapTolerance > 0 {
		q.Set("hcpTolerance", strconv.FormatFloat(filter.HandicapTolerance, 'f', -1, 64))
	}
	if filter.AgeMin > 0 {
		q.Set("ageMin", strconv.Itoa(filter.AgeMin))
	}
	if filter.AgeMax > 0 {
		q.Set("ageMax", strconv.Itoa(filter.AgeMax))
	}
	if len(filter.RoundTypes) > 0 {
		q.Set("roundTypes", strings.Join(filter.RoundTypes, ","))
	}
	path := "/api/profiles/candidates"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var candidates []models.Profile
	if err := a.do(ctx, http.MethodGet, path, nil, &candidates, true); err != nil {
		return nil, err
	}
	return candidates, nil
}

// ListMatches fetches the caller's matches, newest first.
func (a *API) ListMatches(ctx context.Context) ([]models.Match, error) {
	var matches []models.Match
	if err := a.do(ctx, http.MethodGet, "/api/matches", nil, &matches, true); err != nil {
		return nil, err
	}
	return matches, nil
}

// ListMatchesWithProfiles fetches the caller's matches with the other
// participant's profile attached, for rendering match-list cards.
func (a *API) ListMatchesWithProfiles(ctx context.Context) ([]models.MatchWithProfile, error) {
	var matches []models.MatchWithProfile
	if err := a.do(ctx, http.MethodGet, "/api/matches?expand=profile", nil, &matches, true); err != nil {
		return nil, err
	}
	return matches, nil
}

// Like records a like on candidateID. The returned match is the existing
// record when the pair was already matched; created reports which case.
func (a *API) Like(ctx context.Context, candidateID string) (*models.Match, bool, error) {
	req, err := a.newRequest(ctx, http.MethodPost, "/api/matches/like", map[string]string{
		"candidateId": candidateID,
	}, true)
	if err != nil {
		return nil, false, err
	}
	resp, err := a.HTTP.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, false, decodeError(resp)
	}
	var match models.Match
	if err := json.NewDecoder(resp.Body).Decode(&match); err != nil {
		return nil, false, err
	}
	return &match, resp.StatusCode == http.StatusCreated, nil
}

// History fetches a match's messages ascending by timestamp.
func (a *API) History(ctx context.Context, matchID string, limit int) ([]models.ChatMessage, error) {
	q := url.Values{"matchId": {matchID}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var messages []models.ChatMessage
	if err := a.do(ctx, http.MethodGet, "/api/chat/messages?"+q.Encode(), nil, &messages, true); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage posts a message and returns the server record, with its
// assigned id and timestamp, for the caller to append as-is.
func (a *API) SendMessage(ctx context.Context, matchID, content string) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	err := a.do(ctx, http.MethodPost, "/api/chat/message", map[string]string{
		"matchId": matchID, "content": content,
	}, &msg, true)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetBag fetches the caller's golf bag with its clubs. The first call may
// be slower while the backend creates the bag.
func (a *API) GetBag(ctx context.Context) (*models.GolfBag, error) {
	var bag models.GolfBag
	if err := a.do(ctx, http.MethodGet, "/api/bag", nil, &bag, true); err != nil {
		return nil, err
	}
	return &bag, nil
}

// AddClub adds a club to bagID. The bag id is validated locally before
// any network traffic so a placeholder id never reaches the backend.
func (a *API) AddClub(ctx context.Context, bagID string, club models.Club) (*models.Club, error) {
	if err := ValidateBagID(bagID); err != nil {
		return nil, err
	}
	var saved models.Club
	err := a.do(ctx, http.MethodPost, "/api/bag/clubs", struct {
		BagID string      `json:"bagId"`
		Club  models.Club `json:"club"`
	}{bagID, club}, &saved, true)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (a *API) newRequest(ctx context.Context, method, path string, body any, authed bool) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token := a.Token()
		if token == "" {
			return nil, ErrNoToken
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (a *API) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	req, err := a.newRequest(ctx, method, path, body, authed)
	if err != nil {
		return err
	}
	resp, err := a.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(body, &payload)

	if resp.StatusCode == http.StatusUnauthorized && payload.Code == "invalid_token" {
		return ErrUnauthorized
	}
	msg := payload.Error
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
