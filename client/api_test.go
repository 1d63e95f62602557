package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthedCallWithoutTokenFailsFast(t *testing.T) {
	api := NewAPI("http://localhost:0")

	_, err := api.ListMatches(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestRejectedTokenMapsToErrUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "invalid or expired session token",
			"code":  "invalid_token",
		})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL)
	api.SetToken("dead")
	_, err := api.ListMatches(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestValidationErrorsCarryServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid bag id"})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL)
	api.SetToken("test-token")
	_, err := api.GetBag(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "invalid bag id")
}

func TestSignInInstallsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/signin", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(Session{UserID: "u1", AccessToken: "fresh"})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL)
	session, err := api.SignIn(context.Background(), "anna@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "u1", session.UserID)
	assert.Equal(t, "fresh", api.Token())
}
