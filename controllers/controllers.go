package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"puttpals_server/logger"
	"puttpals_server/services"
)

type contextKey string

const userIDKey contextKey = "userID"

// WithUserID stores the authenticated user id on the request context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id, or "" when the
// request never passed the auth middleware.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Warnf("failed to encode response: %v", err)
	}
}

// writeError maps service errors to HTTP statuses and a uniform
// {"error": ...} body. Unknown errors become an opaque 500; the detail
// stays in the log, not the response.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error(), "code": "invalid_token"})
	case errors.Is(err, services.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, services.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrInvalidProfile),
		errors.Is(err, services.ErrInvalidBagID),
		errors.Is(err, services.ErrInvalidClub),
		errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrSelfLike):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrBagNotFound),
		errors.Is(err, services.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, services.ErrNotParticipant),
		errors.Is(err, services.ErrNotBagOwner):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	default:
		logger.Log.Errorf("request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
