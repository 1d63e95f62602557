package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"puttpals_server/controllers"
	"puttpals_server/services"
)

// RequireAuth validates the bearer session on every request and stores the
// authenticated user id on the context.
func RequireAuth(auth *services.AuthService) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := controllers.BearerToken(r)
			if token == "" {
				http.Error(w, `{"error": "missing bearer token"}`, http.StatusUnauthorized)
				return
			}

			userID, err := auth.ValidateSession(r.Context(), token)
			if err != nil {
				http.Error(w, `{"error": "invalid or expired session token", "code": "invalid_token"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(controllers.WithUserID(r.Context(), userID)))
		})
	}
}
