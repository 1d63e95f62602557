package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"puttpals_server/controllers"
	"puttpals_server/push"
	"puttpals_server/services"
)

// RegisterPushRoutes exposes the push-notification websocket under
// /api/push/ws. The session token rides in the query string because
// browser websockets cannot set headers.
func RegisterPushRoutes(r *mux.Router, authService *services.AuthService, hub *push.Hub) {
	r.HandleFunc("/api/push/ws", func(w http.ResponseWriter, req *http.Request) {
		token := controllers.BearerToken(req)
		if token == "" {
			token = req.URL.Query().Get("token")
		}

		userID, err := authService.ValidateSession(req.Context(), token)
		if err != nil {
			http.Error(w, `{"error": "invalid or expired session token"}`, http.StatusUnauthorized)
			return
		}
		hub.ServeWS(w, req, userID)
	}).Methods("GET")
}
