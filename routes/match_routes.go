package routes

import (
	"github.com/gorilla/mux"

	"puttpals_server/controllers"
	"puttpals_server/services"
)

// RegisterMatchRoutes sets up routes for matches under /api/matches
func RegisterMatchRoutes(r *mux.Router, authService *services.AuthService, matchService *services.MatchService) {
	controller := controllers.NewMatchController(matchService)

	matchRouter := r.PathPrefix("/api/matches").Subrouter()
	matchRouter.Use(RequireAuth(authService))

	matchRouter.HandleFunc("", controller.HandleListMatches).Methods("GET")
	matchRouter.HandleFunc("/like", controller.HandleLike).Methods("POST")
}
