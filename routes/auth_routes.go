package routes

import (
	"github.com/gorilla/mux"

	"puttpals_server/controllers"
	"puttpals_server/services"
)

// RegisterAuthRoutes sets up routes for session management under /api/auth
func RegisterAuthRoutes(r *mux.Router, authService *services.AuthService) {
	controller := controllers.NewAuthController(authService)

	authRouter := r.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/signup", controller.HandleSignUp).Methods("POST")
	authRouter.HandleFunc("/signin", controller.HandleSignIn).Methods("POST")
	authRouter.HandleFunc("/signout", controller.HandleSignOut).Methods("POST")
	authRouter.HandleFunc("/session", controller.HandleSession).Methods("GET")
}
