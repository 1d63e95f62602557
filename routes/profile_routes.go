package routes

import (
	"github.com/gorilla/mux"

	"puttpals_server/controllers"
	"puttpals_server/services"
)

// RegisterProfileRoutes sets up profile and discovery routes under
// /api/profiles. All of them require an authenticated session.
func RegisterProfileRoutes(r *mux.Router, authService *services.AuthService, profileService *services.ProfileService, discoveryService *services.DiscoveryService) {
	profileController := controllers.NewProfileController(profileService)
	discoveryController := controllers.NewDiscoveryController(discoveryService)

	profileRouter := r.PathPrefix("/api/profiles").Subrouter()
	profileRouter.Use(RequireAuth(authService))

	// candidates must be registered before the {id} route
	profileRouter.HandleFunc("/candidates", discoveryController.HandleListCandidates).Methods("GET")
	profileRouter.HandleFunc("", profileController.HandleSaveProfile).Methods("POST", "PUT")
	profileRouter.HandleFunc("/{id}", profileController.HandleGetProfile).Methods("GET")
}
