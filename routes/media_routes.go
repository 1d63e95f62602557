package routes

import (
	"github.com/gorilla/mux"

	"puttpals_server/controllers"
	"puttpals_server/services"
)

// RegisterMediaRoutes sets up presigned-URL routes under /api/media
func RegisterMediaRoutes(r *mux.Router, authService *services.AuthService, mediaService *services.MediaService) {
	controller := controllers.NewMediaController(mediaService)

	mediaRouter := r.PathPrefix("/api/media").Subrouter()
	mediaRouter.Use(RequireAuth(authService))

	mediaRouter.HandleFunc("/upload-url", controller.HandleUploadURL).Methods("GET")
	mediaRouter.HandleFunc("/read-url", controller.HandleReadURL).Methods("GET")
}
