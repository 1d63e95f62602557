package routes

import (
	"github.com/gorilla/mux"

	"puttpals_server/controllers"
	"puttpals_server/services"
)

// RegisterEquipmentRoutes sets up golf bag routes under /api/bag
func RegisterEquipmentRoutes(r *mux.Router, authService *services.AuthService, equipmentService *services.EquipmentService) {
	controller := controllers.NewEquipmentController(equipmentService)

	bagRouter := r.PathPrefix("/api/bag").Subrouter()
	bagRouter.Use(RequireAuth(authService))

	bagRouter.HandleFunc("", controller.HandleGetBag).Methods("GET")
	bagRouter.HandleFunc("/clubs", controller.HandleAddClub).Methods("POST")
}
