package controllers

import (
	"encoding/json"
	"net/http"

	"puttpals_server/models"
	"puttpals_server/services"
)

// EquipmentController handles the caller's golf bag.
type EquipmentController struct {
	Equipment *services.EquipmentService
}

func NewEquipmentController(equipment *services.EquipmentService) *EquipmentController {
	return &EquipmentController{Equipment: equipment}
}

// HandleGetBag returns the caller's bag, creating it on first access.
func (c *EquipmentController) HandleGetBag(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	bag, err := c.Equipment.GetBag(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bag)
}

// HandleAddClub adds a club to one of the caller's bags. A placeholder or
// malformed bag id is rejected with a descriptive 400 before any write
// happens; someone else's bag id gets a 403.
func (c *EquipmentController) HandleAddClub(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var req struct {
		BagID string      `json:"bagId"`
		Club  models.Club `json:"club"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	club, err := c.Equipment.AddClub(r.Context(), userID, req.BagID, req.Club)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, club)
}
