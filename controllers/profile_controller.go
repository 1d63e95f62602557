package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"puttpals_server/models"
	"puttpals_server/services"
)

// ProfileController handles profile reads and owner-only writes.
type ProfileController struct {
	Profiles *services.ProfileService
}

func NewProfileController(profiles *services.ProfileService) *ProfileController {
	return &ProfileController{Profiles: profiles}
}

// HandleGetProfile returns any profile by id; matched users can see each
// other's profiles.
func (c *ProfileController) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id is required"})
		return
	}

	profile, err := c.Profiles.GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleSaveProfile stores the caller's own profile. The body id, when
// present, must match the authenticated identity.
func (c *ProfileController) HandleSaveProfile(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if profile.ID == "" {
		profile.ID = userID
	}
	if profile.ID != userID {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "cannot edit another user's profile"})
		return
	}

	saved, err := c.Profiles.SaveProfile(r.Context(), &profile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
