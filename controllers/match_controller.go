package controllers

import (
	"encoding/json"
	"net/http"

	"puttpals_server/services"
)

// MatchController handles the match list and the like action.
type MatchController struct {
	Matches *services.MatchService
}

func NewMatchController(matches *services.MatchService) *MatchController {
	return &MatchController{Matches: matches}
}

// HandleListMatches returns every match the caller participates in.
// ?expand=profile attaches the other participant's profile to each row.
func (c *MatchController) HandleListMatches(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	if r.URL.Query().Get("expand") == "profile" {
		matches, err := c.Matches.ListMatchesWithProfiles(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
		return
	}

	matches, err := c.Matches.ListMatches(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// HandleLike records a like on a candidate. A repeat like surfaces the
// existing match with a 200 instead of erroring or duplicating; a fresh
// match is a 201.
func (c *MatchController) HandleLike(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var req struct {
		CandidateID string `json:"candidateId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.CandidateID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "candidateId is required"})
		return
	}

	match, created, err := c.Matches.Like(r.Context(), userID, req.CandidateID)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, match)
}
