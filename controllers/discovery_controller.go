package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"puttpals_server/services"
)

// DiscoveryController serves the swipe queue.
type DiscoveryController struct {
	Discovery *services.DiscoveryService
}

func NewDiscoveryController(discovery *services.DiscoveryService) *DiscoveryController {
	return &DiscoveryController{Discovery: discovery}
}

// HandleListCandidates returns one browse pass for the caller. Filter state
// comes in as query parameters; absent parameters disable that dimension.
func (c *DiscoveryController) HandleListCandidates(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	q := r.URL.Query()
	opts := services.FilterOptions{
		HandicapTolerance: parseFloat(q.Get("hcpTolerance")),
		AgeMin:            parseInt(q.Get("ageMin")),
		AgeMax:            parseInt(q.Get("ageMax")),
	}
	if rt := q.Get("roundTypes"); rt != "" {
		opts.RoundTypes = strings.Split(rt, ",")
	}

	candidates, err := c.Discovery.ListCandidates(r.Context(), userID, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, candidates)
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
