package client

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"puttpals_server/logger"
	"puttpals_server/models"
)

// MatchReconciler keeps the local match list consistent while realtime
// change events and HTTP refetches race each other. Everything is keyed
// by match id: an insert for a known id is a no-op, an update for an
// unknown id is an insert, so events may arrive duplicated or out of
// order without corrupting the list.
type MatchReconciler struct {
	API *API

	mu      sync.Mutex
	matches map[string]models.Match

	// generation invalidates refetches that were superseded by a newer
	// one before their response landed.
	generation int
}

// NewMatchReconciler builds an empty reconciler over api.
func NewMatchReconciler(api *API) *MatchReconciler {
	return &MatchReconciler{
		API:     api,
		matches: map[string]models.Match{},
	}
}

// Apply folds one realtime change event into the list.
func (r *MatchReconciler) Apply(ev models.ChangeEvent) {
	if ev.Table != models.MatchesTable {
		return
	}

	switch ev.EventType {
	case models.EventInsert, models.EventUpdate:
		var match models.Match
		if err := json.Unmarshal(ev.New, &match); err != nil {
			logger.Log.Warnf("undecodable %s event for %s: %v", ev.EventType, ev.Table, err)
			return
		}
		if match.ID == "" {
			return
		}
		r.mu.Lock()
		_, known := r.matches[match.ID]
		// An INSERT for a known id is a replay; applying it could roll
		// back a newer UPDATE that overtook it on the feed.
		if ev.EventType == models.EventUpdate || !known {
			r.matches[match.ID] = match
		}
		r.mu.Unlock()
	case models.EventDelete:
		var match models.Match
		if err := json.Unmarshal(ev.Old, &match); err != nil || match.ID == "" {
			return
		}
		r.mu.Lock()
		delete(r.matches, match.ID)
		r.mu.Unlock()
	}
}

// Upsert merges one match record, typically the response of a like call.
func (r *MatchReconciler) Upsert(match models.Match) {
	if match.ID == "" {
		return
	}
	r.mu.Lock()
	r.matches[match.ID] = match
	r.mu.Unlock()
}

// Refetch replaces the list with the backend's current view. A refetch
// that was superseded by a newer one while in flight is discarded.
func (r *MatchReconciler) Refetch(ctx context.Context) error {
	r.mu.Lock()
	r.generation++
	gen := r.generation
	r.mu.Unlock()

	matches, err := r.API.ListMatches(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation {
		return nil
	}
	r.matches = make(map[string]models.Match, len(matches))
	for _, m := range matches {
		r.matches[m.ID] = m
	}
	return nil
}

// Like records a like through the API and folds the resulting match in.
// A repeat like on an already-matched candidate lands on the same record.
func (r *MatchReconciler) Like(ctx context.Context, candidateID string) (*models.Match, bool, error) {
	match, created, err := r.API.Like(ctx, candidateID)
	if err != nil {
		return nil, false, err
	}
	r.Upsert(*match)
	return match, created, nil
}

// Snapshot returns a copy of the list, newest first.
func (r *MatchReconciler) Snapshot() []models.Match {
	r.mu.Lock()
	out := make([]models.Match, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, m)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp > out[j].Timestamp
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of known matches.
func (r *MatchReconciler) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.matches)
}
