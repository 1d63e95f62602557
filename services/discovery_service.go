package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"puttpals_server/logger"
	"puttpals_server/models"
)

// FilterOptions is the client-chosen filter state applied to fetched
// candidates. Zero values disable the corresponding dimension.
type FilterOptions struct {
	HandicapTolerance float64
	AgeMin            int
	AgeMax            int
	RoundTypes        []string
}

// DiscoveryService produces the swipe queue: every profile except the
// caller's, shuffled, de-duplicated and filtered in memory after the fetch.
type DiscoveryService struct {
	Dynamo   DB
	Profiles *ProfileService

	// Rand is the shuffle source; nil means the global source. Tests pin it.
	Rand *rand.Rand
}

// ListCandidates fetches candidates for one browse pass. The fetch is
// finite and non-restartable; callers re-invoke to refresh. When storage
// holds no candidate rows the built-in seed set is served instead, so a
// fresh deployment is browsable (demo behavior, see DESIGN.md).
func (ds *DiscoveryService) ListCandidates(ctx context.Context, selfID string, opts FilterOptions) ([]models.Profile, error) {
	var candidates []models.Profile
	err := ds.Dynamo.ScanWithFilter(ctx, models.ProfilesTable, nil, map[string]string{"id": selfID}, &candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}

	if len(candidates) == 0 {
		logger.Log.Infof("no candidate rows for %s, serving seed profiles", selfID)
		candidates = append(candidates, models.SeedProfiles...)
	}

	candidates = dedupeByID(candidates, selfID)
	ds.shuffle(candidates)

	self, err := ds.Profiles.GetProfile(ctx, selfID)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	filtered := candidates[:0]
	for _, c := range candidates {
		if passesFilter(c, self, opts) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// passesFilter applies the handicap-delta, age-range and round-type
// dimensions. Distance is a declared dimension with no geolocation behind
// it, so every candidate passes it unconditionally.
func passesFilter(c models.Profile, self *models.Profile, opts FilterOptions) bool {
	if opts.HandicapTolerance > 0 && self != nil {
		if math.Abs(c.Handicap-self.Handicap) > opts.HandicapTolerance {
			return false
		}
	}
	if opts.AgeMin > 0 && c.Age < opts.AgeMin {
		return false
	}
	if opts.AgeMax > 0 && c.Age > opts.AgeMax {
		return false
	}
	if len(opts.RoundTypes) > 0 && !intersects(c.RoundTypes, opts.RoundTypes) {
		return false
	}
	return true
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func dedupeByID(profiles []models.Profile, selfID string) []models.Profile {
	seen := make(map[string]struct{}, len(profiles))
	out := profiles[:0]
	for _, p := range profiles {
		if p.ID == selfID {
			continue
		}
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// shuffle applies a uniform random permutation so the queue carries no
// deterministic ordering bias.
func (ds *DiscoveryService) shuffle(profiles []models.Profile) {
	swap := func(i, j int) { profiles[i], profiles[j] = profiles[j], profiles[i] }
	if ds.Rand != nil {
		ds.Rand.Shuffle(len(profiles), swap)
		return
	}
	rand.Shuffle(len(profiles), swap)
}
