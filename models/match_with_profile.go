package models

// MatchWithProfile pairs a match with the other participant's profile so a
// match-list card renders without one extra fetch per row.
type MatchWithProfile struct {
	Match
	Profile *Profile `json:"profile,omitempty"`
}
