package models

// Match is the directionally stored record of a mutual-like relationship.
// golferId/matchedWithId are asymmetric in storage but the relationship is
// symmetric: either ordering identifies the same pair.
type Match struct {
	ID            string `dynamodbav:"id" json:"id"`
	GolferID      string `dynamodbav:"golfer_id" json:"golferId"`
	MatchedWithID string `dynamodbav:"matched_with_id" json:"matchedWithId"`
	Status        string `dynamodbav:"status" json:"status"`
	Timestamp     string `dynamodbav:"timestamp" json:"timestamp"`
	Read          bool   `dynamodbav:"read" json:"read"`
	LastMessage   string `dynamodbav:"last_message" json:"lastMessage"`
}

// HasParticipant reports whether userID is on either side of the pair.
func (m *Match) HasParticipant(userID string) bool {
	return m.GolferID == userID || m.MatchedWithID == userID
}

// OtherParticipant returns the id on the other side of the pair.
func (m *Match) OtherParticipant(userID string) string {
	if m.GolferID == userID {
		return m.MatchedWithID
	}
	return m.GolferID
}

// SamePair reports whether the record covers the unordered pair {a, b}.
func (m *Match) SamePair(a, b string) bool {
	return (m.GolferID == a && m.MatchedWithID == b) ||
		(m.GolferID == b && m.MatchedWithID == a)
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "matches"
