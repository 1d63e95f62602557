package models

// GolfBag is a user's named collection of clubs. Exactly one bag exists per
// user; it is created lazily on first read.
type GolfBag struct {
	ID     string `dynamodbav:"id" json:"id"`
	UserID string `dynamodbav:"user_id" json:"userId"`
	Name   string `dynamodbav:"name" json:"name"`
	Clubs  []Club `dynamodbav:"-" json:"clubs"`
}

// Club belongs to exactly one bag via BagID.
type Club struct {
	ID    string   `dynamodbav:"id" json:"id"`
	BagID string   `dynamodbav:"bag_id" json:"bagId"`
	Brand string   `dynamodbav:"brand" json:"brand"`
	Model string   `dynamodbav:"model" json:"model"`
	Type  string   `dynamodbav:"type" json:"type"`
	Loft  *float64 `dynamodbav:"loft,omitempty" json:"loft,omitempty"`
	Notes string   `dynamodbav:"notes,omitempty" json:"notes,omitempty"`
}

// GolfBagsTable is the DynamoDB table name for golf bags
const GolfBagsTable = "golf_bags"

// ClubsTable is the DynamoDB table name for clubs
const ClubsTable = "clubs"
