package models

// Profile defines the structure for golfer profiles.
// The json tags carry the client-facing camelCase shape, the dynamodbav tags
// the snake_case storage shape, so all field-name translation lives here.
type Profile struct {
	ID              string    `dynamodbav:"id" json:"id"`
	Name            string    `dynamodbav:"name" json:"name"`
	Age             int       `dynamodbav:"age" json:"age"`
	Gender          string    `dynamodbav:"gender" json:"gender"`
	Handicap        float64   `dynamodbav:"handicap" json:"handicap"`
	HomeCourse      string    `dynamodbav:"home_course" json:"homeCourse"`
	Location        string    `dynamodbav:"location" json:"location"`
	Bio             string    `dynamodbav:"bio" json:"bio"`
	ProfileImage    string    `dynamodbav:"profile_image" json:"profileImage"`
	RoundTypes      []string  `dynamodbav:"round_types" json:"roundTypes"`
	Availability    []string  `dynamodbav:"availability" json:"availability"`
	SearchRadiusKm  int       `dynamodbav:"search_radius_km" json:"searchRadiusKm"`
	MaxHandicapDiff float64   `dynamodbav:"max_handicap_diff" json:"maxHandicapDiff"`
	PrefMinAge      int       `dynamodbav:"pref_min_age" json:"prefMinAge"`
	PrefMaxAge      int       `dynamodbav:"pref_max_age" json:"prefMaxAge"`
}

// ProfilesTable is the DynamoDB table name for golfer profiles
const ProfilesTable = "profiles"
