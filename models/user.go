package models

// User holds the credential record for the auth sub-service. The profile
// row is separate and shares the user id.
type User struct {
	Email        string `dynamodbav:"email" json:"email"`
	UserID       string `dynamodbav:"user_id" json:"userId"`
	PasswordHash string `dynamodbav:"password_hash" json:"-"`
	CreatedAt    string `dynamodbav:"created_at" json:"createdAt"`
}

// UsersTable is the DynamoDB table name for credential records
const UsersTable = "users"
