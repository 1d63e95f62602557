package models

// ChatMessage belongs to exactly one match. CreatedAt is server-assigned
// (RFC3339Nano) so message order within a match is the storage timestamp,
// ascending. Messages are immutable after creation.
type ChatMessage struct {
	ID        string `dynamodbav:"id" json:"id"`
	MatchID   string `dynamodbav:"match_id" json:"matchId"`
	SenderID  string `dynamodbav:"sender_id" json:"senderId"`
	Content   string `dynamodbav:"content" json:"content"`
	CreatedAt string `dynamodbav:"created_at" json:"createdAt"`
	Read      bool   `dynamodbav:"read" json:"read"`
}

// ChatMessagesTable is the DynamoDB table name for chat messages
const ChatMessagesTable = "chat_messages"
