package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/google/uuid"

	"puttpals_server/logger"
	"puttpals_server/models"
)

var (
	ErrEmptyMessage   = errors.New("message content cannot be empty")
	ErrNotParticipant = errors.New("sender is not part of this match")
)

const chatMatchIndex = "match_id-index"

// ChatService loads and appends messages for a match. Timestamps are
// assigned here, never by the client, so history order is authoritative.
type ChatService struct {
	Dynamo    DB
	Matches   *MatchService
	Publisher ChangePublisher
	Push      PushSender
}

// History returns the messages of a match ordered by creation time
// ascending, truncated to the most recent limit entries. Re-invocable to
// reload. Only participants may read a conversation.
func (cs *ChatService) History(ctx context.Context, matchID, requesterID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	match, err := cs.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasParticipant(requesterID) {
		return nil, ErrNotParticipant
	}

	// Fetch everything and truncate after sorting; a storage-side limit
	// would cut an arbitrary subset, not the oldest messages.
	items, err := cs.Dynamo.QueryByField(ctx, models.ChatMessagesTable, chatMatchIndex, "match_id", matchID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.ChatMessage
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt < messages[j].CreatedAt
	})
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

// Send stores a message with a server-assigned id and timestamp, refreshes
// the match preview, and returns the stored record so clients can append it
// without a reconciliation step.
func (cs *ChatService) Send(ctx context.Context, matchID, senderID, content string) (*models.ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}

	match, err := cs.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasParticipant(senderID) {
		return nil, ErrNotParticipant
	}

	msg := &models.ChatMessage{
		ID:        uuid.NewString(),
		MatchID:   matchID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
		Read:      false,
	}
	if err := cs.Dynamo.PutItem(ctx, models.ChatMessagesTable, msg); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	if _, err := cs.Matches.UpdatePreview(ctx, matchID, content, msg.CreatedAt); err != nil {
		// The message is stored; a stale preview is not worth failing the send.
		logger.Log.Warnf("failed to refresh preview for match %s: %v", matchID, err)
	}

	if cs.Publisher != nil {
		ev, err := models.NewChangeEvent(models.EventInsert, models.ChatMessagesTable, msg, nil)
		if err == nil {
			cs.Publisher.PublishToMatch(matchID, ev)
		}
	}
	if cs.Push != nil {
		recipient := match.OtherParticipant(senderID)
		payload := models.PushPayload{
			Title: "Nytt meddelande",
			Body:  content,
			URL:   "/matches",
		}
		if err := cs.Push.Notify(ctx, recipient, payload); err != nil {
			logger.Log.Warnf("push notify failed for %s: %v", recipient, err)
		}
	}

	return msg, nil
}
