package client

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"puttpals_server/models"
)

// ErrSendInFlight means a message send was attempted while the previous
// one is still pending. The draft stays intact; the caller retries after
// the pending send resolves.
var ErrSendInFlight = errors.New("a message send is already in flight")

// ChatChannel is the view model of one match's conversation: history plus
// the messages appended live. Sends are serialized by an in-flight flag,
// and a failed send leaves the draft with the caller for retry.
type ChatChannel struct {
	API     *API
	MatchID string

	mu       sync.Mutex
	messages []models.ChatMessage
	byID     map[string]struct{}
	sending  bool
}

// NewChatChannel builds a channel for matchID.
func NewChatChannel(api *API, matchID string) *ChatChannel {
	return &ChatChannel{
		API:     api,
		MatchID: matchID,
		byID:    map[string]struct{}{},
	}
}

// LoadHistory replaces the local history with the backend's, ascending by
// timestamp. Re-invocable to reload after a reconnect.
func (c *ChatChannel) LoadHistory(ctx context.Context, limit int) error {
	messages, err := c.API.History(ctx, c.MatchID, limit)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = messages
	c.byID = make(map[string]struct{}, len(messages))
	for _, m := range messages {
		c.byID[m.ID] = struct{}{}
	}
	return nil
}

// Send posts content and appends the server record, with its assigned id
// and timestamp, rather than an optimistic local copy. Only one send may
// be in flight at a time.
func (c *ChatChannel) Send(ctx context.Context, content string) (*models.ChatMessage, error) {
	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return nil, ErrSendInFlight
	}
	c.sending = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
	}()

	msg, err := c.API.SendMessage(ctx, c.MatchID, content)
	if err != nil {
		return nil, err
	}
	c.append(*msg)
	return msg, nil
}

// Sending reports whether a send is in flight, so the input stays
// disabled until the pending message resolves.
func (c *ChatChannel) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Apply folds a realtime chat event into the conversation. Messages from
// other matches and duplicates of already-known messages are dropped.
func (c *ChatChannel) Apply(ev models.ChangeEvent) {
	if ev.Table != models.ChatMessagesTable || ev.EventType != models.EventInsert {
		return
	}
	var msg models.ChatMessage
	if err := json.Unmarshal(ev.New, &msg); err != nil || msg.MatchID != c.MatchID {
		return
	}
	c.append(msg)
}

func (c *ChatChannel) append(msg models.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, seen := c.byID[msg.ID]; seen {
		return
	}
	c.byID[msg.ID] = struct{}{}
	c.messages = append(c.messages, msg)
}

// Snapshot returns a copy of the conversation in append order.
func (c *ChatChannel) Snapshot() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}
