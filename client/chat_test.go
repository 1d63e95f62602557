package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puttpals_server/models"
)

func chatBackend(t *testing.T) *API {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat/messages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.ChatMessage{
			{ID: "msg1", MatchID: "m1", SenderID: "anna", Content: "Hej!", CreatedAt: "2026-05-01T10:00:00Z"},
			{ID: "msg2", MatchID: "m1", SenderID: "bjorn", Content: "Hej själv!", CreatedAt: "2026-05-01T10:01:00Z"},
		})
	})
	mux.HandleFunc("/api/chat/message", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			MatchID string `json:"matchId"`
			Content string `json:"content"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.ChatMessage{
			ID: "msg3", MatchID: req.MatchID, SenderID: "anna",
			Content: req.Content, CreatedAt: "2026-05-01T10:02:00Z",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	api := NewAPI(srv.URL)
	api.SetToken("test-token")
	return api
}

func TestChatLoadHistory(t *testing.T) {
	ch := NewChatChannel(chatBackend(t), "m1")

	require.NoError(t, ch.LoadHistory(context.Background(), 0))
	messages := ch.Snapshot()
	require.Len(t, messages, 2)
	assert.Equal(t, "Hej!", messages[0].Content)
	assert.Equal(t, "Hej själv!", messages[1].Content)

	// Reloading does not duplicate.
	require.NoError(t, ch.LoadHistory(context.Background(), 0))
	assert.Len(t, ch.Snapshot(), 2)
}

func TestChatSendAppendsServerRecord(t *testing.T) {
	ch := NewChatChannel(chatBackend(t), "m1")
	require.NoError(t, ch.LoadHistory(context.Background(), 0))

	msg, err := ch.Send(context.Background(), "Ses i helgen?")
	require.NoError(t, err)
	assert.Equal(t, "msg3", msg.ID)
	assert.NotEmpty(t, msg.CreatedAt)

	messages := ch.Snapshot()
	require.Len(t, messages, 3)
	assert.Equal(t, "Ses i helgen?", messages[2].Content)
	assert.False(t, ch.Sending())
}

func TestChatSendSerialized(t *testing.T) {
	ch := NewChatChannel(chatBackend(t), "m1")

	// Simulate a pending send occupying the channel.
	ch.mu.Lock()
	ch.sending = true
	ch.mu.Unlock()

	_, err := ch.Send(context.Background(), "Hej!")
	assert.ErrorIs(t, err, ErrSendInFlight)

	ch.mu.Lock()
	ch.sending = false
	ch.mu.Unlock()

	_, err = ch.Send(context.Background(), "Hej!")
	assert.NoError(t, err)
}

func TestChatApplyFoldsRealtimeInserts(t *testing.T) {
	ch := NewChatChannel(chatBackend(t), "m1")

	msg := models.ChatMessage{ID: "live1", MatchID: "m1", SenderID: "bjorn", Content: "Är du med?"}
	ev, err := models.NewChangeEvent(models.EventInsert, models.ChatMessagesTable, msg, nil)
	require.NoError(t, err)

	ch.Apply(ev)
	ch.Apply(ev) // duplicate delivery
	assert.Len(t, ch.Snapshot(), 1)

	// A message for some other match is ignored.
	foreign := models.ChatMessage{ID: "live2", MatchID: "m2", SenderID: "x", Content: "fel rum"}
	ev, err = models.NewChangeEvent(models.EventInsert, models.ChatMessagesTable, foreign, nil)
	require.NoError(t, err)
	ch.Apply(ev)
	assert.Len(t, ch.Snapshot(), 1)
}
