package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"puttpals_server/services"
)

// ChatController handles message history and sends.
type ChatController struct {
	Chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{Chat: chat}
}

// HandleGetMessages returns a match's messages ascending by timestamp.
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	matchID := r.URL.Query().Get("matchId")
	if matchID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "matchId is required"})
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 100
	}

	messages, err := c.Chat.History(r.Context(), matchID, userID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// HandleSendMessage stores a message and returns the server record, with
// its assigned id and timestamp, for the client to append as-is.
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var req struct {
		MatchID string `json:"matchId"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.MatchID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "matchId is required"})
		return
	}

	msg, err := c.Chat.Send(r.Context(), req.MatchID, userID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
