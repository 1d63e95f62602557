package push

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"puttpals_server/logger"
)

// Hub maps userID -> websocket connections and forwards redis push
// messages to them. Connections register through ServeWS and are dropped
// on the first failed write.
type Hub struct {
	Redis *redis.Client

	mu    sync.RWMutex
	conns map[string]map[*websocket.Conn]struct{}

	upgrader websocket.Upgrader
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		Redis: rdb,
		conns: make(map[string]map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Register adds a connection for a user.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.conns[userID]
	if !ok {
		m = make(map[*websocket.Conn]struct{})
		h.conns[userID] = m
	}
	m[conn] = struct{}{}
}

// Unregister removes a connection.
func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.conns[userID]; ok {
		delete(m, conn)
		if len(m) == 0 {
			delete(h.conns, userID)
		}
	}
}

// Broadcast writes a raw payload to every connection of a user. A
// connection whose write fails is unregistered and closed.
func (h *Hub) Broadcast(userID string, payload []byte) {
	h.mu.RLock()
	var dead []*websocket.Conn
	for c := range h.conns[userID] {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Log.Warnf("push websocket write failed: %v", err)
			dead = append(dead, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range dead {
		h.Unregister(userID, c)
		c.Close()
	}
}

// Run subscribes to the per-user push channels and forwards messages until
// the context is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	sub := h.Redis.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			userID := userFromChannel(msg.Channel)
			if userID == "" {
				logger.Log.Warnf("ignoring message on unexpected channel %s", msg.Channel)
				continue
			}
			h.Broadcast(userID, []byte(msg.Payload))
		}
	}
}

// ServeWS upgrades an authenticated request into a push connection for the
// given user and keeps it registered until the peer goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warnf("push websocket upgrade failed: %v", err)
		return
	}
	h.Register(userID, conn)
	defer func() {
		h.Unregister(userID, conn)
		conn.Close()
	}()

	// Reads are discarded; the socket exists for server pushes only. The
	// read loop notices the close handshake.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
