package push

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialTestConn establishes a live websocket pair, registers the server side
// with the hub and returns both ends.
func dialTestConn(t *testing.T, h *Hub, userID string) (server, client *websocket.Conn) {
	t.Helper()
	accepted := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		h.Register(userID, conn)
		accepted <- conn
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-accepted:
	case <-time.After(time.Second):
		t.Fatal("connection was never accepted")
	}
	return server, client
}

func connCount(h *Hub, userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

func TestBroadcastDeliversToRegisteredConns(t *testing.T) {
	h := NewHub(nil)
	_, client := dialTestConn(t, h, "anna")

	h.Broadcast("anna", []byte(`{"title":"Ny matchning!"}`))

	client.SetReadDeadline(time.Now().Add(time.Second))
	_, payload, err := client.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(payload), "Ny matchning!")
	assert.Equal(t, 1, connCount(h, "anna"))
}

func TestBroadcastDropsConnOnFailedWrite(t *testing.T) {
	h := NewHub(nil)
	server, _ := dialTestConn(t, h, "anna")
	require.Equal(t, 1, connCount(h, "anna"))

	// A closed peer makes the next write fail; the hub must forget the
	// connection instead of writing into it forever.
	require.NoError(t, server.Close())
	h.Broadcast("anna", []byte(`{}`))

	assert.Equal(t, 0, connCount(h, "anna"))
}

func TestUnregisterLastConnDropsUserEntry(t *testing.T) {
	h := NewHub(nil)
	server, _ := dialTestConn(t, h, "anna")

	h.Unregister("anna", server)

	h.mu.RLock()
	_, ok := h.conns["anna"]
	h.mu.RUnlock()
	assert.False(t, ok)
}
