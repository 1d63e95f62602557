package realtime

import (
	"net/http"
	"strings"

	socketio "github.com/googollee/go-socket.io"

	"puttpals_server/logger"
	"puttpals_server/models"
)

// Room prefixes. Clients join "user:<id>" for their match feed and
// "match:<id>" for the chat feed of an open conversation.
const (
	UserRoomPrefix  = "user:"
	MatchRoomPrefix = "match:"
)

// ChangeEventName is the socket event carrying row changes.
const ChangeEventName = "change"

// Server fans row-change events out to subscribed clients over socket.io.
// It implements services.ChangePublisher. Events are fire-and-forget: a
// slow or absent subscriber never blocks a write, and consumers are
// expected to reconcile idempotently on their side.
type Server struct {
	io *socketio.Server
}

// NewServer builds the socket.io server and wires the room lifecycle.
func NewServer() *Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(c socketio.Conn) error {
		logger.Log.Debugf("socket connected: %s", c.ID())
		return nil
	})

	io.OnEvent("/", "join", func(c socketio.Conn, room string) {
		if !strings.HasPrefix(room, UserRoomPrefix) && !strings.HasPrefix(room, MatchRoomPrefix) {
			logger.Log.Warnf("rejecting join to unknown room %q from %s", room, c.ID())
			return
		}
		c.Join(room)
	})

	io.OnEvent("/", "leave", func(c socketio.Conn, room string) {
		c.Leave(room)
	})

	io.OnError("/", func(c socketio.Conn, err error) {
		logger.Log.Warnf("socket error: %v", err)
	})

	io.OnDisconnect("/", func(c socketio.Conn, reason string) {
		logger.Log.Debugf("socket disconnected: %s (%s)", c.ID(), reason)
	})

	return &Server{io: io}
}

// Run starts the socket.io event loop. Blocks until Close.
func (s *Server) Run() error {
	return s.io.Serve()
}

// Close tears down the event loop and all connections.
func (s *Server) Close() error {
	return s.io.Close()
}

// Handler exposes the server for mounting at /socket.io/.
func (s *Server) Handler() http.Handler {
	return s.io
}

// PublishToUser delivers a change event to every connection in the user's
// room.
func (s *Server) PublishToUser(userID string, ev models.ChangeEvent) {
	s.io.BroadcastToRoom("/", UserRoomPrefix+userID, ChangeEventName, ev)
}

// PublishToMatch delivers a change event to every connection watching a
// match's chat.
func (s *Server) PublishToMatch(matchID string, ev models.ChangeEvent) {
	s.io.BroadcastToRoom("/", MatchRoomPrefix+matchID, ChangeEventName, ev)
}
