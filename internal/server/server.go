// Package server exposes the duel engine over a websocket JSON
// protocol. It is a thin driver: one goroutine reads each connection
// and every engine call is serialized through the engine mutex.
package server

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cardforge/duel-engine/internal/game"
)

// Server hosts games and speaks the websocket command protocol.
type Server struct {
	engine   *game.Engine
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	cleanup map[uuid.UUID]*game.Action // pending forced discards per game
}

// New creates a server around the engine.
func New(engine *game.Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine: engine,
		log:    logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		cleanup: make(map[uuid.UUID]*game.Action),
	}
}

// Handler returns the HTTP handler serving the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	conn := &connection{ws: ws, server: s}
	s.log.Info("client connected", zap.String("remote", ws.RemoteAddr().String()))
	go conn.readLoop()
}

// connection is one websocket client, bound to at most one game.
type connection struct {
	ws     *websocket.Conn
	server *Server

	gameID   uuid.UUID
	playerID game.ObjectID
}

func (c *connection) readLoop() {
	defer c.ws.Close()
	for {
		var cmd Command
		if err := c.ws.ReadJSON(&cmd); err != nil {
			c.server.log.Info("client disconnected", zap.Error(err))
			return
		}
		resp := c.server.handle(c, cmd)
		if err := c.ws.WriteJSON(resp); err != nil {
			c.server.log.Warn("write failed", zap.Error(err))
			return
		}
	}
}
