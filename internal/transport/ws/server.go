package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/neko-chat/chat-service/internal/room"
)

// Controller is the room-side surface the transport drives with connect,
// message and disconnect events.
type Controller interface {
	Connect(ctx context.Context, id string, conn room.Sender)
	HandleMessage(ctx context.Context, id string, data []byte)
	Disconnect(ctx context.Context, id string)
}

type Server struct {
	upgrader websocket.Upgrader
	room     Controller

	pingEvery time.Duration
}

func NewServer(ctrl Controller, publicDomain string) *Server {
	return &Server{
		room: ctrl,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(r, publicDomain)
			},
		},
		pingEvery: 15 * time.Second,
	}
}

// WS endpoint: GET /ws
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	// A refused origin makes Upgrade reply 403 before any session exists.
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "origin", r.Header.Get("Origin"), "err", err)
		return
	}

	id := uuid.New().String()
	c := newWsConn(id, conn)

	go c.writePump(s.pingEvery)

	s.room.Connect(r.Context(), id, c)
	s.readLoop(r.Context(), c)
	s.room.Disconnect(r.Context(), id)

	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "conn", id, "err", err)
	}
}

func (s *Server) readLoop(ctx context.Context, c *wsConn) {
	defer func() { _ = c.Close() }()

	// Frames are short envelopes; anything bigger is a broken client.
	c.conn.SetReadLimit(1 << 12)
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		s.room.HandleMessage(ctx, c.id, data)
	}
}
