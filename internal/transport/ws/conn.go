package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

var errConnClosed = errors.New("ws: connection closed")

// wsConn puts a buffered outbound queue in front of one websocket
// connection. Send never blocks the room: a frame for a backed-up peer is
// dropped and the peer catches up from later broadcasts.
type wsConn struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	closed chan struct{}
}

func newWsConn(id string, c *websocket.Conn) *wsConn {
	return &wsConn{
		id:     id,
		conn:   c,
		send:   make(chan []byte, sendBuffer),
		closed: make(chan struct{}),
	}
}

// Send marshals an envelope and enqueues it without blocking.
func (c *wsConn) Send(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	select {
	case <-c.closed:
		return errConnClosed
	case c.send <- b:
		return nil
	default:
		slog.Debug("ws send buffer full, dropping frame", "conn", c.id)
		return nil
	}
}

// writePump drains the outbound queue and keeps the peer alive with pings.
// A failed write closes the socket; the read loop notices and tears the
// session down.
func (c *wsConn) writePump(pingEvery time.Duration) {
	ticker := time.NewTicker(pingEvery)
	defer ticker.Stop()

	for {
		select {
		case b := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
		case <-c.closed:
			return
		}
	}
}

func (c *wsConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return c.conn.Close()
}
