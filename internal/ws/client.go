package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pondwars/pondwars/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Ping period; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Largest inbound frame we accept
	maxMessageSize = 4096

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client is one live websocket connection and its outbound queue. One
// connection's slow consumption only ever affects its own queue.
type Client struct {
	id          model.SessionID
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	connectedAt time.Time

	closeOnce sync.Once
}

func newClient(id model.SessionID, hub *Hub, conn *websocket.Conn, connectedAt time.Time) *Client {
	return &Client{
		id:          id,
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: connectedAt,
	}
}

// trySend queues an encoded frame without blocking, reporting whether the
// queue accepted it.
func (c *Client) trySend(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// close shuts the connection down. Safe to call more than once and from
// any goroutine; disconnect handling runs via the read pump's exit.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
	})
}

// readPump reads frames until the connection drops, feeding them to the
// hub's handler. It owns disconnect handling: when it returns, the session
// is unregistered exactly once.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.hub.handler.HandleMessage(c.id, payload)
	}
}

// writePump drains the outbound queue and keeps the connection alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
