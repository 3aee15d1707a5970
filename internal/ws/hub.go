// Package ws owns the websocket side of the server: it allocates session
// identifiers for new connections, tracks the live connection set, and
// routes outbound events to one, all, or all-but-one connections.
package ws

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pondwars/pondwars/internal/dependencies/clock"
	"github.com/pondwars/pondwars/internal/model"
	"github.com/pondwars/pondwars/internal/protocol"
)

// Handler consumes inbound traffic from the hub's connections.
type Handler interface {
	// HandleMessage processes one raw text frame from a session.
	HandleMessage(id model.SessionID, raw []byte)
	// HandleDisconnect is called exactly once when a session's connection
	// is gone.
	HandleDisconnect(id model.SessionID)
}

// Hub tracks every live connection keyed by its session identifier.
//
// Delivery is per-class: volatile events are skipped for a backpressured
// connection (stale positions are better dropped than queued), while a
// reliable event that cannot be queued drops the connection entirely, as
// if it had disconnected.
type Hub struct {
	mu      sync.RWMutex
	clients map[model.SessionID]*Client
	handler Handler
	clock   clock.Clock
	logger  *slog.Logger

	upgrader websocket.Upgrader
}

// NewHub creates an empty hub.
func NewHub(clk clock.Clock, logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.SessionID]*Client),
		clock:   clk,
		logger:  logger.With(slog.String("component", "ws")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The game is served cross-origin from static hosting.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// SetHandler wires the inbound message consumer. Must be called before the
// hub accepts connections.
func (h *Hub) SetHandler(handler Handler) {
	h.handler = handler
}

// ServeWS upgrades an HTTP request and runs the connection until it drops.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	// Session identifiers are exposed to every client, so they are random
	// UUIDs rather than anything guessable.
	client := newClient(model.SessionID(uuid.NewString()), h, conn, h.clock.Now())

	h.mu.Lock()
	h.clients[client.id] = client
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("connection opened",
		slog.String("session", string(client.id)),
		slog.Int("total_clients", clientCount))

	go client.writePump()
	client.readPump()
}

// unregister drops a client from the routing table and tells the handler.
// Called from the client's read pump exactly once.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.handler.HandleDisconnect(c.id)

	h.logger.Info("connection closed",
		slog.String("session", string(c.id)),
		slog.Duration("connection_duration", h.clock.Now().Sub(c.connectedAt)),
		slog.Int("total_clients", clientCount))
}

// Broadcast sends an event to every connection.
func (h *Hub) Broadcast(ev protocol.Event) {
	h.BroadcastExcept(ev, "")
}

// BroadcastExcept sends an event to every connection except one.
func (h *Hub) BroadcastExcept(ev protocol.Event, except model.SessionID) {
	data, err := ev.Encode()
	if err != nil {
		h.logger.Error("failed to encode event",
			slog.String("type", ev.Type),
			slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, client := range h.clients {
		if id == except {
			continue
		}
		h.deliver(client, ev, data)
	}
}

// Unicast sends an event to a single connection. Unknown sessions are a
// no-op: the connection may have dropped since the event was produced.
func (h *Hub) Unicast(id model.SessionID, ev protocol.Event) {
	data, err := ev.Encode()
	if err != nil {
		h.logger.Error("failed to encode event",
			slog.String("type", ev.Type),
			slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	client, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.deliver(client, ev, data)
}

// deliver queues one encoded event, applying the delivery-class policy.
func (h *Hub) deliver(client *Client, ev protocol.Event, data []byte) {
	if client.trySend(data) {
		return
	}
	if ev.Volatile {
		// A newer update supersedes this one anyway.
		h.logger.Debug("volatile event dropped, client backpressured",
			slog.String("session", string(client.id)),
			slog.String("type", ev.Type))
		return
	}
	// A reliable event could not be queued: treat the connection as dead
	// rather than let it stall the broadcast for everyone else. Closing
	// the socket makes the read pump exit and run normal disconnect
	// handling.
	h.logger.Warn("dropping backpressured connection",
		slog.String("session", string(client.id)),
		slog.String("type", ev.Type))
	client.close()
}

// ClientCount returns the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close tears down every connection, e.g. on server shutdown.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		client.close()
	}
}
