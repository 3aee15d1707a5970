package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pondwars/pondwars/internal/dependencies/clock"
	"github.com/pondwars/pondwars/internal/model"
	"github.com/pondwars/pondwars/internal/protocol"
	"github.com/pondwars/pondwars/internal/testutil"
)

// leftAnnouncingHandler mimics the engine's disconnect behavior: it records
// the departed session and announces it to the remaining connections.
type leftAnnouncingHandler struct {
	hub *Hub

	mu          sync.Mutex
	disconnects []model.SessionID
}

func (h *leftAnnouncingHandler) HandleMessage(id model.SessionID, raw []byte) {}

func (h *leftAnnouncingHandler) HandleDisconnect(id model.SessionID) {
	h.mu.Lock()
	h.disconnects = append(h.disconnects, id)
	h.mu.Unlock()

	h.hub.BroadcastExcept(protocol.NewLeftEvent(id), id)
}

func (h *leftAnnouncingHandler) disconnected() []model.SessionID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]model.SessionID(nil), h.disconnects...)
}

// deliveryFixture registers clients without their write pumps so the send
// queue fills deterministically: nothing drains it, and backpressure is
// reached by exactly sendBufferSize queued frames.
type deliveryFixture struct {
	t       *testing.T
	hub     *Hub
	handler *leftAnnouncingHandler
	server  *httptest.Server
	accept  chan *websocket.Conn
}

func newDeliveryFixture(t *testing.T) *deliveryFixture {
	t.Helper()

	f := &deliveryFixture{
		t:      t,
		hub:    NewHub(clock.New(), testutil.NopLogger()),
		accept: make(chan *websocket.Conn, 1),
	}
	f.handler = &leftAnnouncingHandler{hub: f.hub}
	f.hub.SetHandler(f.handler)

	upgrader := websocket.Upgrader{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		f.accept <- conn
	}))
	t.Cleanup(f.server.Close)

	return f
}

// addClient dials the test server and registers the server side of the
// connection with the hub, running only its read pump.
func (f *deliveryFixture) addClient(id model.SessionID) *Client {
	f.t.Helper()

	url := "ws" + strings.TrimPrefix(f.server.URL, "http")
	dialed, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(f.t, err)
	f.t.Cleanup(func() { _ = dialed.Close() })

	serverConn := <-f.accept
	client := newClient(id, f.hub, serverConn, time.Now())

	f.hub.mu.Lock()
	f.hub.clients[client.id] = client
	f.hub.mu.Unlock()

	go client.readPump()
	return client
}

// saturate fills the client's outbound queue to capacity.
func (f *deliveryFixture) saturate(c *Client) {
	f.t.Helper()
	for i := 0; i < sendBufferSize; i++ {
		require.True(f.t, c.trySend([]byte(`{}`)), "queue should accept frame %d", i)
	}
	require.False(f.t, c.trySend([]byte(`{}`)), "queue should now be full")
}

// nextEvent pops one queued frame from a client's send queue and decodes it.
func (f *deliveryFixture) nextEvent(c *Client) protocol.Envelope {
	f.t.Helper()
	select {
	case data := <-c.send:
		var env protocol.Envelope
		require.NoError(f.t, json.Unmarshal(data, &env))
		return env
	case <-time.After(time.Second):
		f.t.Fatal("no event queued")
		return protocol.Envelope{}
	}
}

func TestVolatileEventSkippedForBackpressuredConnection(t *testing.T) {
	f := newDeliveryFixture(t)
	stalled := f.addClient("stalled")
	peer := f.addClient("peer")

	f.saturate(stalled)

	f.hub.Broadcast(protocol.NewUpdatedEvent(model.Player{ID: "mover"}, true))

	env := f.nextEvent(peer)
	assert.Equal(t, protocol.EventUpdated, env.Type, "unblocked peers still receive the event")

	assert.Len(t, stalled.send, sendBufferSize, "the dropped event is not queued")
	assert.Equal(t, 2, f.hub.ClientCount(), "a skipped volatile event keeps the connection")
	assert.Empty(t, f.handler.disconnected())
}

func TestReliableBackpressureDropsConnectionAndBroadcastContinues(t *testing.T) {
	f := newDeliveryFixture(t)
	stalled := f.addClient("stalled")
	peer := f.addClient("peer")

	f.saturate(stalled)

	f.hub.Broadcast(protocol.NewUpdatedEvent(model.Player{ID: "mover"}, false))

	env := f.nextEvent(peer)
	assert.Equal(t, protocol.EventUpdated, env.Type, "the drop never aborts delivery to others")

	// The stalled connection is closed and runs normal disconnect handling
	// via its read pump.
	require.Eventually(t, func() bool {
		return f.hub.ClientCount() == 1
	}, 3*time.Second, 10*time.Millisecond)
	require.Equal(t, []model.SessionID{"stalled"}, f.handler.disconnected())

	env = f.nextEvent(peer)
	assert.Equal(t, protocol.EventLeft, env.Type, "the departure is announced to the survivors")

	var left protocol.LeftPayload
	require.NoError(t, json.Unmarshal(env.Payload, &left))
	assert.Equal(t, model.SessionID("stalled"), left.ID)
}
