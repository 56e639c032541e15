package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// sendBuffer is the per-client queue depth. A client that cannot drain
// this many notifications is stalled and gets dropped.
const sendBuffer = 16

// Client is one registered WebSocket subscriber. All outgoing frames go
// through its send channel: gorilla/websocket permits a single concurrent
// writer per connection, so the channel's drain goroutine is the only
// place that ever writes to conn.
type Client struct {
	conn       *websocket.Conn
	employeeID int

	mu     sync.Mutex
	send   chan interface{}
	closed bool
}

// Send queues a payload for delivery. It never blocks: it reports false
// when the client is gone or its buffer is full.
func (c *Client) Send(v interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- v:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// writePump drains the send channel onto the connection. It exits when
// the channel closes or a write fails; after a failed write it keeps
// draining so queued senders are never stranded.
func (c *Client) writePump(log zerolog.Logger) {
	for v := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteJSON(v); err != nil {
			log.Warn().Err(err).Int("employee_id", c.employeeID).Msg("Write failed, closing client")
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
}

// Hub fans approval notifications out to connected clients. Clients whose
// role matches a notification's stage see it highlighted client-side; the
// hub itself broadcasts to everyone since the payload carries no secrets
// beyond what list endpoints already expose.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*Client
	log     zerolog.Logger
}

// NewHub creates an empty Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*Client),
		log:     log.With().Str("component", "ws_hub").Logger(),
	}
}

// Register adds a connection for an employee and starts its writer. The
// returned Client is the connection's only legal write path.
func (h *Hub) Register(conn *websocket.Conn, employeeID int) *Client {
	c := &Client{
		conn:       conn,
		employeeID: employeeID,
		send:       make(chan interface{}, sendBuffer),
	}

	h.mu.Lock()
	h.clients[conn] = c
	count := len(h.clients)
	h.mu.Unlock()

	go c.writePump(h.log)
	h.log.Debug().Int("employee_id", employeeID).Int("clients", count).Msg("Client connected")
	return c
}

// Unregister removes a connection and stops its writer. The caller closes
// the connection itself.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	c, ok := h.clients[conn]
	delete(h.clients, conn)
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		c.close()
	}
	h.log.Debug().Int("clients", count).Msg("Client disconnected")
}

// Broadcast queues a notification for every connected client. A client
// whose buffer is full is dropped; its read loop cleans up on the closed
// connection.
func (h *Hub) Broadcast(n ApprovalNotification) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.Send(n) {
			h.log.Warn().Int("employee_id", c.employeeID).Msg("Client not draining, dropping")
			h.Unregister(c.conn)
			c.conn.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
