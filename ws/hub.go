package ws

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const sendBuffer = 256

type Client struct {
	ID     uuid.UUID
	UserID uuid.UUID // uuid.Nil for anonymous listeners
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub is the process-wide registry of chat connections, keyed by a
// per-connection id. It is rebuilt empty on restart.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
	closed  bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uuid.UUID]*Client)}
}

// Register adds a connection. It returns nil once the hub is closed.
func (h *Hub) Register(conn *websocket.Conn, userID uuid.UUID) *Client {
	client := &Client{
		ID:     uuid.New(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
	}
	if !h.add(client) {
		return nil
	}
	return client
}

func (h *Hub) add(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[client.ID] = client
	return true
}

// Unregister removes the connection and closes its send channel. Calling it
// for an unknown id is a no-op.
func (h *Hub) Unregister(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[id]; ok {
		close(client.Send)
		delete(h.clients, id)
	}
}

// Broadcast queues data for every client without blocking. Clients whose
// buffer is full are dropped after the pass.
func (h *Hub) Broadcast(data []byte) {
	var slow []uuid.UUID

	h.mu.RLock()
	for id, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range slow {
		slog.Warn("dropping slow chat client", "conn_id", id)
		h.Unregister(id)
	}
}

// SendTo queues data for a single client. It reports false when the client
// is gone or its buffer is full.
func (h *Hub) SendTo(id uuid.UUID, data []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[id]
	if !ok {
		return false
	}
	select {
	case client.Send <- data:
		return true
	default:
		return false
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new registrations.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, client := range h.clients {
		close(client.Send)
		delete(h.clients, id)
	}
}
