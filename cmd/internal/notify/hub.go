// Package notify fans alert lifecycle events out to connected websocket
// clients. The flow is one-way: the server pushes, clients only listen.
package notify

import (
	"log/slog"
	"sync"
	"time"
)

// EventType identifies an alert lifecycle event on the wire.
type EventType string

const (
	EventAlertCreated EventType = "alert.created"
	EventAlertUpdated EventType = "alert.updated"
	EventAlertDeleted EventType = "alert.deleted"
)

// Event is the JSON frame pushed to subscribers.
type Event struct {
	Type      EventType `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// Client represents one connected websocket session.
//
// Send is intentionally NOT closed by the hub to keep concurrent broadcasts
// panic-safe; done signals the writer goroutine to stop instead.
type Client struct {
	id   string
	Send chan Event

	done      chan struct{}
	closeOnce sync.Once
}

func newClient(id string, queueSize int) *Client {
	if queueSize <= 0 {
		queueSize = defaultSendQueueSize
	}
	return &Client{
		id:   id,
		Send: make(chan Event, queueSize),
		done: make(chan struct{}),
	}
}

// Done returns a channel that is closed when the client is shutting down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close signals the client goroutines to stop (idempotent). It does NOT
// close Send.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

const defaultSendQueueSize = 64

// Hub tracks subscribers and broadcasts events to all of them.
//
// Broadcast never blocks: a subscriber whose queue is full misses the event.
// Alert listings are the source of truth, so a dropped frame costs a client
// at most one refresh.
type Hub struct {
	log *slog.Logger

	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub constructs an empty hub.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[string]*Client),
	}
}

// Subscribe registers a new client with a bounded send queue.
func (h *Hub) Subscribe(id string) *Client {
	c := newClient(id, defaultSendQueueSize)

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	h.log.Info("notify.subscribe", "client_id", c.id)
	return c
}

// Unsubscribe removes a client from membership and signals its shutdown.
// Safe to call more than once.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	c := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()

	if c == nil {
		return
	}
	c.Close()
	h.log.Info("notify.unsubscribe", "client_id", id)
}

// Publish broadcasts an event to every subscriber without blocking.
func (h *Hub) Publish(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		select {
		case <-c.Done():
		case c.Send <- ev:
		default:
			h.log.Warn("notify.drop", "client_id", c.id, "type", string(ev.Type))
		}
	}
}

// Subscribers reports the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
