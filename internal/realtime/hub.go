package realtime

import (
	"log/slog"
	"sync"

	"github.com/pixelgram/pixelgram/internal/metrics"
)

// Hub is the live user→connection registry and the fan-out point for
// realtime events. One entry per user: a second connection from the same
// user replaces the previous one, so only the most recent session receives
// events.
type Hub struct {
	log *slog.Logger

	mu      sync.RWMutex
	clients map[string]*Client // user id → most recent client
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:     log,
		clients: map[string]*Client{},
	}
}

// Register adds c under its user id, closing any connection the user had
// before, and broadcasts the updated online-users snapshot.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if prev, ok := h.clients[c.UserID()]; ok {
		prev.Close()
	}
	h.clients[c.UserID()] = c
	metrics.OnlineConns.Set(float64(len(h.clients)))
	h.log.Info("client connected", "userId", c.UserID(), "connId", c.ID())
	h.broadcastOnlineLocked()
}

// Unregister removes whichever entry currently maps to the given connection
// id. Disconnects only carry the connection handle, so the lookup is by
// value; an unknown id, or a stale id already replaced by a newer
// connection, is a no-op.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, c := range h.clients {
		if c.ID() != connID {
			continue
		}
		delete(h.clients, userID)
		c.Close()
		metrics.OnlineConns.Set(float64(len(h.clients)))
		h.log.Info("client disconnected", "userId", userID, "connId", connID)
		h.broadcastOnlineLocked()
		return
	}
}

// Lookup returns the user's live client, if any.
func (h *Hub) Lookup(userID string) (*Client, bool) {
	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()
	return c, ok
}

// Online returns the ids of all currently registered users.
func (h *Hub) Online() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.onlineLocked()
}

// Deliver pushes one event to the user's live connection. A user with no
// connection, a full outbound queue, or a payload that fails to encode all
// result in the event being dropped; delivery is best effort and never
// surfaces an error to the caller.
func (h *Hub) Deliver(userID string, ev Event) {
	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		metrics.EventsDropped.WithLabelValues(ev.Name).Inc()
		return
	}
	data, err := ev.encode()
	if err != nil {
		h.log.Error("encode event", "event", ev.Name, "error", err)
		return
	}
	if !c.enqueue(data) {
		metrics.EventsBackpressure.WithLabelValues(ev.Name).Inc()
		h.log.Warn("outbound queue full, event dropped", "userId", userID, "event", ev.Name)
		return
	}
	metrics.EventsDelivered.WithLabelValues(ev.Name).Inc()
}

func (h *Hub) onlineLocked() []string {
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

// broadcastOnlineLocked pushes the presence snapshot to every registered
// client. Called with the write lock held so the snapshot always reflects
// the state after the triggering mutation.
func (h *Hub) broadcastOnlineLocked() {
	ev := onlineUsers(h.onlineLocked())
	data, err := ev.encode()
	if err != nil {
		h.log.Error("encode event", "event", ev.Name, "error", err)
		return
	}
	for _, c := range h.clients {
		_ = c.enqueue(data)
	}
}
