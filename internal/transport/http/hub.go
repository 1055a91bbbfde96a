package http

import "sync"

// Hub tracks live connections per user so the reminder scheduler can push
// messages to whoever is online. Delivery is best effort: no connection, no
// reminder.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[chan outboundMessage[any]]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]map[chan outboundMessage[any]]struct{})}
}

func (h *Hub) register(userID string, send chan outboundMessage[any]) func() {
	h.mu.Lock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[chan outboundMessage[any]]struct{})
	}
	h.conns[userID][send] = struct{}{}
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.conns[userID], send)
		if len(h.conns[userID]) == 0 {
			delete(h.conns, userID)
		}
		h.mu.Unlock()
	}
}

// Notify pushes a reminder to every live session of the user and reports
// whether anyone received it. Slow sessions are skipped rather than blocked on.
func (h *Hub) Notify(userID, text string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := false
	for send := range h.conns[userID] {
		select {
		case send <- outboundMessage[any]{Type: "reminder", Payload: reminderPayload{Message: text}}:
			delivered = true
		default:
		}
	}
	return delivered
}
