package notify

import (
	"sync"
	"time"
)

// Event is the realtime payload delivered to a user's active sessions.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	TicketID  *string   `json:"ticketId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Hub fans events out to a user's connected sessions. Publishing to a user
// with no sessions is a no-op.
type Hub interface {
	Publish(userID string, event Event)
	Subscribe(userID string) (ch <-chan Event, cancel func())
}

// inMemoryHub is a synchronous per-user pub/sub. One channel per session;
// slow consumers drop events rather than block the dispatcher.
type inMemoryHub struct {
	mu       sync.RWMutex
	sessions map[string][]chan Event
}

// NewHub creates a process-local hub.
func NewHub() Hub {
	return &inMemoryHub{sessions: make(map[string][]chan Event)}
}

func (h *inMemoryHub) Publish(userID string, event Event) {
	// Send under the read lock: channels are buffered and the send never
	// blocks, and cancel needs the write lock before it may close one.
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.sessions[userID] {
		select {
		case ch <- event:
		default:
		}
	}
}

func (h *inMemoryHub) Subscribe(userID string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	h.sessions[userID] = append(h.sessions[userID], ch)
	h.mu.Unlock()

	// cancel is idempotent: the channel is only closed on the call that
	// actually removes it, and close happens under the write lock so it
	// cannot interleave with a Publish send.
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		channels := h.sessions[userID]
		for i, candidate := range channels {
			if candidate == ch {
				h.sessions[userID] = append(channels[:i], channels[i+1:]...)
				if len(h.sessions[userID]) == 0 {
					delete(h.sessions, userID)
				}
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}
