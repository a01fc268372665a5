package service

import (
	"log/slog"
	"sync"

	"github.com/circle-app/circle-server"
)

const observerBuffer = 32

// Observer is one connected realtime client.
type Observer struct {
	id     uint64
	events chan circle.Event
}

// Events delivers every broadcast event until the observer is detached.
func (o *Observer) Events() <-chan circle.Event {
	return o.events
}

// Hub keeps the observers of this process. Broadcast never blocks: an
// observer whose buffer is full misses the event.
type Hub struct {
	mu        sync.Mutex
	nextID    uint64
	observers map[uint64]*Observer
	closed    bool
}

func NewHub() *Hub {
	return &Hub{observers: map[uint64]*Observer{}}
}

func (h *Hub) Attach() *Observer {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	o := &Observer{id: h.nextID, events: make(chan circle.Event, observerBuffer)}
	if h.closed {
		close(o.events)
		return o
	}
	h.observers[o.id] = o
	return o
}

// Detach is safe to call more than once.
func (h *Hub) Detach(o *Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.observers[o.id]; ok {
		delete(h.observers, o.id)
		close(o.events)
	}
}

func (h *Hub) Broadcast(event circle.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, o := range h.observers {
		select {
		case o.events <- event:
		default:
			slog.Warn(
				"observer buffer full, dropping event",
				slog.String("event", event.Event),
				slog.Uint64("observer", o.id),
				slog.String("module", "realtime"),
			)
		}
	}
}

// Len reports the number of attached observers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.observers)
}

// Close detaches everyone; later attachments receive a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, o := range h.observers {
		delete(h.observers, id)
		close(o.events)
	}
}
