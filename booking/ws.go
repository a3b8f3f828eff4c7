package booking

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"studioerp/models"
	"studioerp/mq"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// writeWait bounds a write to one socket so a stalled editor cannot hold up
// the others or the notifier.
var writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub keeps the websockets of open booking editors, keyed by topic.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string][]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string][]*websocket.Conn)}
}

func Topic(bookingID string) string {
	return "booking_" + bookingID
}

// HandleWS subscribes the socket to the booking's topic until it closes.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	key := Topic(ps.ByName("id"))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed for %s: %v", key, err)
		return
	}

	h.mu.Lock()
	h.subscribers[key] = append(h.subscribers[key], conn)
	h.mu.Unlock()

	for {
		// keeps the connection until the client goes away
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	conns := h.subscribers[key]
	kept := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		delete(h.subscribers, key)
	} else {
		h.subscribers[key] = kept
	}
	h.mu.Unlock()

	conn.Close()
}

func (h *Hub) broadcast(key string, val []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.subscribers[key]
	kept := conns[:0]
	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, val); err == nil {
			kept = append(kept, conn)
		} else {
			conn.Close()
		}
	}
	h.subscribers[key] = kept
}

// Deliver pushes an event to the editors of its booking.
func (h *Hub) Deliver(e mq.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("[WS] failed to encode %s event: %v", e.Type, err)
		return
	}
	h.broadcast(Topic(e.BookingID), data)
}

// NotifyAssignments lets the hub serve as the notifier when no broker is
// configured.
func (h *Hub) NotifyAssignments(_ context.Context, assignments []models.Assignment, booking *models.Booking) error {
	h.Deliver(mq.Event{
		Type:        mq.EventAssigned,
		BookingID:   booking.ID,
		Branch:      booking.Branch,
		Client:      booking.Client,
		Assignments: assignments,
		Timestamp:   time.Now().Unix(),
	})
	return nil
}

func (h *Hub) NotifySkipped(_ context.Context, task *models.Task, reason string) error {
	h.Deliver(mq.Event{
		Type:      mq.EventSkipped,
		BookingID: task.BookingID,
		Branch:    task.Branch,
		TaskID:    task.ID,
		Reason:    reason,
		Timestamp: time.Now().Unix(),
	})
	return nil
}

// Close drops every open socket.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for key, conns := range h.subscribers {
		for _, c := range conns {
			c.Close()
		}
		delete(h.subscribers, key)
	}
}
