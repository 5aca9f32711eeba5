package live

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event is the wire shape pushed to register feed subscribers
type Event struct {
	Type string      `json:"type"` // movement_added, movement_updated, movement_removed, register_closed, register_reopened
	Date string      `json:"date"`
	Data interface{} `json:"data,omitempty"`
	At   time.Time   `json:"at"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans register events out to connected websocket clients. Slow clients
// are dropped rather than allowed to block the broadcast path.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]chan []byte)}
}

// Broadcast queues an event for every connected client
func (h *Hub) Broadcast(eventType, date string, data interface{}) {
	msg, err := json.Marshal(Event{Type: eventType, Date: date, Data: data, At: time.Now()})
	if err != nil {
		logrus.Errorf("[Live] failed to marshal event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		select {
		case ch <- msg:
		default:
			// Buffer full, client is not keeping up
			delete(h.clients, conn)
			close(ch)
		}
	}
}

// ServeWS upgrades the request and subscribes the client to the feed
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Errorf("[Live] websocket upgrade failed: %v", err)
		return
	}

	ch := make(chan []byte, 32)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	go h.writePump(conn, ch)
	go h.readPump(conn)
}

func (h *Hub) writePump(conn *websocket.Conn, ch chan []byte) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.remove(conn)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(conn)
				return
			}
		}
	}
}

// readPump drains and discards client messages so pong handling works
func (h *Hub) readPump(conn *websocket.Conn) {
	defer h.remove(conn)
	conn.SetReadLimit(512)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(ch)
	}
	conn.Close()
}

// ClientCount reports connected subscribers, for the health endpoint
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
