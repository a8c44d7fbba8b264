package notify

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"rentalsBack/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// Logger defines minimal logging interface required by the hub.
type Logger interface {
	Infof(string, ...interface{})
	Errorf(string, ...interface{})
}

// MessageEvent is pushed to an owner when someone contacts them about a property.
type MessageEvent struct {
	Type       string `json:"type"`
	PropertyID int    `json:"property_id"`
	MessageID  int    `json:"message_id"`
	SenderName string `json:"sender_name"`
}

func NewMessageEvent(msg models.Message) MessageEvent {
	return MessageEvent{
		Type:       "message",
		PropertyID: msg.PropertyID,
		MessageID:  msg.ID,
		SenderName: msg.SenderName,
	}
}

// Hub keeps one live inbox connection per owner. A new connection from the
// same owner replaces the old one.
type Hub struct {
	logger   Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[int]*client
}

// client is one owner connection. Only its write loop writes to conn.
type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func NewHub(logger Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[int]*client),
	}
}

// ServeWS upgrades the request and registers the connection for ownerID.
// The caller is responsible for authenticating the owner.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, ownerID int) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.errorf("inbox ws upgrade failed for owner %d: %v", ownerID, err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer), done: make(chan struct{})}
	h.mu.Lock()
	if old, ok := h.clients[ownerID]; ok {
		old.close()
	}
	h.clients[ownerID] = c
	h.mu.Unlock()

	h.infof("inbox owner %d connected", ownerID)

	go h.writeLoop(ownerID, c)
	go h.readLoop(ownerID, c)
}

// Connected reports whether the owner has a live connection.
func (h *Hub) Connected(ownerID int) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[ownerID]
	return ok
}

// Push queues payload as JSON for the owner's connection, if any. It never
// waits on the socket; when the owner's queue is full the event is dropped.
func (h *Hub) Push(ownerID int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.errorf("inbox marshal failed: %v", err)
		return
	}
	h.mu.RLock()
	c := h.clients[ownerID]
	h.mu.RUnlock()
	if c == nil {
		return
	}
	h.enqueue(ownerID, c, data)
}

// Close drops every connection. Used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.close()
		delete(h.clients, id)
	}
}

func (h *Hub) enqueue(id int, c *client, data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		h.errorf("inbox owner %d is not reading, event dropped", id)
	}
}

func (h *Hub) writeLoop(id int, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.drop(id, c)
	}()

	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.errorf("inbox owner %d write failed: %v", id, err)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				h.errorf("inbox owner %d ping failed: %v", id, err)
				return
			}
		}
	}
}

func (h *Hub) readLoop(id int, c *client) {
	defer h.drop(id, c)

	conn := c.conn
	conn.SetReadLimit(4 << 10)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		if mt == websocket.TextMessage && strings.EqualFold(strings.TrimSpace(string(message)), "ping") {
			h.enqueue(id, c, []byte("pong"))
		}
	}
}

// drop closes c and unregisters it unless a newer connection took its place.
func (h *Hub) drop(id int, c *client) {
	c.close()
	h.mu.Lock()
	if current, ok := h.clients[id]; ok && current == c {
		delete(h.clients, id)
		h.infof("inbox owner %d disconnected", id)
	}
	h.mu.Unlock()
}

func (h *Hub) infof(format string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Infof(format, args...)
	}
}

func (h *Hub) errorf(format string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Errorf(format, args...)
	}
}
