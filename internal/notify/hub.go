package notify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	clientSendSize = 16
)

// Hub pushes notifications to connected dashboard clients over
// websockets. A slow client gets dropped rather than blocking the
// broadcast to everyone else.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*websocket.Conn]chan Notification
	upgrader websocket.Upgrader
	logger   *logrus.Logger
}

// NewHub creates a websocket notification hub
func NewHub(logger *logrus.Logger, checkOrigin func(*http.Request) bool) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]chan Notification),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger,
	}
}

// Notify broadcasts the notification to every connected client
func (h *Hub) Notify(_ context.Context, n Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn, send := range h.clients {
		select {
		case send <- n:
		default:
			h.logger.WithField("remote", conn.RemoteAddr().String()).
				Warn("Dropping slow websocket client")
			go h.remove(conn)
		}
	}
}

// ServeWS upgrades an HTTP request and streams notifications until the
// client disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	send := make(chan Notification, clientSendSize)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()

	go h.writeLoop(conn, send)
	h.readLoop(conn)
}

func (h *Hub) writeLoop(conn *websocket.Conn, send chan Notification) {
	for n := range send {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(n); err != nil {
			h.remove(conn)
			return
		}
	}
}

// readLoop drains client frames so pings and close messages are
// processed; the dashboard never sends meaningful data upstream.
func (h *Hub) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(conn)
			return
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	send, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
		close(send)
	}
	h.mu.Unlock()

	if ok {
		_ = conn.Close()
	}
}

// ClientCount reports the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
