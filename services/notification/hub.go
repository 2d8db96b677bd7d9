package notification

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeDeadline = 5 * time.Second
	pingInterval  = 15 * time.Second
	readDeadline  = 60 * time.Second
	readLimit     = 4 << 10
)

// envelope is the wire format pushed to connected clients.
type envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

type directMsg struct {
	recipientID string
	env         envelope
}

type registration struct {
	userID string
	conn   *websocket.Conn
}

// Hub keeps one live WebSocket per user and implements Dispatcher. All
// access to the connection map and every connection write happen on the Run
// goroutine; gorilla/websocket permits only one concurrent writer per
// connection, so keepalive pings go through the same loop as deliveries.
type Hub struct {
	clients      map[string]*websocket.Conn
	direct       chan directMsg
	register     chan registration
	unregister   chan registration
	pingInterval time.Duration
	logger       *zap.Logger
}

// NewHub constructs a Hub. Call Run in a goroutine before serving traffic.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:      make(map[string]*websocket.Conn),
		direct:       make(chan directMsg, 64),
		register:     make(chan registration),
		unregister:   make(chan registration),
		pingInterval: pingInterval,
		logger:       logger,
	}
}

// Run owns the client map and is the sole writer on every connection. A
// newer connection for the same user replaces the older one.
func (h *Hub) Run() {
	pings := time.NewTicker(h.pingInterval)
	defer pings.Stop()

	for {
		select {
		case reg := <-h.register:
			if old, ok := h.clients[reg.userID]; ok && old != nil && old != reg.conn {
				_ = old.Close()
			}
			h.clients[reg.userID] = reg.conn
			h.logger.Debug("ws register", zap.String("user", reg.userID))

		case reg := <-h.unregister:
			if cur, ok := h.clients[reg.userID]; ok && cur == reg.conn {
				_ = cur.Close()
				delete(h.clients, reg.userID)
				h.logger.Debug("ws unregister", zap.String("user", reg.userID))
			}

		case dm := <-h.direct:
			conn, ok := h.clients[dm.recipientID]
			if !ok {
				h.logger.Debug("ws skip: recipient offline", zap.String("user", dm.recipientID))
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteJSON(dm.env); err != nil {
				h.logger.Warn("ws send failed", zap.String("user", dm.recipientID), zap.Error(err))
				_ = conn.Close()
				delete(h.clients, dm.recipientID)
			}

		case <-pings.C:
			for userID, conn := range h.clients {
				_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					h.logger.Debug("ws ping failed", zap.String("user", userID), zap.Error(err))
					_ = conn.Close()
					delete(h.clients, userID)
				}
			}
		}
	}
}

// Notify enqueues a best-effort delivery. It never blocks: when the hub's
// queue is full the event is dropped and logged.
func (h *Hub) Notify(recipientID, event string, payload any) {
	select {
	case h.direct <- directMsg{recipientID: recipientID, env: envelope{Event: event, Payload: payload}}:
	default:
		h.logger.Warn("ws queue full, dropping event",
			zap.String("user", recipientID), zap.String("event", event))
	}
}

// Attach registers a connection under the authenticated user's identity and
// services it until it drops. Blocks until the connection closes.
func (h *Hub) Attach(userID string, conn *websocket.Conn) {
	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	h.register <- registration{userID: userID, conn: conn}

	// The channel is push-only; inbound frames are drained for control
	// handling and otherwise discarded.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.unregister <- registration{userID: userID, conn: conn}
			return
		}
	}
}
