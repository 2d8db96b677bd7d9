package handlers

import (
	"net/http"

	"glowbook/middleware"
	"glowbook/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WSHandler upgrades authenticated clients onto the notification channel.
// A connection is registered under the principal's own identity, so a user
// only ever receives their own events.
type WSHandler struct {
	Hub    *notification.Hub
	Logger *zap.Logger
}

// NewWSHandler creates a WSHandler.
func NewWSHandler(hub *notification.Hub, logger *zap.Logger) *WSHandler {
	return &WSHandler{Hub: hub, Logger: logger}
}

// Connect handles GET /api/ws.
func (h *WSHandler) Connect(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.Hub.Attach(principal.ID, conn)
}
