package handler

import (
	"net/http"

	"safecity/backend/internal/feed"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the dashboard is served from a different origin in development
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeFeed upgrades the connection and subscribes it to new reports.
func (h *Handler) ServeFeed(c *gin.Context) {
	if h.Hub == nil {
		h.fail(c, http.StatusServiceUnavailable, "feed.unavailable")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		return
	}

	client := feed.NewWebSocketClient(uuid.NewString(), conn, h.Hub)
	if !h.Hub.Register(c.Request.Context(), client) {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "feed stopped"))
		conn.Close()
		return
	}
	client.Run()
}
