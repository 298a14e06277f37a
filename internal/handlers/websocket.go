package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins for the demo frontend
	},
}

// HandleWebSocket streams simulated price ticks to the client until
// it disconnects.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.Log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("price stream client connected")

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return

		case <-ticker.C:
			update := h.Simulator.Tick()
			if err := conn.WriteJSON(update); err != nil {
				h.Log.Debug().Err(err).Msg("price stream client gone")
				return
			}
		}
	}
}
