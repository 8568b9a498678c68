package ws

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"sherlock13/internal/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub streams public game events to spectator connections. Spectators
// are read-only: they see every broadcast line, never unicast ones, so
// no hand or private statistic leaks through this surface.
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// HandleWS upgrades a spectator connection and parks it until the peer
// goes away. Anything the spectator sends is discarded.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	logger.Debug("spectator joined", "remote", conn.RemoteAddr().String())

	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish fans one broadcast line out to every spectator. A connection
// that fails to take the write is evicted.
func (h *Hub) Publish(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	message := map[string]any{
		"action": "event",
		"data":   line,
	}
	for conn := range h.conns {
		if err := conn.WriteJSON(message); err != nil {
			logger.Debug("dropping spectator", "err", err)
			conn.Close()
			delete(h.conns, conn)
		}
	}
}
