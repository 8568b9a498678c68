package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sherlock13/internal/api/ws"
	"sherlock13/internal/session"
)

// NewRouter wires the observer surface: health, session snapshot,
// metrics, and the spectator websocket. Everything here is read-only;
// game state is mutated exclusively through the line protocol.
func NewRouter(m *session.Machine, hub *ws.Hub) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", HealthHandler())
	r.GET("/api/session", SessionHandler(m))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", hub.HandleWS)

	return r
}
