package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sherlock13/internal/session"
)

// HealthHandler answers liveness probes.
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// SessionHandler serves the observable session state. The snapshot
// carries no hands and no culprit, so a stalled or misbehaving game
// can be inspected without leaking secrets.
func SessionHandler(m *session.Machine) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, toSessionDTO(m.Snapshot()))
	}
}
