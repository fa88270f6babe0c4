package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// EngineStatus is the view of the diarization engine the readiness probe
// needs.
type EngineStatus interface {
	Name() string
	IsAvailable(ctx context.Context) bool
}

type HealthHandler struct {
	engine EngineStatus
}

func NewHealthHandler(engine EngineStatus) *HealthHandler {
	return &HealthHandler{engine: engine}
}

// Healthz reports readiness: 200 while the diarization backend answers its
// health probe, 503 otherwise.
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if !h.engine.IsAvailable(ctx) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"engine": h.engine.Name(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"engine": h.engine.Name(),
	})
}
