package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/qpaper-backend/internal/response"
)

const healthTimeout = 2 * time.Second

// Pinger is a backing service that can report its reachability.
type Pinger func(ctx context.Context) error

// HealthHandler reports whether the backing services answer.
type HealthHandler struct {
	checks map[string]Pinger
	log    zerolog.Logger
}

func NewHealthHandler(checks map[string]Pinger, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		log:    log.With().Str("component", "health_handler").Logger(),
	}
}

// Health godoc
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := gin.H{"status": "ok"}
	healthy := true
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			h.log.Warn().Err(err).Str("dependency", name).Msg("Health check failed")
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	if !healthy {
		status["status"] = "degraded"
		response.FailWithData(c, http.StatusServiceUnavailable, response.ErrServiceUnavailable, status)
		return
	}
	response.Success(c, http.StatusOK, status)
}
