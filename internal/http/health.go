package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	healthHealthy   = "healthy"
	healthDegraded  = "degraded"
	healthUnhealthy = "unhealthy"

	dbPingTimeout = 2 * time.Second
)

// HealthResponse reports storage reachability and provider circuit states.
// An open circuit degrades the service without failing the probe; only an
// unreachable database does.
type HealthResponse struct {
	Status    string            `json:"status"`
	Time      string            `json:"time"`
	Version   string            `json:"version,omitempty"`
	Database  string            `json:"database"`
	Providers map[string]string `json:"providers"`
	Open      []string          `json:"openCircuits,omitempty"`
}

type HealthController struct {
	db        Pinger
	providers CircuitReporter
	version   string
}

func NewHealthController(db Pinger, providers CircuitReporter, version string) *HealthController {
	return &HealthController{db: db, providers: providers, version: version}
}

// Status handles GET /health
func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:    healthHealthy,
		Time:      time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Database:  h.checkDatabase(c.Request.Context()),
		Providers: map[string]string{},
	}

	if h.providers != nil {
		resp.Providers = h.providers.CircuitStates()
		for name, state := range resp.Providers {
			if state == "open" {
				resp.Open = append(resp.Open, name)
			}
		}
		sort.Strings(resp.Open)
	}

	code := http.StatusOK
	switch {
	case resp.Database != "ok" && resp.Database != "not configured":
		resp.Status = healthUnhealthy
		code = http.StatusServiceUnavailable
	case len(resp.Open) > 0:
		resp.Status = healthDegraded
	}

	c.JSON(code, resp)
}

func (h *HealthController) checkDatabase(ctx context.Context) string {
	if h.db == nil {
		return "not configured"
	}
	ctx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

// Ping handles GET /ping
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
