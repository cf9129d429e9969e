package handlers

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/geocoder89/shopapi/internal/apperr"
	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	deps         map[string]Pinger
	shuttingDown atomic.Bool
}

// NewHealthHandler checks every named dependency on /readyz.
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// MarkShuttingDown makes readiness fail so load balancers drain the instance.
func (h *HealthHandler) MarkShuttingDown() {
	h.shuttingDown.Store(true)
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	if h.shuttingDown.Load() {
		Fail(ctx, apperr.Unavailable("Shutting down", nil))
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 500*time.Millisecond)
	defer cancel()

	for name, dep := range h.deps {
		if dep == nil {
			continue
		}
		if err := dep.Ping(cctx); err != nil {
			Fail(ctx, apperr.Unavailable(name+" not ready", err))
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}
