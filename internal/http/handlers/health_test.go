package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/geocoder89/shopapi/internal/http/handlers"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthRouter(h *handlers.HealthHandler) http.Handler {
	r := newEngine()
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	return r
}

func TestReadyz(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") })

	t.Run("all dependencies up", func(t *testing.T) {
		h := handlers.NewHealthHandler(map[string]handlers.Pinger{"postgres": ok, "redis": ok})
		if w := doJSON(healthRouter(h), http.MethodGet, "/readyz", ""); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("database down", func(t *testing.T) {
		h := handlers.NewHealthHandler(map[string]handlers.Pinger{"postgres": down})
		w := doJSON(healthRouter(h), http.MethodGet, "/readyz", "")
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", w.Code)
		}
		if code := decodeError(t, w).Error.Code; code != "not_ready" {
			t.Fatalf("expected not_ready, got %q", code)
		}
	})

	t.Run("shutting down", func(t *testing.T) {
		h := handlers.NewHealthHandler(map[string]handlers.Pinger{"postgres": ok})
		h.MarkShuttingDown()
		if w := doJSON(healthRouter(h), http.MethodGet, "/readyz", ""); w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", w.Code)
		}
		if w := doJSON(healthRouter(h), http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
			t.Fatalf("liveness should stay 200, got %d", w.Code)
		}
	})
}
