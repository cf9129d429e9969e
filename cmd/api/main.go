package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/geocoder89/shopapi/internal/auth"
	"github.com/geocoder89/shopapi/internal/config"
	"github.com/geocoder89/shopapi/internal/db"
	httpx "github.com/geocoder89/shopapi/internal/http"
	"github.com/geocoder89/shopapi/internal/http/handlers"
	"github.com/geocoder89/shopapi/internal/http/middlewares"
	"github.com/geocoder89/shopapi/internal/observability"
	"github.com/geocoder89/shopapi/internal/redisclient"
	"github.com/geocoder89/shopapi/internal/repo/postgres"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// Load the config set up; a bad env stops us before we listen.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx := context.Background()

	shutdownTracer, err := observability.InitTracer(ctx, httpx.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := config.WithTimeout(5 * time.Second)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	if cfg.RunMigrations {
		if err := db.Migrate(cfg.DBURL); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	pool, err := db.NewPool(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	prom := observability.NewProm(prometheus.NewRegistry())
	users := postgres.NewUsersRepo(pool, prom)

	tokens, err := auth.NewManager(auth.Options{
		Secret:   cfg.JWTSecret,
		TTL:      cfg.JWTTTL.Std(),
		Audience: cfg.JWTAudience,
		Issuer:   cfg.JWTIssuer,
	})
	if err != nil {
		return err
	}

	seedCtx, cancelSeed := config.WithTimeout(5 * time.Second)
	created, err := db.EnsureAdminUser(seedCtx, users, cfg)
	cancelSeed()
	if err != nil {
		return err
	}
	if created {
		log.Info("bootstrap admin created", "email", cfg.AdminEmail)
	}

	deps := map[string]handlers.Pinger{"postgres": pool}

	var store ratelimit.Store
	if cfg.RedisAddr != "" {
		rc := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rc.Close()

		pingCtx, cancelPing := config.WithTimeout(2 * time.Second)
		err := rc.Ping(pingCtx)
		cancelPing()
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}

		store = middlewares.NewRateLimitStore(rc.Raw(), httpx.GlobalRateLimit, httpx.GlobalRateWindow)
		deps["redis"] = rc
	}

	health := handlers.NewHealthHandler(deps)

	router, err := httpx.NewRouter(httpx.Deps{
		Log:            log,
		Cfg:            cfg,
		Users:          users,
		Tokens:         tokens,
		Prom:           prom,
		Health:         health,
		RateLimitStore: store,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-stop:
	}

	log.Info("server shutting down")
	health.MarkShuttingDown()

	shutdownCtx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
		return err
	}

	log.Info("shutdown complete")
	return nil
}
