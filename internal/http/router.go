package http

import (
	"errors"
	"log/slog"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/geocoder89/shopapi/internal/apperr"
	"github.com/geocoder89/shopapi/internal/auth"
	"github.com/geocoder89/shopapi/internal/config"
	"github.com/geocoder89/shopapi/internal/http/handlers"
	"github.com/geocoder89/shopapi/internal/http/middlewares"
	"github.com/geocoder89/shopapi/internal/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	ServiceName = "shop-api"

	// per client IP across the whole API
	GlobalRateLimit  = 100
	GlobalRateWindow = time.Minute

	loginFailureLimit  = 5
	loginFailureWindow = 15 * time.Minute
)

type Tokens interface {
	handlers.TokenIssuer
	middlewares.TokenVerifier
}

type Deps struct {
	Log    *slog.Logger
	Cfg    config.Config
	Users  handlers.UserStore
	Tokens Tokens
	// Prom may be nil; metrics are then neither recorded nor served.
	Prom   *observability.Prom
	Health *handlers.HealthHandler
	// RateLimitStore defaults to an in-memory store.
	RateLimitStore ratelimit.Store
}

func NewRouter(d Deps) (*gin.Engine, error) {
	if d.Users == nil || d.Tokens == nil {
		return nil, errors.New("router: users and tokens are required")
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Health == nil {
		d.Health = handlers.NewHealthHandler(nil)
	}
	if d.RateLimitStore == nil {
		d.RateLimitStore = middlewares.NewRateLimitStore(nil, GlobalRateLimit, GlobalRateWindow)
	}

	switch d.Cfg.Env {
	case config.EnvDev:
		gin.SetMode(gin.DebugMode)
	case config.EnvTest:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	docs, err := handlers.NewDocsHandler()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	authMW := middlewares.NewAuthMiddleware(d.Tokens, d.Prom)

	// Outer layers observe the final status, so they sit outside ErrorHandler.
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware(ServiceName))
	r.Use(middlewares.RequestLogger(d.Log))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.Compression())
	r.Use(middlewares.ErrorHandler(d.Log, d.Cfg.Env))
	r.Use(middlewares.Recovery())

	r.Use(middlewares.SecurityHeaders())
	// CORS answers pre-flights before the gate sees them.
	r.Use(middlewares.CORSMiddleware(d.Cfg.CORSOrigins))
	r.Use(middlewares.GlobalRateLimit(d.RateLimitStore))
	r.Use(authMW.Gate())
	// body shape is only checked once the caller is known
	r.Use(middlewares.MaxBodyBytes(middlewares.DefaultMaxBodyBytes))
	r.Use(middlewares.RequireJSON())

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, apperr.NotFound("Route not found"))
	})

	// ops
	r.GET("/healthz", d.Health.Healthz)
	r.GET("/readyz", d.Health.Readyz)
	if d.Prom != nil {
		r.GET("/metrics", gin.WrapH(d.Prom.Handler()))
	}

	// docs
	r.GET("/api-docs.json", docs.OpenAPI)
	r.GET("/api-docs", docs.Redirect)
	r.GET("/api-docs/*any", docs.UI)

	index := handlers.NewIndexHandler()
	r.GET("/", index.Root)
	r.GET("/api", index.API)
	r.GET("/api/users", index.Users)

	authHandler := handlers.NewAuthHandler(d.Users, d.Tokens, d.Prom)
	loginLimiter := middlewares.NewRateLimiter(loginFailureLimit, loginFailureWindow, true)

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login",
			loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP, "Too many login attempts, please try again later"),
			authHandler.Login,
		)
	}

	me := handlers.NewMeHandler(d.Users)
	meGroup := r.Group("/api/users/me")
	{
		meGroup.GET("", me.Get)
		meGroup.PATCH("", me.Update)
		meGroup.DELETE("", me.Delete)
	}

	// the gate already enforces the admin role for this prefix
	admin := handlers.NewAdminUsersHandler(d.Users)
	adminGroup := r.Group("/api/admin/users")
	{
		adminGroup.GET("", admin.List)
		adminGroup.GET("/:id", admin.Get)
		adminGroup.PATCH("/:id", admin.Update)
		adminGroup.DELETE("/:id", admin.Delete)
	}

	return r, nil
}

// compile-time check that the token manager fits the router.
var _ Tokens = (*auth.Manager)(nil)
