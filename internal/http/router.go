package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/userhub/userhub/internal/accounts"
	"github.com/userhub/userhub/internal/auth"
	"github.com/userhub/userhub/internal/config"
	"github.com/userhub/userhub/internal/http/handlers"
	"github.com/userhub/userhub/internal/http/middlewares"
	"github.com/userhub/userhub/internal/observability"
)

// NewRouter wires middlewares, handlers and routes. The store is either
// the Postgres repo or the in-memory one; ping may be nil.
func NewRouter(log *slog.Logger, cfg config.Config, store accounts.UserStore, ping func() error, prom *observability.Prom, metrics prometheus.Gatherer) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.LimitBody(middlewares.MaxAccountBodyBytes))
	r.Use(otelgin.Middleware("userhub"))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	// health + metrics

	h := handlers.NewHealthHandler(ping)
	r.GET("/health", h.Health)

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics, promhttp.HandlerOpts{})))
	}

	// wire up the account service and its handlers

	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	svc := accounts.NewService(store, tokens)

	accountsHandler := handlers.NewAccountsHandler(svc)
	authMw := middlewares.NewAuthMiddleware(tokens)

	api := r.Group("/api/v1")
	api.POST("/register", accountsHandler.Register)
	api.POST("/login", accountsHandler.Login)

	profile := api.Group("/profile")
	profile.Use(authMw.RequireAuth())
	profile.GET("", accountsHandler.GetProfile)
	profile.PUT("", accountsHandler.UpdateProfile)

	return r
}
