// Package httpapi wires the HTTP transport (Gin) to the conversational
// pipeline, middleware, and route handlers. It centralizes cross-cutting
// concerns such as tracing, correlation IDs, logging, panic recovery,
// metrics, and edge rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/vithika-cyber/Calorie-Bot/internal/ai"
	"github.com/vithika-cyber/Calorie-Bot/internal/config"
	"github.com/vithika-cyber/Calorie-Bot/internal/http/handlers"
	"github.com/vithika-cyber/Calorie-Bot/internal/http/middleware"
	"github.com/vithika-cyber/Calorie-Bot/internal/nutrition"
	"github.com/vithika-cyber/Calorie-Bot/internal/orchestrator"
	"github.com/vithika-cyber/Calorie-Bot/internal/ratelimit"
	"github.com/vithika-cyber/Calorie-Bot/internal/repo"
	"github.com/vithika-cyber/Calorie-Bot/internal/router"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), edge rate limiting,
// health and metrics endpoints, and then mounts the versioned public API
// under the configured base path.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Identity from header (feeds the rate-limit key)
//  8. Rate limiter (per user/IP)
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Sender identity for rate-limit keying. Chat adapters forward the
	// platform user in X-User-ID; without it the limiter keys by client IP.
	r.Use(func(c *gin.Context) {
		if v := c.GetHeader("X-User-ID"); v != "" {
			c.Set("userID", v)
		}
		c.Next()
	})

	// 8) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Dependency injection: orchestrator ← collaborators ← config
	aiClient := ai.New(cfg.AI.APIKey, cfg.AI.Model)
	usda := nutrition.NewUSDAClient(cfg.USDA.BaseURL, cfg.USDA.APIKey)
	resolver := nutrition.NewResolver(usda, aiClient)
	intents := router.New(aiClient)
	turnLimiter := ratelimit.New(cfg.UserRateMax, cfg.UserRateWindow)
	store := repo.NewStore(db)

	bot := orchestrator.New(aiClient, intents, resolver, store, turnLimiter)
	bot.HistoryLimit = cfg.HistoryLimit
	bot.HistoryCap = cfg.HistoryCap

	h := handlers.New(bot)

	// Liveness/health
	r.GET("/healthz", h.Health)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.POST("/messages", h.PostMessage)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
