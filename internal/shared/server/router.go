package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/applications"
	"jobboard-backend/internal/resumes"
	"jobboard-backend/internal/services/health"
	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
)

// RouterDeps are the handlers and services the router mounts.
type RouterDeps struct {
	Config             config.Config
	Tokens             middleware.TokenVerifier
	Health             *health.Service
	ResumeHandler      *resumes.Handler
	ApplicationHandler *applications.Handler
	RateLimiter        *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		respond.JSON(c, http.StatusOK, deps.Health.Status(c.Request.Context()))
	})

	authed := api.Group("")
	authed.Use(
		middleware.Auth(deps.Tokens),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    rateLimitRules(deps.Config),
			GroupFor: middleware.UploadGroup,
			Limiter:  deps.RateLimiter,
		}),
	)
	registerMeRoutes(authed)
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(authed)
	}
	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.RegisterRoutes(authed)
	}

	return r
}

func rateLimitRules(cfg config.Config) map[string]middleware.RateLimitRule {
	return map[string]middleware.RateLimitRule{
		"DEFAULT":                       {Rate: 10, Burst: 40},
		middleware.RateLimitGroupUpload: {Rate: float64(cfg.UploadsPerMinute) / time.Minute.Seconds(), Burst: cfg.UploadsPerMinute},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
