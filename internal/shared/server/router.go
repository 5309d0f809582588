package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobtrack-backend/internal/shared/config"
	"jobtrack-backend/internal/shared/metrics"
	"jobtrack-backend/internal/shared/server/middleware"
	"jobtrack-backend/internal/shared/server/respond"
)

// RouteRegistrar attaches a handler's routes to the API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config              config.Config
	ApplicationsHandler RouteRegistrar
	RemindersHandler    RouteRegistrar
	AnalyticsHandler    RouteRegistrar
	UsersHandler        RouteRegistrar
	MigrationHandler    RouteRegistrar
	GoogleAuth          RouteRegistrar
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(authRateLimits()),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	for _, h := range []RouteRegistrar{
		deps.UsersHandler,
		deps.GoogleAuth,
		deps.ApplicationsHandler,
		deps.RemindersHandler,
		deps.AnalyticsHandler,
		deps.MigrationHandler,
	} {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}

	return r
}

// authRateLimits throttles credential endpoints: 5 attempts per 15 minutes.
func authRateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"AUTH": {Rate: 5.0 / (15 * 60), Burst: 5},
		},
		GroupFor: func(c *gin.Context) string {
			switch c.FullPath() {
			case "/api/v1/auth/login", "/api/v1/auth/register":
				return "AUTH"
			}
			return ""
		},
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
	return ":" + port
}
