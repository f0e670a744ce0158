package server

import (
	"github.com/gin-gonic/gin"

	"agri-backend/internal/shared/auth"
	"agri-backend/internal/shared/config"
	"agri-backend/internal/shared/metrics"
	"agri-backend/internal/shared/server/middleware"
)

const apiBase = "/api/v1"

// RouteRegistrar is implemented by every feature handler.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries the handlers mounted under /api/v1.
type RouterDeps struct {
	Config   config.Config
	Verifier *auth.Verifier
	Limiter  *middleware.RateLimiter
	Handlers []RouteRegistrar
}

// PublicPaths are served without an identity.
var PublicPaths = []string{
	apiBase + "/health",
	apiBase + "/metrics",
	apiBase + "/recommendations",
	apiBase + "/recommendations/options",
	apiBase + "/profile/cities",
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if !deps.Config.IsDevLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	rl := deps.Config.RateLimit
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(middleware.AuthConfig{
			Verifier:    deps.Verifier,
			PublicPaths: PublicPaths,
		}),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: middleware.RecommendGroup,
			Limiter:  deps.Limiter,
			Rules: map[string]middleware.RateLimitRule{
				middleware.GroupDefault:   {Rate: rl.Rate, Burst: rl.Burst},
				middleware.GroupRecommend: {Rate: rl.RecommendRate, Burst: rl.RecommendBurst},
			},
		}),
	)

	api := r.Group(apiBase)
	api.GET("/metrics", metrics.Handler())
	registerMeRoutes(api)
	for _, h := range deps.Handlers {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}
	return r
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
