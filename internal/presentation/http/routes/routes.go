package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sangkips/pedidos-api/internal/config"
	domainRepo "github.com/sangkips/pedidos-api/internal/domain/repository"
	"github.com/sangkips/pedidos-api/internal/presentation/http/handler"
	"github.com/sangkips/pedidos-api/internal/presentation/http/middleware"
	"github.com/sangkips/pedidos-api/pkg/metrics"
	"github.com/sangkips/pedidos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Order     *handler.OrderHandler
	Summary   *handler.SummaryHandler
	Dashboard *handler.DashboardHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Log             *zap.Logger
	Metrics         *metrics.Metrics
}

// Router is the configured engine plus the background workers it owns
type Router struct {
	*gin.Engine
	limiters []*middleware.RateLimiter
}

// Close stops the rate limiter cleanup loops
func (r *Router) Close() {
	for _, l := range r.limiters {
		l.Stop()
	}
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *Router {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log, deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	loginLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Requests: deps.Cfg.LoginLimit.Requests,
		Window:   time.Duration(deps.Cfg.LoginLimit.Duration) * time.Second,
		KeyFunc:  middleware.ByClientIP,
	})
	apiLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Requests: deps.Cfg.RateLimit.Requests,
		Window:   time.Duration(deps.Cfg.RateLimit.Duration) * time.Second,
		KeyFunc:  middleware.ByUserOrIP,
	})

	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		auth.POST("/login", loginLimiter.Middleware(), h.Auth.Login)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(apiLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return &Router{Engine: router, limiters: []*middleware.RateLimiter{loginLimiter, apiLimiter}}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/auth/me", h.Auth.Me)

	pedidos := protected.Group("/pedidos")
	{
		pedidos.GET("", h.Order.List)
		pedidos.POST("", h.Order.Create)
		pedidos.GET("/:id", h.Order.Get)
		pedidos.PUT("/:id", h.Order.Update)
		pedidos.DELETE("/:id", h.Order.Delete)
	}

	resumenes := protected.Group("/resumenes")
	{
		resumenes.GET("", h.Summary.List)
		resumenes.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			Log:  deps.Log,
		}), h.Summary.Create)
		resumenes.GET("/ganancias", h.Summary.Profit)
		resumenes.GET("/ganancias/export", h.Summary.Export)
		resumenes.GET("/:id", h.Summary.Get)
		resumenes.DELETE("/:id", h.Summary.Delete)
	}

	dashboard := protected.Group("/dashboard")
	{
		dashboard.POST("/view", h.Dashboard.View)
		dashboard.POST("/receipt", h.Dashboard.Receipt)
		dashboard.POST("/resumen", h.Dashboard.SaveSummary)
	}
}
