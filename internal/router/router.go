package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/styllobarber/styllobarber-api/internal/handler/appointment"
	"github.com/styllobarber/styllobarber-api/internal/handler/auth"
	"github.com/styllobarber/styllobarber-api/internal/handler/availability"
	"github.com/styllobarber/styllobarber-api/internal/handler/barbershop"
	"github.com/styllobarber/styllobarber-api/internal/handler/finance"
	"github.com/styllobarber/styllobarber-api/internal/handler/health"
	"github.com/styllobarber/styllobarber-api/internal/handler/notification"
	promhandler "github.com/styllobarber/styllobarber-api/internal/handler/prometheus"
	"github.com/styllobarber/styllobarber-api/internal/handler/schedule"
	"github.com/styllobarber/styllobarber-api/internal/handler/user"
	"github.com/styllobarber/styllobarber-api/internal/middleware"
	"github.com/styllobarber/styllobarber-api/internal/model"
)

type Config struct {
	RateLimit  rate.Limit
	RateBurst  int
	Timeout    time.Duration
	CORSConfig middleware.CORSConfig
}

type Handlers struct {
	Auth         *auth.Handler
	Availability *availability.Handler
	Appointment  *appointment.Handler
	Schedule     *schedule.Handler
	User         *user.Handler
	Barbershop   *barbershop.Handler
	Finance      *finance.Handler
	Notification *notification.Handler
	Health       *health.Handler
	Prometheus   *promhandler.Handler
}

type Router struct {
	engine   *gin.Engine
	authMW   *middleware.AuthMiddleware
	handlers Handlers
}

func New(log *zerolog.Logger, authMW *middleware.AuthMiddleware, handlers Handlers, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.ErrorHandler(log),
		handlers.Prometheus.Middleware(),
		middleware.Timeout(config.Timeout),
		middleware.CORS(config.CORSConfig),
	)

	if config.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(limiter.RateLimit())
	}

	return &Router{
		engine:   engine,
		authMW:   authMW,
		handlers: handlers,
	}
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.handlers.Health.RegisterRoutes(api)
	api.GET("/metrics", r.handlers.Prometheus.Handler())

	// Public: login, register, refresh.
	r.handlers.Auth.RegisterRoutes(api)

	// Everything below requires a valid session.
	protected := api.Group("")
	protected.Use(r.authMW.Authenticate())

	r.handlers.Availability.RegisterRoutes(protected)
	r.handlers.Appointment.RegisterRoutes(protected)
	r.handlers.Schedule.RegisterRoutes(protected)
	r.handlers.Notification.RegisterRoutes(protected)
	r.handlers.User.RegisterPublicRoutes(protected)
	r.handlers.Barbershop.RegisterCatalogRoutes(protected, r.authMW)
	r.handlers.Finance.RegisterRoutes(protected, r.authMW)

	// Staff administration.
	admin := protected.Group("")
	admin.Use(r.authMW.RequirePermission(model.PermManageUsers))
	r.handlers.User.RegisterRoutes(admin)

	// Tenant administration is the platform owner's alone.
	owner := protected.Group("")
	owner.Use(r.authMW.RequireRole(model.RoleSaasOwner))
	r.handlers.Barbershop.RegisterRoutes(owner)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
