package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/styllobarber/styllobarber-api/internal/config"
	"github.com/styllobarber/styllobarber-api/internal/email"
	appointmentHandler "github.com/styllobarber/styllobarber-api/internal/handler/appointment"
	authHandler "github.com/styllobarber/styllobarber-api/internal/handler/auth"
	availabilityHandler "github.com/styllobarber/styllobarber-api/internal/handler/availability"
	barbershopHandler "github.com/styllobarber/styllobarber-api/internal/handler/barbershop"
	financeHandler "github.com/styllobarber/styllobarber-api/internal/handler/finance"
	healthHandler "github.com/styllobarber/styllobarber-api/internal/handler/health"
	notificationHandler "github.com/styllobarber/styllobarber-api/internal/handler/notification"
	promHandler "github.com/styllobarber/styllobarber-api/internal/handler/prometheus"
	scheduleHandler "github.com/styllobarber/styllobarber-api/internal/handler/schedule"
	userHandler "github.com/styllobarber/styllobarber-api/internal/handler/user"
	"github.com/styllobarber/styllobarber-api/internal/middleware"
	"github.com/styllobarber/styllobarber-api/internal/repository/postgres"
	"github.com/styllobarber/styllobarber-api/internal/router"
	appointmentService "github.com/styllobarber/styllobarber-api/internal/service/appointment"
	authService "github.com/styllobarber/styllobarber-api/internal/service/auth"
	"github.com/styllobarber/styllobarber-api/internal/service/authz"
	availabilityService "github.com/styllobarber/styllobarber-api/internal/service/availability"
	barbershopService "github.com/styllobarber/styllobarber-api/internal/service/barbershop"
	financeService "github.com/styllobarber/styllobarber-api/internal/service/finance"
	notificationService "github.com/styllobarber/styllobarber-api/internal/service/notification"
	scheduleService "github.com/styllobarber/styllobarber-api/internal/service/schedule"
	userService "github.com/styllobarber/styllobarber-api/internal/service/user"
	"github.com/styllobarber/styllobarber-api/internal/worker"
	"github.com/styllobarber/styllobarber-api/pkg/auth"
	"github.com/styllobarber/styllobarber-api/pkg/cache"
	"github.com/styllobarber/styllobarber-api/pkg/logger"
	"github.com/styllobarber/styllobarber-api/pkg/metrics"
	"github.com/styllobarber/styllobarber-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(nil)

	if err := authz.ValidatePolicy(); err != nil {
		log.Fatal(err, "invalid role policy")
	}
	if err := validator.RegisterCustomRules(); err != nil {
		log.Fatal(err, "failed to register validation rules")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	shopRepo := postgres.NewBarbershopRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	hoursRepo := postgres.NewWorkingHoursRepository(db)
	apptRepo := postgres.NewAppointmentRepository(db)
	txnRepo := postgres.NewTransactionRepository(db)
	notifRepo := postgres.NewNotificationRepository(db)

	// Shared infrastructure
	appMetrics := metrics.NewMetrics("styllobarber", "api")
	dayCache := cache.NewDayCache(cfg.Availability.CacheTTL, cfg.Availability.CleanupInterval)

	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
		Issuer:        "styllobarber-api",
	})

	var emailSvc email.Service = email.NoopService{}
	if cfg.SMTP.Host != "" {
		emailSvc = email.NewSMTPService(cfg.SMTP, log)
	}

	// Cross-process cache invalidation, when Redis is configured.
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedisCache(cache.RedisConfig{URL: cfg.Redis.URL}, log.Zerolog())
		if err != nil {
			log.Fatal(err, "failed to connect to Redis")
		}
		defer redisCache.Close()
	}

	// Services
	checker := authz.NewChecker()
	availOpts := []availabilityService.Option{
		availabilityService.WithMetrics(appMetrics),
		availabilityService.WithDefaultStep(cfg.Availability.DefaultStepMinutes),
	}
	if redisCache != nil {
		availOpts = append(availOpts, availabilityService.WithRedisInvalidation(redisCache))
	}
	availSvc := availabilityService.NewService(hoursRepo, apptRepo, userRepo, dayCache, availOpts...)
	notifSvc := notificationService.NewService(notifRepo, userRepo, emailSvc, log)
	apptSvc := appointmentService.NewService(apptRepo, serviceRepo, availSvc, notifSvc, appMetrics)
	authSvc := authService.NewService(userRepo, jwtSvc, emailSvc, log)
	userSvc := userService.NewService(userRepo)
	shopSvc := barbershopService.NewService(shopRepo, serviceRepo)
	schedSvc := scheduleService.NewService(hoursRepo, availSvc)
	finSvc := financeService.NewService(txnRepo, apptRepo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if redisCache != nil {
		invalidator := worker.NewCacheInvalidator(redisCache, dayCache, log.Zerolog())
		go func() {
			if err := invalidator.Start(ctx); err != nil {
				log.Error(err, "cache invalidation subscription stopped")
			}
		}()
	}

	authMW := middleware.NewAuthMiddleware(authSvc, checker)

	r := router.New(log.Zerolog(), authMW, router.Handlers{
		Auth:         authHandler.NewHandler(authSvc),
		Availability: availabilityHandler.NewHandler(availSvc, serviceRepo),
		Appointment:  appointmentHandler.NewHandler(apptSvc, checker),
		Schedule:     scheduleHandler.NewHandler(schedSvc, checker),
		User:         userHandler.NewHandler(userSvc),
		Barbershop:   barbershopHandler.NewHandler(shopSvc),
		Finance:      financeHandler.NewHandler(finSvc),
		Notification: notificationHandler.NewHandler(notifSvc),
		Health:       healthHandler.NewHandler(db),
		Prometheus:   promHandler.New(),
	}, router.Config{
		RateLimit:  rate.Limit(cfg.Server.RateLimitRPS),
		RateBurst:  cfg.Server.RateLimitBurst,
		CORSConfig: middleware.DefaultCORSConfig(),
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}
	log.Info("server exited properly")
}
