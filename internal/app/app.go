package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"beautybook/internal/config"
	"beautybook/internal/domain/admin"
	"beautybook/internal/domain/auth"
	"beautybook/internal/domain/booking"
	"beautybook/internal/domain/catalog"
	"beautybook/internal/domain/notification"
	"beautybook/internal/domain/wallet"
	"beautybook/internal/middleware"
	"beautybook/internal/pkg/cache"
	"beautybook/internal/pkg/jwt"
	"beautybook/internal/pkg/logger"
	"beautybook/internal/pkg/mailer"
	"beautybook/internal/pkg/metrics"
	"beautybook/internal/pkg/response"
)

// Options are the infrastructure pieces the API is built on.
type Options struct {
	Config   *config.Config
	DB       *gorm.DB
	Log      *logger.Logger
	Registry *prometheus.Registry
	Cache    cache.Cache
	Mail     mailer.Sender
	// Publisher enables the kafka sink when set.
	Publisher notification.Publisher
}

// App is the wired API: services plus the gin router.
type App struct {
	Router     *gin.Engine
	Auth       *auth.Service
	Bookings   *booking.Service
	Dispatcher *notification.Dispatcher
	Hub        *notification.Hub
	Metrics    *metrics.Metrics
}

func New(opts Options) *App {
	cfg := opts.Config
	log := opts.Log
	m := metrics.New(opts.Registry)

	tokens := jwt.New(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)

	// notifications
	hub := notification.NewHub()
	sinks := []notification.Sink{
		notification.NewEmailSink(opts.Mail),
		notification.NewHubSink(hub),
	}
	if opts.Publisher != nil {
		sinks = append(sinks, notification.NewKafkaSink(opts.Publisher))
	}
	dispatcher := notification.NewDispatcher(log.With("component", "notifications"), m, sinks...)

	// services
	authService := auth.NewService(
		auth.NewUserRepository(opts.DB),
		tokens,
		mailer.NewVerificationMailer(opts.Mail),
		auth.Config{
			CodePepper:     cfg.Auth.VerificationCodePepper,
			CodeTTL:        cfg.Auth.VerifyCodeTTL,
			ResendCooldown: cfg.Auth.VerifyResendCooldown,
			MaxAttempts:    cfg.Auth.VerifyMaxAttempts,
			ExposeDevCode:  !cfg.IsProduction(),
		},
		log,
		m,
	)

	slotCache := catalog.NewSlotCache(opts.Cache, cfg.Redis.SlotsTTL, log, m)
	catalogService := catalog.NewService(catalog.NewRepository(opts.DB), slotCache, log)
	bookingService := booking.NewService(booking.NewBookingRepository(opts.DB), slotCache, dispatcher, log, m)
	walletService := wallet.NewService(opts.DB, wallet.NewHMACVerifier(cfg.Payments.WebhookSecret), log)
	adminService := admin.NewService(opts.DB, bookingService)

	// handlers
	authHandler := auth.NewHandler(authService)
	catalogHandler := catalog.NewHandler(catalogService)
	bookingHandler := booking.NewHandler(bookingService)
	walletHandler := wallet.NewHandler(walletService)
	adminHandler := admin.NewHandler(adminService)
	wsHandler := notification.NewWSHandler(hub, tokens, log, cfg.CORSAllowedOrigins)

	authLimiter := middleware.NewIPRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(cfg.Limits.AuthRPS),
		Burst: cfg.Limits.AuthBurst,
	}, m)

	r := gin.New()
	r.Use(middleware.RequestLogger(log, m))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", healthHandler(opts.DB))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		// public
		authHandler.RegisterPublicRoutes(api, authLimiter.RateLimit())
		catalogHandler.RegisterRoutes(api)
		walletHandler.RegisterPublicRoutes(api)
		wsHandler.RegisterRoutes(api)

		protected := api.Group("", middleware.JWTAuth(tokens))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			walletHandler.RegisterRoutes(protected)
		}

		salon := protected.Group("", middleware.SalonOrAdmin())
		{
			catalogHandler.RegisterOwnerRoutes(salon)
			bookingHandler.RegisterSalonRoutes(salon)
		}

		adminGroup := protected.Group("", middleware.AdminOnly())
		{
			walletHandler.RegisterAdminRoutes(adminGroup)
			adminHandler.RegisterRoutes(adminGroup.Group("/admin"))
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})

	return &App{
		Router:     r,
		Auth:       authService,
		Bookings:   bookingService,
		Dispatcher: dispatcher,
		Hub:        hub,
		Metrics:    m,
	}
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database is unreachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
