package api

import (
	"context"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/campneus/cofre/docs"
	"github.com/campneus/cofre/internal/api/handler"
	"github.com/campneus/cofre/internal/api/middleware"
	"github.com/campneus/cofre/internal/core/policy"
	"github.com/campneus/cofre/internal/core/secret"
	"github.com/campneus/cofre/internal/core/service"
	mongodb "github.com/campneus/cofre/internal/infrastructure/db/mongo"
	redisdb "github.com/campneus/cofre/internal/infrastructure/db/redis"
	"github.com/campneus/cofre/internal/infrastructure/queue"
	"github.com/campneus/cofre/pkg/logger"
)

// RouterConfig carries the settings the router needs beyond its connections.
type RouterConfig struct {
	JWTSecret          string
	TokenTTL           time.Duration
	MaxLoginAttempts   int64
	LoginAttemptWindow time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
// ctx bounds the lifetime of background workers; cancel it on shutdown.
func NewRouter(ctx context.Context, db *mongo.Database, rdb *redis.Client, codec secret.Codec, cfg RouterConfig) *echo.Echo {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("vault"))

	// --- Repositories ---
	credentialRepo := mongodb.NewCredentialRepository(db)
	locationRepo := mongodb.NewLocationRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	throttle := redisdb.NewLoginThrottle(rdb, cfg.MaxLoginAttempts, cfg.LoginAttemptWindow)

	// --- Background workers ---
	accessDispatcher := queue.NewAccessDispatcher(0, userRepo, log)
	accessDispatcher.Start(ctx)

	// --- Services ---
	authService := service.NewAuthService(userRepo, throttle, cfg.JWTSecret, cfg.TokenTTL, log).
		WithAccessRecorder(accessDispatcher)
	credentialService := service.NewCredentialService(credentialRepo, locationRepo, codec, log)
	locationService := service.NewLocationService(locationRepo, credentialRepo, log)
	userService := service.NewUserService(userRepo, log)
	statsService := service.NewStatsService(credentialRepo, locationRepo, userRepo)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	credentialHandler := handler.NewCredentialHandler(credentialService)
	locationHandler := handler.NewLocationHandler(locationService)
	userHandler := handler.NewUserHandler(userService)
	dashboardHandler := handler.NewDashboardHandler(statsService)

	authed := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(policy.RoleAdmin)

	// --- Auth ---
	e.POST("/auth/login", authHandler.Login)
	e.PUT("/auth/password", authHandler.ChangePassword, authed)

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Credentials ---
	credentials := e.Group("/credentials", authed)
	credentials.GET("", credentialHandler.List)
	credentials.GET("/expiring", credentialHandler.Expiring)
	credentials.GET("/:id", credentialHandler.Get)
	credentials.GET("/:id/secret", credentialHandler.RevealSecret, adminOnly)
	credentials.POST("", credentialHandler.Create, adminOnly)
	credentials.PUT("/:id", credentialHandler.Update, adminOnly)
	credentials.DELETE("/:id", credentialHandler.Delete, adminOnly)

	// --- Locations ---
	locations := e.Group("/locations", authed)
	locations.GET("", locationHandler.List)
	locations.GET("/:id", locationHandler.Get)
	locations.POST("", locationHandler.Create, adminOnly)
	locations.PUT("/:id", locationHandler.Update, adminOnly)
	locations.DELETE("/:id", locationHandler.Delete, adminOnly)

	// --- Users (admin only) ---
	users := e.Group("/users", authed, adminOnly)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.POST("", userHandler.Create)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)
	users.PATCH("/:id/status", userHandler.SetStatus)

	// --- Dashboard ---
	e.GET("/dashboard/stats", dashboardHandler.Stats, authed)

	return e
}
