package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillup_backend/database"
	"skillup_backend/internal/auth"
	"skillup_backend/internal/config"
	"skillup_backend/internal/email"
	"skillup_backend/internal/events"
	"skillup_backend/internal/handlers"
	"skillup_backend/internal/logger"
	"skillup_backend/internal/middleware"
	"skillup_backend/internal/repositories"
	"skillup_backend/internal/routes"
	"skillup_backend/internal/services"
	"skillup_backend/internal/services/gateway"
	"skillup_backend/internal/validator"
	"skillup_backend/internal/workers"
	"skillup_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Application - собранное приложение: роутер, сервисы и фоновые задачи
type Application struct {
	Router   *gin.Engine
	Services *services.ServiceContainer

	db        *gorm.DB
	cfg       *config.Config
	scheduler *workers.ReminderScheduler
	sweeper   *workers.AbandonmentWorker
	notifier  *services.NotificationServiceImpl
	publisher events.Publisher
	redis     redis.UniversalClient
}

func Run() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.Server.Env, cfg.Server.LogLevel)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(cfg.Server.Env == "development")
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Connect(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Database connected")

	application, err := New(cfg, gormDB)
	if err != nil {
		logger.Fatal("Failed to build application", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		logger.Fatal("Failed to start workers", "error", err)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	application.Close()
	logger.Info("Server stopped")
}

// Option подменяет внешние зависимости (шлюз, почта, Redis, брокер) при сборке
type Option func(*dependencies)

type dependencies struct {
	gateway   gateway.Gateway
	email     email.Provider
	redis     redis.UniversalClient
	publisher events.Publisher
}

func WithGateway(gw gateway.Gateway) Option {
	return func(d *dependencies) { d.gateway = gw }
}

func WithEmailProvider(p email.Provider) Option {
	return func(d *dependencies) { d.email = p }
}

func WithRedis(client redis.UniversalClient) Option {
	return func(d *dependencies) { d.redis = client }
}

func WithPublisher(p events.Publisher) Option {
	return func(d *dependencies) { d.publisher = p }
}

// New собирает зависимости приложения
func New(cfg *config.Config, gormDB *gorm.DB, opts ...Option) (*Application, error) {
	deps := &dependencies{}
	for _, opt := range opts {
		opt(deps)
	}

	if deps.email == nil {
		provider, err := newEmailProvider(cfg)
		if err != nil {
			return nil, fmt.Errorf("email provider: %w", err)
		}
		deps.email = provider
	}
	if deps.redis == nil {
		deps.redis = newRedisClient(cfg)
	}
	if deps.publisher == nil {
		deps.publisher = newPublisher(cfg)
	}
	if deps.gateway == nil {
		deps.gateway = gateway.NewRazorpayService(gateway.RazorpayConfig{
			KeyID:     cfg.Razorpay.KeyID,
			KeySecret: cfg.Razorpay.KeySecret,
			BaseURL:   cfg.Razorpay.BaseURL,
			Timeout:   cfg.GatewayTimeout(),
		})
	}

	scheduler := workers.NewReminderScheduler()
	container, notifier := initializeServices(cfg, deps.email, deps.gateway, deps.redis, deps.publisher, scheduler)

	application := &Application{
		Services:  container,
		db:        gormDB,
		cfg:       cfg,
		scheduler: scheduler,
		notifier:  notifier,
		publisher: deps.publisher,
		redis:     deps.redis,
	}
	application.sweeper = workers.NewAbandonmentWorker(gormDB, container.AbandonmentService, cfg.Abandonment.SweepSpec)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	application.Router = SetupRouter(gormDB, container, handlers.RouteGuards{
		Auth:      middleware.AuthMiddleware(tokens),
		Limiter:   middleware.NewRateLimiter(deps.redis),
		RateLimit: cfg.RateLimit.Requests,
		Window:    cfg.RateLimitWindow(),
	}, cfg.Server.CORSOrigins)

	return application, nil
}

func initializeServices(
	cfg *config.Config,
	emailProvider email.Provider,
	gw gateway.Gateway,
	redisClient redis.UniversalClient,
	publisher events.Publisher,
	scheduler services.ReminderScheduler,
) (*services.ServiceContainer, *services.NotificationServiceImpl) {
	// --- Репозитории ---
	courseRepo := repositories.NewCourseRepository()
	userRepo := repositories.NewUserRepository()
	progressRepo := repositories.NewProgressRepository()
	paymentRepo := repositories.NewPaymentRepository()
	cartRepo := repositories.NewAbandonedCartRepository()

	// --- Сервисы ---
	notifier := services.NewNotificationService(emailProvider, cfg.Email.Async)
	catalog := services.NewCatalogService(courseRepo)
	enrollment := services.NewEnrollmentService(courseRepo, userRepo, progressRepo, notifier, publisher)
	abandonment := services.NewAbandonmentService(cartRepo, userRepo, notifier, scheduler, cfg.ReminderDelay())
	payment := services.NewPaymentService(
		catalog, enrollment, abandonment, notifier, gw,
		newOrderCache(redisClient), publisher,
		paymentRepo, userRepo, courseRepo, progressRepo,
		services.PaymentServiceConfig{
			Currency: cfg.Razorpay.Currency,
			OrderTTL: cfg.OrderTTL(),
		},
	)

	return &services.ServiceContainer{
		CatalogService:      catalog,
		PaymentService:      payment,
		EnrollmentService:   enrollment,
		NotificationService: notifier,
		AbandonmentService:  abandonment,
		EmailProvider:       emailProvider,
	}, notifier
}

// SetupRouter собирает gin-роутер с общими middleware и маршрутами
func SetupRouter(gormDB *gorm.DB, container *services.ServiceContainer, guards handlers.RouteGuards, corsOrigins []string) *gin.Engine {
	baseHandler := handlers.NewBaseHandler(validator.New())
	appHandlers := &handlers.AppHandlers{
		PaymentHandler: handlers.NewPaymentHandler(baseHandler, container.PaymentService, container.AbandonmentService),
		HealthHandler:  handlers.NewHealthHandler(baseHandler),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(corsOrigins))
	router.Use(middleware.DBMiddleware(gormDB))

	routes.RegisterRoutes(router, appHandlers, guards)
	return router
}

// Start запускает фоновые задачи
func (a *Application) Start(ctx context.Context) error {
	return a.sweeper.Start(ctx)
}

// Close останавливает воркеры, дожидается писем и закрывает внешние клиенты
func (a *Application) Close() {
	a.scheduler.Stop()
	a.sweeper.Stop()
	a.notifier.Wait()

	if err := a.Services.EmailProvider.Close(); err != nil {
		logger.Error("Email provider close error", "error", err)
	}
	if err := a.publisher.Close(); err != nil {
		logger.Error("Event publisher close error", "error", err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.Error("Redis close error", "error", err)
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
