package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"flowershop/internal/apperrors"
	"flowershop/internal/cache"
	"flowershop/internal/config"
	"flowershop/internal/database"
	"flowershop/internal/handlers"
	"flowershop/internal/importer"
	"flowershop/internal/logger"
	"flowershop/internal/middleware"
	"flowershop/internal/repositories"
	"flowershop/internal/services"
	"flowershop/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)

	app, cleanup, err := NewApp(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer cleanup()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		zlog.Info("Starting server", zap.String("addr", cfg.AppPort), zap.String("env", cfg.Env))
		if err := app.Listen(cfg.AppPort); err != nil {
			zlog.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-quit
	zlog.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("Error during Fiber shutdown", zap.Error(err))
	}
	zlog.Info("Server gracefully stopped")
}

// NewApp wires storage, cache, events, services and routes. The returned
// cleanup releases every resource NewApp opened.
func NewApp(cfg *config.Config, zlog *zap.Logger) (*fiber.App, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				zlog.Warn("Error releasing resource", zap.Error(err))
			}
		}
	}

	// --- Database ---
	logLevel := gormlogger.Warn
	if cfg.Env == "development" {
		logLevel = gormlogger.Info
	}
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, logLevel)
	if err != nil {
		return nil, nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		closers = append(closers, sqlDB.Close)
	}
	if cfg.DBAutoMigrate {
		if err := database.Migrate(db); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	if err := database.SeedFacets(db); err != nil {
		cleanup()
		return nil, nil, err
	}

	// --- Cache ---
	catalogCache := newCache(cfg, zlog)
	if closer, ok := catalogCache.(interface{ Close() error }); ok {
		closers = append(closers, closer.Close)
	}

	// --- Events ---
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, zlog)
		if err != nil {
			zlog.Warn("RabbitMQ unavailable, events disabled", zap.Error(err))
		} else {
			events = mqClient
			closers = append(closers, mqClient.Close)
			if err := mqClient.ConsumeOrderEvents(rabbitmq.LogOrderEvent(zlog)); err != nil {
				zlog.Warn("Failed to start RabbitMQ consumer", zap.Error(err))
			}
		}
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	// --- Services ---
	productService := services.NewProductService(productRepo, catalogCache, zlog)
	importService := services.NewImportService(
		importer.NewPipeline(db, zlog),
		catalogCache,
		events,
		zlog,
		cfg.UploadDir,
		importer.Options{AutoCreateTags: cfg.ImportAutoCreateTags},
	)
	orderService := services.NewOrderService(orderRepo, productRepo, events, zlog)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		created, err := authService.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if created {
			zlog.Info("Admin account created", zap.String("username", cfg.AdminUsername))
		}
	}

	// --- Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:      "flowershop",
		BodyLimit:    cfg.ImportMaxUploadMB << 20,
		ErrorHandler: apperrors.Handler(zlog),
	})

	// --- Middleware ---
	app.Use(logger.RequestLogger(zlog))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + logger.RequestIDHeader,
	}))

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": events != nil,
		})
	})

	// --- API Routes ---
	api := app.Group("/api")
	admin := middleware.AuthRequired(authService, zlog)

	handlers.NewAuthHandler(authService, zlog).RegisterRoutes(api, admin)
	handlers.NewProductHandler(productService, importService, zlog).RegisterRoutes(api, admin)
	handlers.NewOrderHandler(orderService, zlog).RegisterRoutes(api, admin)

	return app, cleanup, nil
}

// newCache returns Redis when configured and reachable, memory otherwise.
func newCache(cfg *config.Config, zlog *zap.Logger) cache.Cache {
	if cfg.CacheDriver == "redis" {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.CacheTTL)
		if err == nil {
			zlog.Info("Using Redis cache", zap.String("addr", cfg.RedisAddr))
			return redisCache
		}
		zlog.Warn("Redis unavailable, falling back to in-memory cache", zap.Error(err))
	}
	return cache.NewMemoryCache(cfg.CacheTTL)
}
