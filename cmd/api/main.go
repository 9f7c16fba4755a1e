package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/sleepcoach/backend/internal/api/handlers"
	"github.com/sleepcoach/backend/internal/classify"
	"github.com/sleepcoach/backend/internal/diagnostic"
	"github.com/sleepcoach/backend/internal/metrics"
	"github.com/sleepcoach/backend/internal/middleware/ratelimit"
	"github.com/sleepcoach/backend/internal/middleware/security"
	"github.com/sleepcoach/backend/internal/middleware/validation"
	"github.com/sleepcoach/backend/internal/storage/sqlite"
	"github.com/sleepcoach/backend/pkg/config"
	appLogger "github.com/sleepcoach/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Sleep Coach Diagnostics API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	classifier := buildClassifier(cfg)
	if closer, ok := classifier.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	engine := diagnostic.NewEngine(classifier, appLogger.GetLogger())

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Child-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		IsDevelopment: cfg.Server.Environment == "development",
	}))
	app.Use(limiter.Middleware())
	app.Use(validation.Middleware(validation.Config{
		Logger: appLogger.GetLogger(),
	}))

	diagnosticHandler := handlers.NewDiagnosticHandler(engine, sqliteClient)
	wsHandler := handlers.NewWebSocketHandler(engine)

	api := app.Group("/api/v1")

	api.Post("/diagnostics/evaluate", diagnosticHandler.HandleEvaluate)
	api.Get("/diagnostics/history", diagnosticHandler.GetHistory)
	api.Get("/diagnostics/:id", diagnosticHandler.GetReport)
	api.Post("/diagnostics/:id/feedback", diagnosticHandler.HandleFeedback)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	api.Get("/ws/diagnostics", websocket.New(wsHandler.HandleConnection))

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		if err := sqliteClient.Ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not ready",
			})
		}
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}

// buildClassifier assembles the food classifier chain from config:
// OpenAI wrapped with the Redis cache when both are enabled, degrading
// to the uncached classifier or the noop fallback otherwise. The server
// always starts; classification quality degrades, evaluations do not.
func buildClassifier(cfg *config.Config) classify.Classifier {
	if !cfg.Classifier.Enabled || cfg.Classifier.APIKey == "" {
		appLogger.Warn("Food classifier disabled, solid feedings will stay unclassified")
		return classify.NoopClassifier{}
	}

	openaiClassifier := classify.NewOpenAIClassifier(
		cfg.Classifier.APIKey,
		cfg.Classifier.Model,
		cfg.Classifier.Temperature,
		cfg.Classifier.MaxTokens,
		cfg.Classifier.TimeoutSec,
		cfg.Classifier.BatchConcurrency,
	)

	if !cfg.Redis.Enabled {
		return openaiClassifier
	}

	cached, err := classify.NewCachedClassifier(
		openaiClassifier,
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		time.Duration(cfg.Classifier.CacheTTLHours)*time.Hour,
	)
	if err != nil {
		appLogger.Warn("Classification cache unavailable, calling classifier directly", zap.Error(err))
		return openaiClassifier
	}

	return cached
}
