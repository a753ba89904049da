package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"github.com/nutrisight/nutrisight-go/internal/analysis"
	"github.com/nutrisight/nutrisight-go/internal/config"
	"github.com/nutrisight/nutrisight-go/internal/database"
	"github.com/nutrisight/nutrisight-go/internal/email"
	"github.com/nutrisight/nutrisight-go/internal/handlers"
	"github.com/nutrisight/nutrisight-go/internal/logging"
	"github.com/nutrisight/nutrisight-go/internal/middleware"
	"github.com/nutrisight/nutrisight-go/internal/routes"
	"github.com/nutrisight/nutrisight-go/internal/services"
	"github.com/nutrisight/nutrisight-go/internal/storage"
)

func main() {
	// .env is optional; real deployments set env vars directly
	godotenv.Load()

	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	if cfg.OpenAIAPIKey == "" {
		slog.Warn("OPENAI_API_KEY not set, label analysis will be unavailable")
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Image archive (optional)
	imageStore, err := storage.NewImageStore(cfg)
	if err != nil {
		slog.Error("image store init failed", "error", err)
		os.Exit(1)
	}
	if imageStore == nil {
		slog.Warn("MINIO_ENDPOINT not set, label images will not be archived")
	}

	// Email (optional)
	var sender email.Sender
	if resendClient := email.NewResendClient(cfg); resendClient != nil {
		sender = resendClient
	} else {
		slog.Warn("RESEND_API_KEY not set, low scan emails disabled")
	}

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	profileService := services.NewProfileService(database.DB)
	quotaService := services.NewQuotaService(database.DB, sender)
	subscriptionService := services.NewSubscriptionService(database.DB)
	analyzer := analysis.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIVisionModel)
	scanService := services.NewScanService(database.DB, cfg, analyzer, imageStore, quotaService, profileService, subscriptionService)
	productService := services.NewProductService(database.DB, imageStore)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	scanHandler := handlers.NewScanHandler(scanService)
	healthHandler := handlers.NewHealthHandler()
	webhookHandler := handlers.NewWebhookHandler(subscriptionService, cfg.RevenueCatWebhookToken)
	legalHandler := handlers.NewLegalHandler()
	configHandler := handlers.NewRemoteConfigHandler(database.DB)
	productHandler := handlers.NewProductHandler(productService)
	researchHandler := handlers.NewResearchHandler(analyzer, cfg.AITimeout)

	// Seed default remote config values
	slog.Info("seeding remote config defaults")
	if err := configHandler.SeedDefaults(); err != nil {
		slog.Error("remote config seeding failed", "error", err)
	}

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    8 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, database.DB, authHandler, profileHandler, scanHandler, healthHandler, webhookHandler, legalHandler, configHandler, productHandler, researchHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
