package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/nutrisight/nutrisight-go/internal/config"
	"github.com/nutrisight/nutrisight-go/internal/handlers"
	"github.com/nutrisight/nutrisight-go/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	scanHandler *handlers.ScanHandler,
	healthHandler *handlers.HealthHandler,
	webhookHandler *handlers.WebhookHandler,
	legalHandler *handlers.LegalHandler,
	configHandler *handlers.RemoteConfigHandler,
	productHandler *handlers.ProductHandler,
	researchHandler *handlers.ResearchHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Remote Config (public)
	api.Get("/config", configHandler.GetConfig)

	// Legal pages
	api.Get("/legal/privacy", legalHandler.PrivacyPolicy)
	api.Get("/legal/terms", legalHandler.TermsOfService)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/apple", authHandler.AppleSignIn)

	// Protected auth routes (applied per-route so the public auth group
	// above stays public)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Profile and onboarding gate (protected)
	profile := api.Group("/profile", middleware.JWTProtected(cfg))
	profile.Get("/status", profileHandler.Status)
	profile.Get("/", profileHandler.Get)
	profile.Post("/", profileHandler.CompleteOnboarding)
	profile.Post("/skip", profileHandler.SkipOnboarding)
	profile.Post("/terms", profileHandler.AcceptTerms)
	profile.Delete("/consent", profileHandler.RevokeConsent)

	// Scans (protected)
	scans := api.Group("/scans", middleware.JWTProtected(cfg))
	scans.Get("/eligibility", scanHandler.Eligibility)
	scans.Post("/premium", scanHandler.AnalyzePremium)
	scans.Get("/stats", scanHandler.Stats)
	scans.Post("/", scanHandler.Analyze)
	scans.Get("/", scanHandler.List)
	scans.Get("/:id", scanHandler.GetByID)

	// Community product catalog (protected)
	products := api.Group("/products", middleware.JWTProtected(cfg))
	products.Get("/search", productHandler.Search)
	products.Post("/", productHandler.Submit)
	products.Post("/:id/ratings", productHandler.Rate)
	products.Get("/:id", productHandler.GetByID)

	// Research evidence (protected)
	api.Post("/research/analyze", middleware.JWTProtected(cfg), researchHandler.Analyze)

	// Admin config management (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Put("/config/:key", configHandler.SetConfigKey)
	admin.Delete("/config/:key", configHandler.DeleteConfigKey)

	// Webhooks — token auth, no JWT
	webhooks := api.Group("/webhooks")
	webhooks.Post("/revenuecat", webhookHandler.HandleRevenueCat)
}
