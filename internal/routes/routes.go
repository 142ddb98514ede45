package routes

import (
	"net/http"
	"time"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authService *services.AuthService,
	metricsHandler http.Handler,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	entryHandler *handlers.EntryHandler,
	insightsHandler *handlers.InsightsHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
) {
	// Prometheus scrape endpoint, outside the API rate limit
	app.Get("/metrics", adaptor.HTTPHandler(metricsHandler))

	api := app.Group("/api")

	// General API rate limit per IP
	api.Use(limiter.New(limiter.Config{
		Max:               cfg.APIRateLimit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	sessionRequired := middleware.SessionRequired(cfg, authService)

	// Credential endpoints get a stricter per-IP limit
	credentialLimit := limiter.New(limiter.Config{
		Max:               cfg.AuthRateLimit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})

	auth := api.Group("/auth")
	auth.Post("/signup", credentialLimit, authHandler.Signup)
	auth.Post("/login", credentialLimit, authHandler.Login)
	auth.Get("/google", credentialLimit, authHandler.Google)
	auth.Get("/google/callback", credentialLimit, authHandler.GoogleCallback)
	auth.Get("/user", sessionRequired, authHandler.CurrentUser)
	auth.Get("/logout", authHandler.Logout)
	auth.Post("/logout", authHandler.LogoutJSON)

	// Journal entries. /starred is registered before /:id.
	entries := api.Group("/entries", sessionRequired)
	entries.Get("/", entryHandler.List)
	entries.Get("/starred", entryHandler.Starred)
	entries.Get("/:id", entryHandler.Get)
	entries.Post("/", entryHandler.Create)
	entries.Put("/:id", entryHandler.Update)
	entries.Delete("/:id", entryHandler.Delete)
	entries.Patch("/:id/star", entryHandler.ToggleStar)
	entries.Patch("/:id/clarity", entryHandler.SetClarity)

	// Premium
	api.Get("/insights", sessionRequired, middleware.SubscriptionRequired(), insightsHandler.Overview)

	// Payments. The webhook is authenticated by its signature, not a session.
	subs := api.Group("/subscriptions")
	subs.Post("/webhook", subscriptionHandler.Webhook)
	subs.Post("/create-checkout", sessionRequired, subscriptionHandler.CreateCheckout)
	subs.Get("/status", sessionRequired, subscriptionHandler.Status)
}
