package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/analysis"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/insights"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/journal"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/security"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/mindjournal-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdoutHandler := logging.Setup(os.Stdout, cfg.LogLevel)

	if cfg.SessionSecret == "" {
		slog.Error("SESSION_SECRET environment variable is required")
		os.Exit(1)
	}
	if !cfg.UsesMemoryStore() && cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Storage
	var (
		st           store.Store
		logPurger    logging.LogPurger
		pgLogHandler *logging.PGHandler
	)
	if cfg.UsesMemoryStore() {
		slog.Warn("using in-memory storage; data is lost on restart")
		st = store.NewMemoryStore()
	} else {
		if err := database.Connect(cfg); err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		gormStore := store.NewGormStore(database.DB)
		st = gormStore
		logPurger = gormStore

		// PostgreSQL log handler (ERROR+ async batch)
		pgLogHandler = logging.NewPGHandler(gormStore)
		slog.SetDefault(slog.New(logging.NewMultiHandler(stdoutHandler, pgLogHandler)))
	}

	// Session and log cleanup (daily)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(st, logPurger, cleanupDone)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	// Analysis providers
	provider := analysis.NewProviderFromConfig(cfg, collector)
	analyzer := analysis.NewService(provider, analysis.DefaultKeywordAnalyzer(), collector, cfg.AITimeout)
	aggregator := insights.NewAggregator(provider, collector, cfg.AITimeout)

	// Services
	journalService := journal.NewService(st, analyzer, aggregator, security.NewSanitizer())
	authService := services.NewAuthService(st, st, cfg)

	var gateway services.PaymentGateway
	if cfg.PaymentsEnabled() {
		gateway = services.NewStripeGateway(services.StripeConfig{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			PriceCents:    cfg.PremiumPriceCents,
			ProductName:   cfg.PremiumProductName,
		})
	} else {
		slog.Warn("STRIPE_SECRET_KEY not set; subscription features are disabled")
	}
	subscriptionService := services.NewSubscriptionService(st, gateway)

	var oauth services.OAuthProvider
	if cfg.GoogleOAuthEnabled() {
		oauth = services.NewGoogleOAuth(services.GoogleOAuthConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		})
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, oauth, cfg)
	healthHandler := handlers.NewHealthHandler(st, cfg.StorageBackend)
	entryHandler := handlers.NewEntryHandler(journalService)
	insightsHandler := handlers.NewInsightsHandler(journalService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
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
	app.Use(middleware.Metrics(collector))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	// Routes
	routes.Setup(app, cfg, authService, metrics.Handler(registry),
		authHandler, healthHandler, entryHandler, insightsHandler, subscriptionHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "storage", cfg.StorageBackend)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	if pgLogHandler != nil {
		slog.SetDefault(slog.New(stdoutHandler))
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if database.DB != nil {
		if err := database.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error",
			"request_id", c.Locals("requestid"),
			"action", c.Method()+" "+c.Path(),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
