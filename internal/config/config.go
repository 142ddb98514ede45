package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Storage: "postgres" or "memory"
	StorageBackend string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Sessions
	SessionSecret     string
	SessionTTL        time.Duration
	SessionCookieName string
	CookieSecure      bool

	// AI Providers, tried in AIProviders order
	AIProviders []string

	GeminiAPIKey string
	GeminiAPIURL string
	GeminiModel  string

	OpenAIAPIKey string
	OpenAIAPIURL string
	OpenAIModel  string

	DeepSeekAPIKey string
	DeepSeekAPIURL string
	DeepSeekModel  string

	GLMAPIKey string
	GLMAPIURL string
	GLMModel  string

	AITimeout           time.Duration
	AIRequestsPerMinute int

	// Payments
	StripeSecretKey     string
	StripeWebhookSecret string
	PremiumPriceCents   int64
	PremiumProductName  string

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Server
	Port          string
	CORSOrigins   string
	APIRateLimit  int
	AuthRateLimit int

	// Observability
	LogLevel  string
	AppEnv    string
	SentryDSN string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", "postgres")),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "mindjournal"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		SessionSecret:     getEnv("SESSION_SECRET", ""),
		SessionTTL:        parseDuration(getEnv("SESSION_TTL", "720h"), 720*time.Hour),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "mindjournal_session"),
		CookieSecure:      getEnvBool("COOKIE_SECURE", false),

		AIProviders: parseCSV(getEnv("AI_PROVIDER", "gemini,openai")),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiAPIURL: getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIAPIURL: getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o"),

		DeepSeekAPIKey: getEnv("DEEPSEEK_API_KEY", ""),
		DeepSeekAPIURL: getEnv("DEEPSEEK_API_URL", "https://api.deepseek.com/v1/chat/completions"),
		DeepSeekModel:  getEnv("DEEPSEEK_MODEL", "deepseek-chat"),

		GLMAPIKey: getEnv("GLM_API_KEY", ""),
		GLMAPIURL: getEnv("GLM_API_URL", "https://api.z.ai/api/paas/v4/chat/completions"),
		GLMModel:  getEnv("GLM_MODEL", "glm-5"),

		AITimeout:           parseDuration(getEnv("AI_TIMEOUT", "30s"), 30*time.Second),
		AIRequestsPerMinute: getEnvInt("AI_REQUESTS_PER_MINUTE", 30),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		PremiumPriceCents:   int64(getEnvInt("PREMIUM_PRICE_CENTS", 300)),
		PremiumProductName:  getEnv("PREMIUM_PRODUCT_NAME", "MindJournal Premium"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),

		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "http://localhost:5173"),
		APIRateLimit:  getEnvInt("API_RATE_LIMIT", 60),
		AuthRateLimit: getEnvInt("AUTH_RATE_LIMIT", 10),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		AppEnv:    getEnv("APP_ENV", "development"),
		SentryDSN: getEnv("SENTRY_DSN", ""),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// UsesMemoryStore reports whether entries live in process memory instead of Postgres.
func (c *Config) UsesMemoryStore() bool {
	return c.StorageBackend == "memory"
}

func (c *Config) PaymentsEnabled() bool {
	return c.StripeSecretKey != ""
}

func (c *Config) GoogleOAuthEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(p))
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
