package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("PREMIUM_PRICE_CENTS", "")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.StorageBackend)
	assert.False(t, cfg.UsesMemoryStore())
	assert.Equal(t, []string{"gemini", "openai"}, cfg.AIProviders)
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(300), cfg.PremiumPriceCents)
	assert.Equal(t, "mindjournal_session", cfg.SessionCookieName)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Memory")
	t.Setenv("AI_PROVIDER", " DeepSeek , ,glm")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("AI_REQUESTS_PER_MINUTE", "12")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")

	cfg := Load()

	assert.True(t, cfg.UsesMemoryStore())
	assert.Equal(t, []string{"deepseek", "glm"}, cfg.AIProviders)
	assert.Equal(t, 5*time.Second, cfg.AITimeout)
	assert.Equal(t, 12, cfg.AIRequestsPerMinute)
	assert.True(t, cfg.CookieSecure)
	assert.True(t, cfg.PaymentsEnabled())
	assert.False(t, cfg.GoogleOAuthEnabled())
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("AI_TIMEOUT", "soon")
	t.Setenv("API_RATE_LIMIT", "many")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.AITimeout)
	assert.Equal(t, 60, cfg.APIRateLimit)
	assert.False(t, cfg.CookieSecure)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5433", DBSSLMode: "require"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=require TimeZone=UTC", cfg.DSN())
}
