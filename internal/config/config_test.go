package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CODE_TTL", "")
	t.Setenv("JWT_EXPIRY", "")

	cfg := Load()

	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, 10*time.Minute, cfg.CodeTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "bcrypt", cfg.PasswordHasher)
	assert.Equal(t, "verification_codes", cfg.DynamoTables.VerificationCodes)
}

func TestLoad_DurationFormats(t *testing.T) {
	t.Setenv("CODE_TTL", "90s")
	t.Setenv("JWT_EXPIRY", "3600")

	cfg := Load()

	assert.Equal(t, 90*time.Second, cfg.CodeTTL)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("CODE_TTL", "soon")
	assert.Equal(t, 10*time.Minute, Load().CodeTTL)
}

func TestLoad_AllowedOriginsSplit(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, Load().AllowedOrigins)
}

func TestLoad_NonPositiveDurationsFallBack(t *testing.T) {
	t.Setenv("CODE_TTL", "0")
	t.Setenv("JWT_EXPIRY", "-5m")
	t.Setenv("VERIFY_TOKEN_EXPIRY", "0s")

	cfg := Load()

	assert.Equal(t, 10*time.Minute, cfg.CodeTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, time.Hour, cfg.VerifyTokenExpiry)
}

func TestLoad_ProxyTrustAndAttempts(t *testing.T) {
	t.Setenv("TRUST_PROXY_HEADERS", "")
	t.Setenv("CODE_MAX_ATTEMPTS", "")
	cfg := Load()
	assert.False(t, cfg.TrustProxyHeaders)
	assert.Equal(t, 5, cfg.CodeMaxAttempts)

	t.Setenv("TRUST_PROXY_HEADERS", "true")
	t.Setenv("CODE_MAX_ATTEMPTS", "3")
	cfg = Load()
	assert.True(t, cfg.TrustProxyHeaders)
	assert.Equal(t, 3, cfg.CodeMaxAttempts)
}
