package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	JWTSecret         string
	JWTExpiry         time.Duration
	VerifyTokenExpiry time.Duration // lifetime of the email-verification-only token

	CodeTTL         time.Duration
	CodeMaxAttempts int    // wrong submissions before a code is burned
	PasswordHasher  string // "bcrypt" | "argon2id"

	MailProvider     string // "smtp" | "mailersend" | "log"
	MailFrom         string
	MailFromName     string
	SMTPHost         string
	SMTPPort         string
	SMTPUsername     string
	SMTPPassword     string
	MailerSendAPIKey string

	SNSRegion   string
	SNSTopicARN string
	NATSURL     string

	AllowedOrigins []string // CORS allowed origins
	// TrustProxyHeaders keys rate limiting on X-Forwarded-For / X-Real-IP. Only
	// enable behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Accounts          string
	AccountEmails     string
	VerificationCodes string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Accounts:          getEnv("DYNAMO_TABLE_ACCOUNTS", "accounts"),
			AccountEmails:     getEnv("DYNAMO_TABLE_ACCOUNT_EMAILS", "account_emails"),
			VerificationCodes: getEnv("DYNAMO_TABLE_VERIFICATION_CODES", "verification_codes"),
		},
		// No default: an empty secret must stop the process at startup.
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTExpiry:         positiveDuration(getEnvDuration("JWT_EXPIRY", 7*24*time.Hour), 7*24*time.Hour),
		VerifyTokenExpiry: positiveDuration(getEnvDuration("VERIFY_TOKEN_EXPIRY", time.Hour), time.Hour),
		CodeTTL:           positiveDuration(getEnvDuration("CODE_TTL", 10*time.Minute), 10*time.Minute),
		CodeMaxAttempts:   getEnvInt("CODE_MAX_ATTEMPTS", 5),
		PasswordHasher:    getEnv("PASSWORD_HASHER", "bcrypt"),
		MailProvider:      getEnv("MAIL_PROVIDER", "smtp"),
		MailFrom:          getEnv("MAIL_FROM", "noreply@example.com"),
		MailFromName:      getEnv("MAIL_FROM_NAME", "Ride Accounts"),
		SMTPHost:          getEnv("SMTP_HOST", "localhost"),
		SMTPPort:          getEnv("SMTP_PORT", "1025"),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		MailerSendAPIKey:  getEnv("MAILERSEND_API_KEY", ""),
		SNSRegion:         getEnv("SNS_REGION", "us-east-1"),
		SNSTopicARN:       getEnv("SNS_TOPIC_ARN", ""),
		NATSURL:           getEnv("NATS_URL", ""),
		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// positiveDuration replaces zero and negative durations with fallback.
func positiveDuration(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// getEnvDuration accepts Go duration strings ("10m") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n := getEnvInt(key, -1); n >= 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}
