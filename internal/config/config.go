package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	BlobBasePath string
	FileSignKey  string
	FileURLTTL   time.Duration

	SessionSecret string

	// bcrypt hash of the shared admin secret. Empty means no admin
	// access at all: the admin routes deny rather than fall back to a
	// default credential.
	AdminSecretHash string

	StripeSecretKey     string
	StripeWebhookSecret string

	ResendAPIKey string
	EmailFrom    string
	CheckoutURL  string

	CORSOrigins []string

	LogLevel string
	LogJSON  bool
	LogFile  string
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	pub := strings.TrimSuffix(envOr("PUBLIC_URL", "http://localhost:8080"), "/")
	return Config{
		HTTPAddr:  addr,
		PublicURL: pub,

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),
		FileSignKey:  envOr("FILE_SIGN_KEY", ""),
		FileURLTTL:   envDuration("FILE_URL_TTL", 15*time.Minute),

		SessionSecret: envOr("SESSION_SECRET", "dev-session-secret"),

		AdminSecretHash: os.Getenv("ADMIN_SECRET_HASH"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    envOr("EMAIL_FROM", "QuizForge <noreply@quizforge.dev>"),
		CheckoutURL:  envOr("CHECKOUT_URL", pub+"/quizzes/"),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000"),

		LogLevel: envOr("LOG_LEVEL", "info"),
		LogJSON:  envBool("LOG_JSON", false),
		LogFile:  envOr("LOG_FILE", ""),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func csvOr(key, def string) []string {
	raw := envOr(key, def)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
