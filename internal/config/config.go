package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port           int
	LogLevel       string
	AllowedOrigins []string

	// External backend (rooms, documents, bookings, billing, devices)
	BackendAPIURL string
	BackendAPIKey string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Session snapshot cache
	SessionCacheTTL time.Duration
	RedisURL        string // empty → in-memory cache

	// Observability
	OTLPEndpoint string

	// Supabase Auth
	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string

	// Browser session cookie
	SessionCookieSecret string
	SessionCookieSecure bool

	// Stripe
	StripeSecretKey string

	// Plans (Stripe price ids)
	PlanIDEssential string
	PlanIDPro       string
	PlanIDBusiness  string

	// Google Calendar OAuth
	GoogleClientID    string
	GoogleRedirectURL string
	GoogleAuthURL     string
	GoogleTokenURL    string

	// Onboarding / devices
	DocumentLimit  int
	PairingTimeout time.Duration
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:           getEnvInt("PORT", 8080),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		BackendAPIURL: getEnv("BACKEND_API_URL", "http://localhost:4000"),
		BackendAPIKey: getEnv("BACKEND_API_KEY", ""),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 2),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		SessionCacheTTL: getEnvDuration("SESSION_CACHE_TTL", 30*time.Second),
		RedisURL:        getEnv("REDIS_URL", ""),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		SupabaseURL:       getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:   getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),

		SessionCookieSecret: getEnv("SESSION_COOKIE_SECRET", "dashboard-default-dev-secret-change-me"),
		SessionCookieSecure: getEnv("SESSION_COOKIE_SECURE", "true") == "true",

		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),

		PlanIDEssential: getEnv("PLAN_ID_ESSENTIAL", "essential_plan"),
		PlanIDPro:       getEnv("PLAN_ID_PRO", "pro_plan"),
		PlanIDBusiness:  getEnv("PLAN_ID_BUSINESS", "business_plan"),

		GoogleClientID:    getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleRedirectURL: getEnv("GOOGLE_REDIRECT_URL", "http://localhost:4000/auth/google/callback"),
		GoogleAuthURL:     getEnv("GOOGLE_AUTH_URL", "https://accounts.google.com/o/oauth2/v2/auth"),
		GoogleTokenURL:    getEnv("GOOGLE_TOKEN_URL", "https://oauth2.googleapis.com/token"),

		DocumentLimit:  getEnvInt("DOCUMENT_LIMIT", 3),
		PairingTimeout: getEnvDuration("PAIRING_TIMEOUT", 30*time.Second),
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
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
