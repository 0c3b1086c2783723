package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/autobooks/dashboard-bfa-go/internal/config"
	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/handler"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/backend"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/cache"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/observability"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/payments"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/resilience"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/sessioncookie"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/supabase"
	"github.com/autobooks/dashboard-bfa-go/internal/onboarding"
	"github.com/autobooks/dashboard-bfa-go/internal/port"
	"github.com/autobooks/dashboard-bfa-go/internal/service"
	"github.com/autobooks/dashboard-bfa-go/internal/session"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("backend_url", cfg.BackendAPIURL),
		zap.Bool("supabase", cfg.SupabaseURL != ""),
		zap.Bool("redis", cfg.RedisURL != ""),
		zap.Bool("stripe", cfg.StripeSecretKey != ""),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("session_cache_ttl", cfg.SessionCacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Int("document_limit", cfg.DocumentLimit),
		zap.Duration("pairing_timeout", cfg.PairingTimeout),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(context.Background(), "dashboard-bfa", cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}

	// --- Clients ---
	httpClient := &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	be := backend.NewClient(httpClient, cfg.BackendAPIURL, cfg.BackendAPIKey,
		resilience.NewCircuitBreaker("backend", backend.IsClientError), resilienceCfg, logger)
	health := []handler.HealthCheck{{Name: "backend", Ping: be.Ping}}

	// --- Caches ---
	var (
		snapshots port.Cache[domain.UserData]
		pairings  port.Cache[domain.DevicePairing]
	)
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rs, err := cache.NewRedis[domain.UserData](ctx, cfg.RedisURL, "session:", cfg.SessionCacheTTL)
		if err != nil {
			cancel()
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		rp, err := cache.NewRedis[domain.DevicePairing](ctx, cfg.RedisURL, "devices:", cfg.PairingTimeout)
		cancel()
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rs.Close()
		defer rp.Close()
		snapshots, pairings = rs, rp
		health = append(health, handler.HealthCheck{Name: "redis", Ping: rs.Ping})
		logger.Info("using Redis for session and pairing caches")
	} else {
		ms := cache.New[domain.UserData](cfg.SessionCacheTTL)
		mp := cache.New[domain.DevicePairing](cfg.PairingTimeout)
		defer ms.Close()
		defer mp.Close()
		snapshots, pairings = ms, mp
		logger.Info("using in-memory session and pairing caches")
	}

	// --- Services ---
	loader := session.NewLoader(be, snapshots, session.NewState(), metrics, logger)
	plans := domain.Catalog(domain.PlanIDs{
		Essential: cfg.PlanIDEssential,
		Pro:       cfg.PlanIDPro,
		Business:  cfg.PlanIDBusiness,
	})

	rooms := service.NewRoomService(be, loader, logger)
	documents := service.NewDocumentService(be, cfg.DocumentLimit, loader, metrics, logger)
	bookings := service.NewBookingService(be, logger)
	billing := service.NewBillingService(be, plans, loader, logger)
	calendar := service.NewCalendarService(be, service.CalendarConfig{
		ClientID:    cfg.GoogleClientID,
		RedirectURL: cfg.GoogleRedirectURL,
		AuthURL:     cfg.GoogleAuthURL,
		TokenURL:    cfg.GoogleTokenURL,
	}, loader, logger)
	devices := service.NewDeviceService(be, pairings, cfg.PairingTimeout, metrics, logger)

	var verifier port.PaymentVerifier
	if cfg.StripeSecretKey != "" {
		verifier = payments.NewStripeVerifier(cfg.StripeSecretKey, "", httpClient, logger)
	} else {
		logger.Warn("stripe: secret key not configured, payment confirmation unavailable")
	}

	coordinator := onboarding.NewCoordinator(onboarding.Deps{
		Profile:   be,
		Billing:   be,
		Payments:  verifier,
		Documents: documents,
		Rooms:     rooms,
		Sessions:  loader,
		Plans:     plans,
		Metrics:   metrics,
		Logger:    logger,
	})

	cookies, err := sessioncookie.New(cfg.SessionCookieSecret, cfg.SessionCookieSecure)
	if err != nil {
		logger.Fatal("invalid session cookie secret", zap.Error(err))
	}

	svc := handler.Services{
		Tokens:         supabase.NewTokenValidator(cfg.SupabaseJWTSecret),
		Cookies:        cookies,
		Session:        loader,
		Onboarding:     coordinator,
		Rooms:          rooms,
		Documents:      documents,
		Bookings:       bookings,
		Billing:        billing,
		Calendar:       calendar,
		Devices:        devices,
		Health:         health,
		AllowedOrigins: cfg.AllowedOrigins,
	}

	if cfg.SupabaseURL != "" && cfg.SupabaseJWTSecret != "" {
		auth := supabase.NewClient(httpClient, cfg.SupabaseURL, cfg.SupabaseAnonKey,
			resilience.NewCircuitBreaker("supabase", backend.IsClientError), logger)
		svc.Account = service.NewAccountService(be, be, auth, loader, logger, rooms, documents, bookings)
		logger.Info("auth service enabled", zap.String("supabase_url", cfg.SupabaseURL))
	} else {
		logger.Warn("auth service: Supabase not configured, API routes unavailable")
	}

	// --- Router ---
	router := handler.NewRouter(svc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
