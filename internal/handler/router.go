package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/observability"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/sessioncookie"
	"github.com/autobooks/dashboard-bfa-go/internal/onboarding"
	"github.com/autobooks/dashboard-bfa-go/internal/port"
	"github.com/autobooks/dashboard-bfa-go/internal/service"
	"github.com/autobooks/dashboard-bfa-go/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// HealthCheck is one dependency probed by /healthz.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// Services groups what the router serves. A nil field leaves its routes
// unmounted, which answers 503.
type Services struct {
	Tokens     port.TokenValidator
	Cookies    *sessioncookie.Sealer
	Session    *session.Loader
	Account    *service.AccountService
	Onboarding *onboarding.Coordinator
	Rooms      *service.RoomService
	Documents  *service.DocumentService
	Bookings   *service.BookingService
	Billing    *service.BillingService
	Calendar   *service.CalendarService
	Devices    *service.DeviceService
	Health     []HealthCheck

	AllowedOrigins []string
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc Services, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger, metrics))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   svc.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Confirm", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svc.Health, logger))
	r.Get("/readyz", readyzHandler())
	if metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	}

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		if metrics != nil {
			r.Get("/metrics/onboarding", onboardingMetricsHandler(metrics))
		}

		// =============================================
		// Público
		// =============================================
		if svc.Billing != nil {
			r.Get("/plans", listPlansHandler(svc.Billing))
			r.Get("/payment-status", paymentStatusHandler(svc.Billing))
		}

		if svc.Account == nil {
			r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusServiceUnavailable, "auth service unavailable: Supabase not configured")
			}))
			return
		}

		r.Post("/auth/register", authRegisterHandler(svc.Account, svc.Cookies, logger))
		r.Post("/auth/login", authLoginHandler(svc.Account, svc.Cookies, logger))
		r.Post("/auth/password/reset-email", authResetEmailHandler(svc.Account, logger))

		// =============================================
		// Protegido (Bearer ou cookie de sessão)
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(svc.Tokens, svc.Cookies, logger))

			r.Post("/auth/logout", authLogoutHandler(svc.Account, svc.Cookies, logger))
			r.Put("/auth/password", authUpdatePasswordHandler(svc.Account, logger))
			r.Put("/profile", updateProfileHandler(svc.Account, logger))

			if svc.Session != nil {
				r.Get("/session", getSessionHandler(svc.Session, logger))
				r.Post("/session/refresh", refreshSessionHandler(svc.Session, logger))
			}

			if c := svc.Onboarding; c != nil {
				r.Route("/onboarding", func(r chi.Router) {
					r.Get("/", onboardingResumeHandler(c, logger))
					r.Post("/plan", onboardingPlanHandler(c, logger))
					r.Post("/payment/confirm", onboardingPaymentHandler(c, logger))
					r.Post("/documents", onboardingDocumentsHandler(c, logger))
					r.Post("/finish", onboardingFinishHandler(c, logger))
				})
			}

			if svc.Rooms != nil {
				r.Get("/rooms", listRoomsHandler(svc.Rooms, logger))
				r.Post("/rooms", createRoomHandler(svc.Rooms, logger))
				r.Put("/rooms/{roomId}", updateRoomHandler(svc.Rooms, logger))
				r.Delete("/rooms/{roomId}", deleteRoomHandler(svc.Rooms, logger))
			}

			if svc.Documents != nil {
				r.Get("/documents", listDocumentsHandler(svc.Documents, logger))
				r.Post("/documents", uploadDocumentsHandler(svc.Documents, logger))
				r.Delete("/documents/{documentId}", deleteDocumentHandler(svc.Documents, logger))
			}

			if svc.Bookings != nil {
				r.Get("/bookings", listBookingsHandler(svc.Bookings, logger))
				r.Post("/bookings/{bookingId}/status", updateBookingStatusHandler(svc.Bookings, logger))
			}

			if svc.Billing != nil {
				r.Post("/billing/portal", billingPortalHandler(svc.Billing, logger))
				r.Post("/billing/cancel", billingCancelHandler(svc.Billing, logger))
				r.Get("/billing/balance", billingBalanceHandler(svc.Billing, logger))
			}

			if svc.Calendar != nil {
				r.Get("/calendar", calendarStatusHandler(svc.Calendar, logger))
				r.Get("/calendar/connect", calendarConnectHandler(svc.Calendar, logger))
				r.Post("/calendar/disconnect", calendarDisconnectHandler(svc.Calendar, logger))
			}

			if svc.Devices != nil {
				r.Post("/devices/connect", deviceConnectHandler(svc.Devices, logger))
				r.Get("/devices/{deviceId}/status", deviceStatusHandler(svc.Devices, logger))
				r.Post("/devices/disconnect", deviceDisconnectHandler(svc.Devices, logger))
			}
		})
	})

	return r
}

// ============================================================
// Operacional
// ============================================================

func healthzHandler(checks []HealthCheck, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "dashboard-bfa", Status: "healthy", LastChecked: now},
		}

		for _, c := range checks {
			start := time.Now()
			err := c.Ping(ctx)
			status := "healthy"
			if err != nil {
				status = "degraded"
				logger.Warn("health check failed", zap.String("service", c.Name), zap.Error(err))
			}
			services = append(services, domain.ServiceHealth{
				Name: c.Name, Status: status, LatencyMs: time.Since(start).Milliseconds(),
				LastChecked: now,
			})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func onboardingMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetOnboardingSnapshot())
	}
}
