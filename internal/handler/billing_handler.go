package handler

import (
	"net/http"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Planos & assinatura
// ============================================================

type plansResponse struct {
	Plans []domain.Plan `json:"plans"`
}

func listPlansHandler(billing *service.BillingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, plansResponse{Plans: billing.Plans()})
	}
}

func billingPortalHandler(billing *service.BillingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/billing/portal")
		defer span.End()

		ps, err := billing.Portal(ctx, CredentialFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, ps)
	}
}

func billingCancelHandler(billing *service.BillingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/billing/cancel")
		defer span.End()

		if err := billing.Cancel(ctx, CredentialFromContext(ctx), confirmed(r)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		msg := "Assinatura cancelada."
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: msg, Notice: domain.SuccessNotice(msg)})
	}
}

func billingBalanceHandler(billing *service.BillingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/billing/balance")
		defer span.End()

		b, err := billing.Balance(ctx, CredentialFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

// paymentStatusHandler resolves the page a guest lands on after paying a booking.
func paymentStatusHandler(billing *service.BillingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		bookingID := q.Get("booking_id")
		if bookingID == "" {
			bookingID = q.Get("bookingId")
		}
		writeJSON(w, http.StatusOK, billing.PaymentStatus(q.Get("status"), bookingID))
	}
}
