package handler

import (
	"net/http"

	"github.com/autobooks/dashboard-bfa-go/internal/onboarding"

	"go.uber.org/zap"
)

// ============================================================
// Onboarding
// ============================================================

func onboardingResumeHandler(c *onboarding.Coordinator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/onboarding")
		defer span.End()

		v, err := c.Resume(ctx, CredentialFromContext(ctx), onboarding.ParseHint(r.URL.Query()))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

type selectPlanRequest struct {
	PlanID        string `json:"planId"`
	PaymentMethod string `json:"paymentMethod"`
}

func onboardingPlanHandler(c *onboarding.Coordinator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/onboarding/plan")
		defer span.End()

		var req selectPlanRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		v, err := c.SelectPlan(ctx, CredentialFromContext(ctx), req.PlanID, req.PaymentMethod)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

type confirmPaymentRequest struct {
	SubscriptionID string `json:"subscriptionId"`
}

func onboardingPaymentHandler(c *onboarding.Coordinator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/onboarding/payment/confirm")
		defer span.End()

		var req confirmPaymentRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		v, err := c.ConfirmPayment(ctx, CredentialFromContext(ctx), req.SubscriptionID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func onboardingDocumentsHandler(c *onboarding.Coordinator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/onboarding/documents")
		defer span.End()

		files, cleanup, err := readUploads(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		defer cleanup()

		v, err := c.SubmitDocuments(ctx, CredentialFromContext(ctx), files)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func onboardingFinishHandler(c *onboarding.Coordinator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/onboarding/finish")
		defer span.End()

		v, err := c.Finish(ctx, CredentialFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}
