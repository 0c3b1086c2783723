// Package payments verifies subscription payments with Stripe.
package payments

import (
	"context"
	"errors"
	"net/http"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/subscription"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("payments")

// StripeVerifier reads subscription state from Stripe.
type StripeVerifier struct {
	subs   subscription.Client
	logger *zap.Logger
}

// NewStripeVerifier creates a verifier for the secret key.
// baseURL overrides the API host (tests); empty uses api.stripe.com.
func NewStripeVerifier(secretKey, baseURL string, httpClient *http.Client, logger *zap.Logger) *StripeVerifier {
	cfg := &stripe.BackendConfig{
		HTTPClient:        httpClient,
		MaxNetworkRetries: stripe.Int64(1),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	}
	if baseURL != "" {
		cfg.URL = stripe.String(baseURL)
	}
	return &StripeVerifier{
		subs:   subscription.Client{B: stripe.GetBackendWithConfig(stripe.APIBackend, cfg), Key: secretKey},
		logger: logger,
	}
}

// VerifySubscription returns the subscription status, whether it is paid
// (active or trialing) and the owning customer.
func (v *StripeVerifier) VerifySubscription(ctx context.Context, subscriptionID string) (*domain.SubscriptionCheck, error) {
	ctx, span := tracer.Start(ctx, "Stripe.VerifySubscription")
	defer span.End()
	span.SetAttributes(attribute.String("subscription.id", subscriptionID))

	if subscriptionID == "" {
		return nil, &domain.ErrValidation{Field: "subscriptionId", Message: "Campo obrigatório."}
	}

	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	sub, err := v.subs.Get(subscriptionID, params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.HTTPStatusCode == http.StatusNotFound {
			return nil, &domain.ErrNotFound{Resource: "subscription", ID: subscriptionID}
		}
		v.logger.Error("stripe: subscription lookup failed",
			zap.String("subscription_id", subscriptionID),
			zap.Error(err),
		)
		return nil, &domain.ErrExternalService{Service: "stripe", Err: err}
	}

	check := &domain.SubscriptionCheck{
		Status: string(sub.Status),
		Paid:   sub.Status == stripe.SubscriptionStatusActive || sub.Status == stripe.SubscriptionStatusTrialing,
	}
	if sub.Customer != nil {
		check.CustomerID = sub.Customer.ID
	}
	span.SetAttributes(attribute.String("subscription.status", check.Status))
	return check, nil
}
