package service

import (
	"context"
	"errors"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/port"

	"go.uber.org/zap"
)

var errEmptyPortalURL = errors.New("empty portal url")

// BillingService serves the plan catalog and the subscription cards.
type BillingService struct {
	api      port.BillingAPI
	plans    []domain.Plan
	sessions port.SessionCache
	logger   *zap.Logger
}

// NewBillingService creates the billing service.
func NewBillingService(api port.BillingAPI, plans []domain.Plan, sessions port.SessionCache, logger *zap.Logger) *BillingService {
	return &BillingService{api: api, plans: plans, sessions: sessionsOrNoop(sessions), logger: logger}
}

// Plans returns the catalog.
func (s *BillingService) Plans() []domain.Plan {
	out := make([]domain.Plan, len(s.plans))
	copy(out, s.plans)
	return out
}

// Portal opens a customer-portal session (update card, invoices).
func (s *BillingService) Portal(ctx context.Context, cred *domain.Credential) (*domain.PortalSession, error) {
	ctx, span := tracer.Start(ctx, "BillingService.Portal")
	defer span.End()

	ps, err := s.api.CreatePortalSession(ctx, cred)
	if err != nil {
		return nil, err
	}
	if ps.URL == "" {
		return nil, &domain.ErrExternalService{Service: "stripe/portal", Err: errEmptyPortalURL}
	}
	return ps, nil
}

// Cancel cancels the subscription after explicit confirmation.
func (s *BillingService) Cancel(ctx context.Context, cred *domain.Credential, confirmed bool) error {
	ctx, span := tracer.Start(ctx, "BillingService.Cancel")
	defer span.End()

	if !confirmed {
		return &domain.ErrConfirmationRequired{Action: "cancel subscription"}
	}
	if err := s.api.CancelSubscription(ctx, cred); err != nil {
		return err
	}
	s.sessions.Invalidate(ctx, owner(cred))
	s.logger.Info("subscription cancelled", zap.String("user_id", owner(cred)))
	return nil
}

// Balance returns the payout balance card.
func (s *BillingService) Balance(ctx context.Context, cred *domain.Credential) (*domain.Balance, error) {
	ctx, span := tracer.Start(ctx, "BillingService.Balance")
	defer span.End()

	b, err := s.api.GetBalance(ctx, cred)
	if err != nil {
		return nil, err
	}
	if b.Currency == "" {
		b.Currency = "brl"
	}
	return b, nil
}

// PaymentStatus resolves the guest-facing payment return page.
func (s *BillingService) PaymentStatus(status, bookingID string) domain.PaymentStatus {
	return domain.ResolvePaymentStatus(status, bookingID)
}
