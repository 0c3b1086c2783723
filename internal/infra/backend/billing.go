package backend

import (
	"context"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
)

// CreateSubscription starts a subscription for priceID and returns the
// client secret the browser confirms the card with.
func (c *Client) CreateSubscription(ctx context.Context, cred *domain.Credential, priceID, idempotencyKey string) (*domain.SubscriptionIntent, error) {
	var out domain.SubscriptionIntent
	err := c.do(ctx, call{
		ep:      epCreateSub,
		cred:    cred,
		body:    map[string]string{"priceId": priceID},
		headers: map[string]string{"Idempotency-Key": idempotencyKey},
		out:     &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePortalSession returns the hosted customer-portal URL.
func (c *Client) CreatePortalSession(ctx context.Context, cred *domain.Credential) (*domain.PortalSession, error) {
	var out domain.PortalSession
	if err := c.do(ctx, call{ep: epPortalSession, cred: cred, body: map[string]string{}, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelSubscription cancels at period end.
func (c *Client) CancelSubscription(ctx context.Context, cred *domain.Credential) error {
	return c.do(ctx, call{ep: epCancelSub, cred: cred, body: map[string]string{}})
}

// GetBalance returns the connected account balance.
func (c *Client) GetBalance(ctx context.Context, cred *domain.Credential) (*domain.Balance, error) {
	var out domain.Balance
	if err := c.do(ctx, call{ep: epBalance, cred: cred, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}
