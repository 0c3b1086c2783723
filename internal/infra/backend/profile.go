package backend

import (
	"context"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
)

type profileEnvelope struct {
	Profile *domain.UserProfile `json:"profile"`
	Data    *domain.UserProfile `json:"data"`
}

func (e profileEnvelope) get() *domain.UserProfile {
	if e.Profile != nil {
		return e.Profile
	}
	return e.Data
}

// GetProfile fetches the server-side profile of the signed-in user.
func (c *Client) GetProfile(ctx context.Context, cred *domain.Credential) (*domain.UserProfile, error) {
	var env profileEnvelope
	if err := c.do(ctx, call{ep: epGetProfile, cred: cred, out: &env}); err != nil {
		return nil, err
	}
	p := env.get()
	if p == nil {
		return nil, &domain.ErrNotFound{Resource: "profile", ID: cred.UserID}
	}
	return p, nil
}

// UpdateProfile replaces the business info of the profile.
func (c *Client) UpdateProfile(ctx context.Context, cred *domain.Credential, req *domain.UpdateProfileRequest) (*domain.UserProfile, error) {
	var env profileEnvelope
	if err := c.do(ctx, call{ep: epUpdateProfile, cred: cred, body: req, out: &env}); err != nil {
		return nil, err
	}
	return env.get(), nil
}

// UpdateStatus persists the next onboarding status.
func (c *Client) UpdateStatus(ctx context.Context, cred *domain.Credential, next domain.Status) error {
	return c.do(ctx, call{
		ep:   epUpdateStatus,
		cred: cred,
		body: map[string]string{"nextStep": string(next)},
	})
}

// SendResetPasswordEmail asks the backend to send the reset link.
func (c *Client) SendResetPasswordEmail(ctx context.Context, email string) error {
	return c.do(ctx, call{ep: epResetEmail, body: map[string]string{"email": email}})
}

// Register creates the auth user and its profile.
func (c *Client) Register(ctx context.Context, req *domain.RegisterRequest) error {
	return c.do(ctx, call{ep: epRegister, body: req})
}
