package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/port"

	"go.uber.org/zap"
)

// Post-login destinations.
const (
	RedirectDashboard  = "/dashboard"
	RedirectOnboarding = "/onboarding/planos"
)

// Dropper releases per-user local state on logout.
type Dropper interface {
	Drop(userID string)
}

// AccountService covers registration, login/logout, profile edits and
// password flows.
type AccountService struct {
	registration port.RegistrationAPI
	profile      port.ProfileAPI
	auth         port.AuthProvider
	sessions     port.SessionCache
	droppers     []Dropper
	logger       *zap.Logger
	now          func() time.Time
}

// NewAccountService creates the account service.
func NewAccountService(registration port.RegistrationAPI, profile port.ProfileAPI, auth port.AuthProvider, sessions port.SessionCache, logger *zap.Logger, droppers ...Dropper) *AccountService {
	return &AccountService{
		registration: registration,
		profile:      profile,
		auth:         auth,
		sessions:     sessionsOrNoop(sessions),
		droppers:     droppers,
		logger:       logger,
		now:          time.Now,
	}
}

// Register creates the account on the backend and signs the user in.
func (s *AccountService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthSession, *domain.LoginResponse, error) {
	ctx, span := tracer.Start(ctx, "AccountService.Register")
	defer span.End()

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := domain.Validate(req); err != nil {
		return nil, nil, err
	}
	if err := s.registration.Register(ctx, req); err != nil {
		return nil, nil, err
	}
	s.logger.Info("account registered", zap.String("email", req.Email))

	sess, err := s.auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, nil, err
	}
	// a fresh account always starts at plan selection
	return sess, s.loginResponse(sess, RedirectOnboarding), nil
}

// Login signs in and picks the landing page from the onboarding status.
func (s *AccountService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthSession, *domain.LoginResponse, error) {
	ctx, span := tracer.Start(ctx, "AccountService.Login")
	defer span.End()

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := domain.Validate(req); err != nil {
		return nil, nil, err
	}

	sess, err := s.auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, nil, err
	}

	redirect := RedirectOnboarding
	p, err := s.profile.GetProfile(ctx, credentialFor(sess))
	switch {
	case err != nil:
		s.logger.Warn("profile lookup after login failed", zap.String("user_id", sess.UserID), zap.Error(err))
	case p != nil && p.Status.OnboardingComplete():
		redirect = RedirectDashboard
	}

	s.logger.Info("login", zap.String("user_id", sess.UserID), zap.String("redirect", redirect))
	return sess, s.loginResponse(sess, redirect), nil
}

// Logout revokes the token and drops all per-user state. An already
// expired token still logs out locally.
func (s *AccountService) Logout(ctx context.Context, cred *domain.Credential) error {
	ctx, span := tracer.Start(ctx, "AccountService.Logout")
	defer span.End()

	if cred == nil {
		return nil
	}
	if err := s.auth.SignOut(ctx, cred.AccessToken); err != nil {
		var ue *domain.ErrUnauthorized
		if !errors.As(err, &ue) {
			s.logger.Warn("sign out failed", zap.String("user_id", cred.UserID), zap.Error(err))
		}
	}
	s.sessions.Forget(ctx, cred.UserID)
	for _, d := range s.droppers {
		d.Drop(cred.UserID)
	}
	s.logger.Info("logout", zap.String("user_id", cred.UserID))
	return nil
}

// UpdateProfile saves profile edits.
func (s *AccountService) UpdateProfile(ctx context.Context, cred *domain.Credential, req *domain.UpdateProfileRequest) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "AccountService.UpdateProfile")
	defer span.End()

	req.State = strings.ToUpper(strings.TrimSpace(req.State))
	if err := domain.Validate(req); err != nil {
		return nil, err
	}
	p, err := s.profile.UpdateProfile(ctx, cred, req)
	if err != nil {
		return nil, err
	}
	s.sessions.Invalidate(ctx, owner(cred))
	if p != nil {
		p.Email = cred.Email
	}
	return p, nil
}

// SendResetEmail asks the backend to email a password-reset link.
func (s *AccountService) SendResetEmail(ctx context.Context, req *domain.ResetPasswordEmailRequest) error {
	ctx, span := tracer.Start(ctx, "AccountService.SendResetEmail")
	defer span.End()

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := domain.Validate(req); err != nil {
		return err
	}
	return s.profile.SendResetPasswordEmail(ctx, req.Email)
}

// UpdatePassword sets a new password for the signed-in user.
func (s *AccountService) UpdatePassword(ctx context.Context, cred *domain.Credential, req *domain.UpdatePasswordRequest) error {
	ctx, span := tracer.Start(ctx, "AccountService.UpdatePassword")
	defer span.End()

	if cred == nil {
		return &domain.ErrUnauthorized{}
	}
	if err := domain.Validate(req); err != nil {
		return err
	}
	if err := s.auth.UpdatePassword(ctx, cred.AccessToken, req.Password); err != nil {
		return err
	}
	s.logger.Info("password updated", zap.String("user_id", cred.UserID))
	return nil
}

func (s *AccountService) loginResponse(sess *domain.AuthSession, redirect string) *domain.LoginResponse {
	expiresIn := int(sess.ExpiresAt.Sub(s.now()).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}
	return &domain.LoginResponse{
		AccessToken: sess.AccessToken,
		ExpiresIn:   expiresIn,
		UserID:      sess.UserID,
		Email:       sess.Email,
		Redirect:    redirect,
	}
}

func credentialFor(sess *domain.AuthSession) *domain.Credential {
	return &domain.Credential{
		AccessToken: sess.AccessToken,
		UserID:      sess.UserID,
		Email:       sess.Email,
		ExpiresAt:   sess.ExpiresAt,
	}
}
