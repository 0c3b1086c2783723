package service

import (
	"context"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/port"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Google OAuth endpoints; overridable for tests.
const (
	GoogleAuthURL  = "https://accounts.google.com/o/oauth2/v2/auth"
	GoogleTokenURL = "https://oauth2.googleapis.com/token"
)

var calendarScopes = []string{
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/userinfo.email",
}

// CalendarConfig configures the Google Calendar link.
type CalendarConfig struct {
	ClientID    string
	RedirectURL string
	AuthURL     string
	TokenURL    string
}

// CalendarService reports, starts and removes the Google Calendar link.
// The code exchange happens on the backend callback.
type CalendarService struct {
	api      port.CalendarAPI
	oauth    *oauth2.Config
	sessions port.SessionCache
	logger   *zap.Logger
}

// NewCalendarService creates the calendar service.
func NewCalendarService(api port.CalendarAPI, cfg CalendarConfig, sessions port.SessionCache, logger *zap.Logger) *CalendarService {
	authURL, tokenURL := cfg.AuthURL, cfg.TokenURL
	if authURL == "" {
		authURL = GoogleAuthURL
	}
	if tokenURL == "" {
		tokenURL = GoogleTokenURL
	}
	return &CalendarService{
		api: api,
		oauth: &oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.RedirectURL,
			Scopes:      calendarScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		sessions: sessionsOrNoop(sessions),
		logger:   logger,
	}
}

// Status reports whether the calendar is connected.
func (s *CalendarService) Status(ctx context.Context, cred *domain.Credential) (*domain.CalendarStatus, error) {
	ctx, span := tracer.Start(ctx, "CalendarService.Status")
	defer span.End()

	return s.api.CheckGoogle(ctx, cred)
}

// AuthURL builds the consent URL. The session token travels in state so
// the backend callback can tell which account is linking.
func (s *CalendarService) AuthURL(cred *domain.Credential) (string, error) {
	if cred == nil || cred.AccessToken == "" {
		return "", &domain.ErrUnauthorized{}
	}
	if s.oauth.ClientID == "" {
		return "", &domain.ErrConflict{Message: "Integração com Google Agenda não configurada."}
	}
	return s.oauth.AuthCodeURL(cred.AccessToken, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// Disconnect removes the calendar link.
func (s *CalendarService) Disconnect(ctx context.Context, cred *domain.Credential) error {
	ctx, span := tracer.Start(ctx, "CalendarService.Disconnect")
	defer span.End()

	if err := s.api.DisconnectGoogle(ctx, cred); err != nil {
		return err
	}
	s.sessions.Invalidate(ctx, owner(cred))
	s.logger.Info("google calendar disconnected", zap.String("user_id", owner(cred)))
	return nil
}
