// Package supabase is the client for Supabase Auth (GoTrue): password
// sign-in, sign-out and password updates, plus local validation of the
// access tokens it issues.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("supabase")

// Client wraps HTTP calls to the Supabase Auth API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	anonKey    string
	cb         *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewClient creates a Supabase Auth client.
func NewClient(httpClient *http.Client, baseURL, anonKey string, cb *gobreaker.CircuitBreaker, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		cb:         cb,
		logger:     logger,
	}
}

// tokenResponse is the GoTrue session payload.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// authError is the GoTrue error payload; field names vary by version.
type authError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e authError) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// SignIn exchanges email + password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	ctx, span := tracer.Start(ctx, "Supabase.SignIn")
	defer span.End()

	var tr tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "",
		map[string]string{"email": email, "password": password}, &tr)
	if err != nil {
		var be *domain.ErrBackend
		if errors.As(err, &be) && (be.Status == http.StatusBadRequest || be.Status == http.StatusUnauthorized) {
			return nil, &domain.ErrUnauthorized{Message: "E-mail ou senha inválidos."}
		}
		return nil, err
	}

	span.SetAttributes(attribute.String("user.id", tr.User.ID))

	expiresAt := time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	if tr.ExpiresAt > 0 {
		expiresAt = time.Unix(tr.ExpiresAt, 0)
	}
	return &domain.AuthSession{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    expiresAt,
		UserID:       tr.User.ID,
		Email:        tr.User.Email,
	}, nil
}

// SignOut revokes the session behind accessToken.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	ctx, span := tracer.Start(ctx, "Supabase.SignOut")
	defer span.End()

	return c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
}

// UpdatePassword sets a new password for the signed-in user.
func (c *Client) UpdatePassword(ctx context.Context, accessToken, password string) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdatePassword")
	defer span.End()

	return c.do(ctx, http.MethodPut, "/auth/v1/user", accessToken, map[string]string{"password": password}, nil)
}

// do runs one auth call inside the breaker. Auth calls are never retried.
func (c *Client) do(ctx context.Context, method, path, accessToken string, in, out any) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.Once(ctx, func() error {
			return c.send(ctx, method, path, accessToken, in, out)
		})
	})
	if err == nil {
		return nil
	}
	var (
		be *domain.ErrBackend
		ue *domain.ErrUnauthorized
	)
	switch {
	case errors.As(err, &be), errors.As(err, &ue):
		return err
	case resilience.IsBreakerOpen(err):
		return &domain.ErrCircuitOpen{Service: "supabase"}
	}
	return &domain.ErrExternalService{Service: "supabase/auth", Err: err}
}

func (c *Client) send(ctx context.Context, method, path, accessToken string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("supabase: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ae authError
		_ = json.Unmarshal(raw, &ae)
		c.logger.Warn("supabase: non-2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("error", ae.text()),
		)
		if resp.StatusCode == http.StatusUnauthorized && accessToken != "" {
			return resilience.Permanent(&domain.ErrUnauthorized{})
		}
		apiErr := &domain.ErrBackend{Status: resp.StatusCode, Message: ae.text()}
		if resp.StatusCode < 500 {
			return resilience.Permanent(apiErr)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode auth response: %w", err)
	}
	return nil
}
