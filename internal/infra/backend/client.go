// Package backend is the REST client for the AutoBooks backend API.
// Every call runs inside the circuit breaker and the bulkhead; only GETs
// are retried, and 4xx answers are never retried.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/resilience"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("backend")

// authMode says which headers an endpoint expects.
type authMode int

const (
	// authNone: public endpoint (register, reset email).
	authNone authMode = iota
	// authBearer: Authorization: Bearer <token>.
	authBearer
	// authKeyed: Bearer plus x-api-key and x-user-id.
	authKeyed
)

// endpoint is one row of the backend route table.
type endpoint struct {
	name   string
	method string
	path   string // fmt pattern; %s for path params
	auth   authMode
}

// Route table. The keyed group (stripe, devices, bookings) is the one the
// backend guards with the service API key in addition to the user token.
var (
	epGetProfile       = endpoint{"users.profile", http.MethodGet, "/users/profile", authBearer}
	epUpdateProfile    = endpoint{"users.update_profile", http.MethodPut, "/users/update-profile", authBearer}
	epUpdateStatus     = endpoint{"users.update_status", http.MethodPost, "/users/update-status", authBearer}
	epResetEmail       = endpoint{"users.reset_email", http.MethodPost, "/users/send-reset-password-email", authNone}
	epListRooms        = endpoint{"rooms.list", http.MethodGet, "/rooms/getrooms", authBearer}
	epCreateRoom       = endpoint{"rooms.create", http.MethodPost, "/rooms", authBearer}
	epUpdateRoom       = endpoint{"rooms.update", http.MethodPut, "/rooms/%s", authBearer}
	epDeleteRoom       = endpoint{"rooms.delete", http.MethodDelete, "/rooms/%s", authBearer}
	epListDocuments    = endpoint{"uploads.list", http.MethodGet, "/uploads/getdocuments", authBearer}
	epUploadDocument   = endpoint{"uploads.create", http.MethodPost, "/uploads/document", authBearer}
	epDeleteDocument   = endpoint{"uploads.delete", http.MethodDelete, "/uploads/document/%s", authBearer}
	epListBookings     = endpoint{"bookings.list", http.MethodGet, "/bookings/getbookings", authKeyed}
	epUpdateBooking    = endpoint{"bookings.update_status", http.MethodPost, "/bookings/updatestatus", authKeyed}
	epCreateSub        = endpoint{"stripe.create_subscription", http.MethodPost, "/stripe/create-subscription", authKeyed}
	epPortalSession    = endpoint{"stripe.portal_session", http.MethodPost, "/stripe/create-portal-session", authKeyed}
	epCancelSub        = endpoint{"stripe.cancel_subscription", http.MethodPost, "/stripe/cancel-subscription", authKeyed}
	epBalance          = endpoint{"stripe.balance", http.MethodGet, "/stripe/balance", authKeyed}
	epGoogleCheck      = endpoint{"google.check", http.MethodGet, "/auth/google/check", authBearer}
	epGoogleDisconnect = endpoint{"google.disconnect", http.MethodPost, "/auth/google/disconnect", authBearer}
	epDeviceConnect    = endpoint{"devices.connect", http.MethodPost, "/devices/connect", authKeyed}
	epDeviceStatus     = endpoint{"devices.status", http.MethodGet, "/devices/status/%s", authKeyed}
	epDeviceDisconnect = endpoint{"devices.disconnect", http.MethodPost, "/devices/disconnect", authKeyed}
	epRegister         = endpoint{"auth.register", http.MethodPost, "/auth/register", authNone}
	epHealth           = endpoint{"health", http.MethodGet, "/health", authNone}
)

// Client talks to the REST backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	cfg        resilience.Config
	logger     *zap.Logger
}

// NewClient creates a backend client. httpClient should carry the otel
// transport so outbound spans join the request trace.
func NewClient(httpClient *http.Client, baseURL, apiKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		cb:         cb,
		bulkhead:   resilience.NewBulkhead(cfg.MaxConcurrency),
		cfg:        cfg,
		logger:     logger,
	}
}

// call describes one request.
type call struct {
	ep      endpoint
	cred    *domain.Credential
	args    []any
	body    any       // JSON-encoded when set
	raw     io.Reader // pre-encoded body (multipart)
	rawType string
	headers map[string]string
	out     any
}

// do executes c with tracing, bulkhead, breaker and (GET only) retries.
func (c *Client) do(ctx context.Context, cl call) error {
	ctx, span := tracer.Start(ctx, "Backend."+cl.ep.name)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", cl.ep.method),
		attribute.String("backend.endpoint", cl.ep.name),
	)
	if cl.cred != nil {
		span.SetAttributes(attribute.String("user.id", cl.cred.UserID))
	}

	if cl.ep.auth != authNone && (cl.cred == nil || cl.cred.AccessToken == "") {
		return &domain.ErrUnauthorized{}
	}

	var payload []byte
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", cl.ep.name, err)
		}
		payload = b
	}

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return err
	}
	defer c.bulkhead.Release()

	attempt := func() error { return c.send(ctx, cl, payload) }

	_, err := c.cb.Execute(func() (any, error) {
		if cl.ep.method == http.MethodGet {
			return nil, resilience.RetryWithBackoff(ctx, c.cfg, attempt)
		}
		return nil, resilience.Once(ctx, attempt)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return c.wrapError(cl.ep, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, cl call, payload []byte) error {
	url := c.baseURL + cl.ep.path
	if len(cl.args) > 0 {
		url = c.baseURL + fmt.Sprintf(cl.ep.path, cl.args...)
	}

	var body io.Reader
	switch {
	case cl.raw != nil:
		body = cl.raw
	case payload != nil:
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.ep.method, url, body)
	if err != nil {
		return resilience.Permanent(err)
	}
	switch {
	case cl.raw != nil:
		req.Header.Set("Content-Type", cl.rawType)
	case payload != nil:
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	id := middleware.GetReqID(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	req.Header.Set("X-Request-Id", id)
	c.setAuth(req, cl.ep.auth, cl.cred)
	for k, v := range cl.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("backend: request failed",
			zap.String("endpoint", cl.ep.name),
			zap.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseError(resp.StatusCode, respBody)
		c.logger.Warn("backend: non-2xx response",
			zap.String("endpoint", cl.ep.name),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Error()),
		)
		if resp.StatusCode < 500 {
			return resilience.Permanent(apiErr)
		}
		return apiErr
	}

	c.logger.Debug("backend: request OK",
		zap.String("endpoint", cl.ep.name),
		zap.Int("status", resp.StatusCode),
	)

	if cl.out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, cl.out); err != nil {
		return resilience.Permanent(fmt.Errorf("decode %s response: %w", cl.ep.name, err))
	}
	return nil
}

func (c *Client) setAuth(req *http.Request, mode authMode, cred *domain.Credential) {
	if mode == authNone || cred == nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	if mode == authKeyed {
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("x-user-id", cred.UserID)
	}
}

// wrapError leaves domain errors as they are so callers can errors.As them,
// and wraps transport/SDK failures as ErrExternalService.
func (c *Client) wrapError(ep endpoint, err error) error {
	var (
		be *domain.ErrBackend
		ve *domain.ErrValidation
		ue *domain.ErrUnauthorized
	)
	switch {
	case errors.As(err, &be), errors.As(err, &ve), errors.As(err, &ue):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case resilience.IsBreakerOpen(err):
		return &domain.ErrCircuitOpen{Service: "backend"}
	}
	return &domain.ErrExternalService{Service: "backend/" + ep.name, Err: err}
}

// IsClientError reports whether err is the caller's fault (4xx). The
// circuit breaker treats these as successes.
func IsClientError(err error) bool {
	if err == nil {
		return true
	}
	var (
		be *domain.ErrBackend
		ve *domain.ErrValidation
		ue *domain.ErrUnauthorized
	)
	switch {
	case errors.As(err, &be):
		return be.Status < 500
	case errors.As(err, &ve), errors.As(err, &ue):
		return true
	case errors.Is(err, context.Canceled):
		return true
	}
	return false
}

// Ping checks the backend health endpoint; used by /healthz.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, call{ep: epHealth})
}
