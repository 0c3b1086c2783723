package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/backend"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/resilience"
)

var cred = &domain.Credential{AccessToken: "tok-123", UserID: "user-1", Email: "dono@pousada.com"}

func newClient(t *testing.T, h http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := resilience.Config{MaxRetries: 2, InitialBackoff: time.Millisecond, MaxConcurrency: 4}
	cb := resilience.NewCircuitBreaker("backend-test", backend.IsClientError)
	return backend.NewClient(srv.Client(), srv.URL, "svc-key", cb, cfg, zap.NewNop())
}

func TestGetProfile_BearerOnlyAndEnvelope(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/profile", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("x-api-key"))
		assert.Empty(t, r.Header.Get("x-user-id"))
		_, _ = w.Write([]byte(`{"profile":{"id":"user-1","status":"onboarding_pdf","business_name":"Pousada Sol"}}`))
	})

	p, err := c.GetProfile(context.Background(), cred)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnboardingPDF, p.Status)
	assert.Equal(t, "Pousada Sol", p.BusinessName)
}

func TestRequestID(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	rooms, err := c.ListRooms(context.Background(), cred)
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestListBookings_KeyedHeaders(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings/getbookings", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "svc-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "user-1", r.Header.Get("x-user-id"))
		_, _ = w.Write([]byte(`{"bookings":[{"id":"b1","status":"confirmada"}]}`))
	})

	list, err := c.ListBookings(context.Background(), cred)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.BookingConfirmada, list[0].Status)
}

func TestGet_RetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	rooms, err := c.ListRooms(context.Background(), cred)
	require.NoError(t, err)
	assert.Empty(t, rooms)
	assert.NotNil(t, rooms)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_NeverRetries4xx(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"Acesso negado"}`))
	})

	_, err := c.ListDocuments(context.Background(), cred)
	var be *domain.ErrBackend
	require.True(t, errors.As(err, &be))
	assert.Equal(t, http.StatusForbidden, be.Status)
	assert.Equal(t, "Acesso negado", be.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMutation_NeverRetried(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.UpdateStatus(context.Background(), cred, domain.StatusOnboardingRooms)
	var be *domain.ErrBackend
	require.True(t, errors.As(err, &be))
	assert.Equal(t, domain.GenericErrorMessage, be.Error())
	assert.Equal(t, int32(1), calls.Load())
}

func TestUpdateStatus_Body(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/update-status", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "active", body["nextStep"])
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.UpdateStatus(context.Background(), cred, domain.StatusActive))
}

func TestRegister_FirstFieldErrorInDocumentOrder(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":{"whatsappNumber":["Número inválido"],"email":["E-mail já cadastrado"]}}`))
	})

	err := c.Register(context.Background(), &domain.RegisterRequest{Email: "x@y.com"})
	var ve *domain.ErrValidation
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "whatsappNumber", ve.Field)
	assert.Equal(t, "Número inválido", ve.Message)
}

func TestCreateRoom_SendsListWithoutPlaceholderID(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var rooms []map[string]any
		require.NoError(t, json.Unmarshal(raw, &rooms))
		require.Len(t, rooms, 1)
		_, hasID := rooms[0]["id"]
		assert.False(t, hasID)
		assert.Equal(t, "Suíte Master", rooms[0]["name"])
		_, _ = w.Write([]byte(`{"data":[{"id":42,"name":"Suíte Master","capacity":2,"daily_rate":250}]}`))
	})

	room := domain.NewRoomTemplate()
	room.Name = "Suíte Master"
	room.DailyRate = 250

	saved, err := c.CreateRoom(context.Background(), cred, room)
	require.NoError(t, err)
	assert.Equal(t, int64(42), saved.ID)
}

func TestUpdateRoom_AcceptsObjectData(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rooms/42", r.URL.Path)
		assert.Equal(t, http.MethodPut, r.Method)
		_, _ = w.Write([]byte(`{"data":{"id":42,"name":"Suíte Luxo"}}`))
	})

	saved, err := c.UpdateRoom(context.Background(), cred, domain.RoomType{ID: 42, Name: "Suíte Luxo"})
	require.NoError(t, err)
	assert.Equal(t, "Suíte Luxo", saved.Name)
}

func TestUploadDocument_Multipart(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		content, _ := io.ReadAll(f)
		assert.Equal(t, "regras.pdf", hdr.Filename)
		assert.Equal(t, "%PDF-1.4", string(content))
		_, _ = w.Write([]byte(`{"data":{"id":"doc-1","file_name":"regras.pdf"}}`))
	})

	doc, err := c.UploadDocument(context.Background(), cred, domain.Upload{
		FileName:    "regras.pdf",
		ContentType: domain.PDFContentType,
		Body:        strings.NewReader("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)
}

func TestCreateSubscription_IdempotencyKey(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "idem-1", r.Header.Get("Idempotency-Key"))
		assert.Equal(t, "svc-key", r.Header.Get("x-api-key"))
		_, _ = w.Write([]byte(`{"subscriptionId":"sub_1","clientSecret":"pi_secret"}`))
	})

	intent, err := c.CreateSubscription(context.Background(), cred, "price_ess", "idem-1")
	require.NoError(t, err)
	assert.Equal(t, "sub_1", intent.SubscriptionID)
	assert.Equal(t, "pi_secret", intent.ClientSecret)
}

func TestMissingCredential_Unauthorized(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := c.ListRooms(context.Background(), nil)
	var ue *domain.ErrUnauthorized
	assert.True(t, errors.As(err, &ue))
}

func TestCircuitOpen(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	for i := 0; i < 5; i++ {
		_ = c.UpdateStatus(context.Background(), cred, domain.StatusActive)
	}
	err := c.UpdateStatus(context.Background(), cred, domain.StatusActive)
	var co *domain.ErrCircuitOpen
	assert.True(t, errors.As(err, &co), "got %v", err)
}
