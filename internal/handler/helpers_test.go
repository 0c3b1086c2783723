package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		step string
	}{
		{"unauthorized", &domain.ErrUnauthorized{}, http.StatusUnauthorized, ""},
		{"validation", &domain.ErrValidation{Field: "name", Message: "Campo obrigatório."}, http.StatusBadRequest, ""},
		{"not found", &domain.ErrNotFound{Resource: "room", ID: "1"}, http.StatusNotFound, ""},
		{"conflict", &domain.ErrConflict{Message: "x"}, http.StatusConflict, ""},
		{"limit", &domain.ErrLimitExceeded{Limit: 3}, http.StatusUnprocessableEntity, ""},
		{"confirmation", &domain.ErrConfirmationRequired{Action: "delete"}, http.StatusPreconditionRequired, ""},
		{"step", &domain.ErrStepNotAdvanced{Current: "rooms", Err: &domain.ErrBackend{Status: 500}}, http.StatusBadGateway, "rooms"},
		{"backend 4xx", &domain.ErrBackend{Status: 403, Message: "Proibido"}, http.StatusForbidden, ""},
		{"backend 5xx", &domain.ErrBackend{Status: 500}, http.StatusBadGateway, ""},
		{"external", &domain.ErrExternalService{Service: "backend", Err: errors.New("eof")}, http.StatusBadGateway, ""},
		{"breaker", &domain.ErrCircuitOpen{Service: "backend"}, http.StatusServiceUnavailable, ""},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := mapError(tt.err)
			if status != tt.want {
				t.Errorf("status = %d, want %d", status, tt.want)
			}
			if resp.Step != tt.step {
				t.Errorf("step = %q, want %q", resp.Step, tt.step)
			}
			if resp.Error == "" {
				t.Error("expected a message")
			}
		})
	}
}

func TestMapError_BackendMessageSurfaced(t *testing.T) {
	_, resp := mapError(&domain.ErrBackend{Status: 400, Message: "Nome já existe"})
	if resp.Error != "Nome já existe" {
		t.Errorf("expected server message, got %q", resp.Error)
	}
	_, resp = mapError(&domain.ErrBackend{Status: 500})
	if resp.Error != domain.GenericErrorMessage {
		t.Errorf("expected generic message, got %q", resp.Error)
	}
}

func TestConfirmed(t *testing.T) {
	r := httptest.NewRequest(http.MethodDelete, "/v1/rooms/1?confirm=true", nil)
	if !confirmed(r) {
		t.Error("expected query confirmation")
	}
	r = httptest.NewRequest(http.MethodDelete, "/v1/rooms/1", nil)
	r.Header.Set("X-Confirm", "1")
	if !confirmed(r) {
		t.Error("expected header confirmation")
	}
	r = httptest.NewRequest(http.MethodDelete, "/v1/rooms/1", nil)
	if confirmed(r) {
		t.Error("expected no confirmation")
	}
}
