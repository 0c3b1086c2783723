package handler

import (
	"net/http"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Google Agenda
// ============================================================

func calendarStatusHandler(calendar *service.CalendarService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/calendar")
		defer span.End()

		st, err := calendar.Status(ctx, CredentialFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func calendarConnectHandler(calendar *service.CalendarService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := calendar.AuthURL(CredentialFromContext(r.Context()))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		http.Redirect(w, r, u, http.StatusFound)
	}
}

func calendarDisconnectHandler(calendar *service.CalendarService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/calendar/disconnect")
		defer span.End()

		if err := calendar.Disconnect(ctx, CredentialFromContext(ctx)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		msg := "Google Agenda desconectada."
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: msg, Notice: domain.SuccessNotice(msg)})
	}
}

// ============================================================
// WhatsApp device
// ============================================================

func deviceConnectHandler(devices *service.DeviceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/devices/connect")
		defer span.End()

		p, err := devices.Connect(ctx, CredentialFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func deviceStatusHandler(devices *service.DeviceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/devices/{deviceId}/status")
		defer span.End()

		st, err := devices.Status(ctx, CredentialFromContext(ctx), chi.URLParam(r, "deviceId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

type deviceRequest struct {
	DeviceID string `json:"deviceId"`
}

func deviceDisconnectHandler(devices *service.DeviceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/devices/disconnect")
		defer span.End()

		var req deviceRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.DeviceID == "" {
			handleServiceError(w, &domain.ErrValidation{Field: "deviceId", Message: "Campo obrigatório."}, logger)
			return
		}

		if err := devices.Disconnect(ctx, CredentialFromContext(ctx), req.DeviceID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		msg := "WhatsApp desconectado."
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: msg, ID: req.DeviceID, Notice: domain.SuccessNotice(msg)})
	}
}
