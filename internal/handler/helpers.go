package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

const maxJSONBody = 1 << 20

type errorResponse struct {
	Error     string         `json:"error"`
	Field     string         `json:"field,omitempty"`
	Step      string         `json:"step,omitempty"`
	Retryable bool           `json:"retryable,omitempty"`
	Notice    *domain.Notice `json:"notice,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return false
	}
	return true
}

// confirmed reads ?confirm=true (or the X-Confirm header) on destructive calls.
func confirmed(r *http.Request) bool {
	v := r.URL.Query().Get("confirm")
	if v == "" {
		v = r.Header.Get("X-Confirm")
	}
	ok, _ := strconv.ParseBool(v)
	return ok
}

// handleServiceError maps domain errors to HTTP responses.
// Every body carries a notice so the dashboard can show it as a toast.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	writeServiceError(w, err, false, logger)
}

// handleListError is handleServiceError for list reads the UI can retry.
func handleListError(w http.ResponseWriter, err error, logger *zap.Logger) {
	writeServiceError(w, err, true, logger)
}

func writeServiceError(w http.ResponseWriter, err error, retryable bool, logger *zap.Logger) {
	status, resp := mapError(err)
	if retryable && status != http.StatusUnauthorized {
		resp.Retryable = true
	}
	resp.Notice = domain.ErrorNotice(resp.Error)

	switch {
	case status >= 500:
		logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	case status == http.StatusNotFound || status == http.StatusBadRequest:
		logger.Debug("request rejected", zap.Int("status", status), zap.String("error", err.Error()))
	default:
		logger.Warn("request rejected", zap.Int("status", status), zap.String("error", err.Error()))
	}
	writeJSON(w, status, resp)
}

func mapError(err error) (int, errorResponse) {
	var notFound *domain.ErrNotFound
	var circuitOpen *domain.ErrCircuitOpen
	var validation *domain.ErrValidation
	var limitExceeded *domain.ErrLimitExceeded
	var unauthorized *domain.ErrUnauthorized
	var conflict *domain.ErrConflict
	var confirmation *domain.ErrConfirmationRequired
	var notAdvanced *domain.ErrStepNotAdvanced
	var backend *domain.ErrBackend
	var external *domain.ErrExternalService

	switch {
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized, errorResponse{Error: unauthorized.Error()}
	case errors.As(err, &notAdvanced):
		return http.StatusBadGateway, errorResponse{Error: domain.BackendMessage(notAdvanced.Err), Step: notAdvanced.Current}
	case errors.As(err, &validation):
		return http.StatusBadRequest, errorResponse{Error: validation.Message, Field: validation.Field}
	case errors.As(err, &confirmation):
		return http.StatusPreconditionRequired, errorResponse{Error: "Confirme a exclusão para continuar."}
	case errors.As(err, &limitExceeded):
		return http.StatusUnprocessableEntity, errorResponse{Error: limitExceeded.Error()}
	case errors.As(err, &conflict):
		return http.StatusConflict, errorResponse{Error: conflict.Error()}
	case errors.As(err, &notFound):
		return http.StatusNotFound, errorResponse{Error: "Recurso não encontrado."}
	case errors.As(err, &circuitOpen):
		return http.StatusServiceUnavailable, errorResponse{Error: "Serviço temporariamente indisponível. Tente novamente em instantes.", Retryable: true}
	case errors.As(err, &backend):
		if backend.Status >= 400 && backend.Status < 500 {
			return backend.Status, errorResponse{Error: backend.Error()}
		}
		return http.StatusBadGateway, errorResponse{Error: backend.Error(), Retryable: true}
	case errors.As(err, &external):
		return http.StatusBadGateway, errorResponse{Error: domain.GenericErrorMessage, Retryable: true}
	}
	return http.StatusInternalServerError, errorResponse{Error: domain.GenericErrorMessage}
}
