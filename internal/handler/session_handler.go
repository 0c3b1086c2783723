package handler

import (
	"net/http"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/service"
	"github.com/autobooks/dashboard-bfa-go/internal/session"

	"go.uber.org/zap"
)

// ============================================================
// Sessão & perfil
// ============================================================

func getSessionHandler(loader *session.Loader, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/session")
		defer span.End()

		data, err := loader.Load(ctx, CredentialFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, session.SnapshotOf(data))
	}
}

func refreshSessionHandler(loader *session.Loader, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/session/refresh")
		defer span.End()

		data, err := loader.Refetch(ctx, CredentialFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, session.SnapshotOf(data))
	}
}

type profileResponse struct {
	Profile *domain.UserProfile `json:"profile"`
	Notice  *domain.Notice      `json:"notice,omitempty"`
}

func updateProfileHandler(account *service.AccountService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/profile")
		defer span.End()

		var req domain.UpdateProfileRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		p, err := account.UpdateProfile(ctx, CredentialFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, profileResponse{Profile: p, Notice: domain.SuccessNotice("Perfil atualizado!")})
	}
}
