package handler

import (
	"net/http"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/sessioncookie"
	"github.com/autobooks/dashboard-bfa-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Autenticação
// ============================================================

func setSessionCookie(w http.ResponseWriter, cookies *sessioncookie.Sealer, sess *domain.AuthSession, logger *zap.Logger) {
	if cookies == nil || sess == nil {
		return
	}
	if err := cookies.Write(w, sess.AccessToken, sess.ExpiresAt); err != nil {
		logger.Warn("session cookie not set", zap.String("user_id", sess.UserID), zap.Error(err))
	}
}

func authRegisterHandler(account *service.AccountService, cookies *sessioncookie.Sealer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/register")
		defer span.End()

		var req domain.RegisterRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		sess, resp, err := account.Register(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		setSessionCookie(w, cookies, sess, logger)
		writeJSON(w, http.StatusCreated, resp)
	}
}

func authLoginHandler(account *service.AccountService, cookies *sessioncookie.Sealer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/login")
		defer span.End()

		var req domain.LoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		sess, resp, err := account.Login(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		setSessionCookie(w, cookies, sess, logger)
		writeJSON(w, http.StatusOK, resp)
	}
}

func authLogoutHandler(account *service.AccountService, cookies *sessioncookie.Sealer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/logout")
		defer span.End()

		if err := account.Logout(ctx, CredentialFromContext(ctx)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if cookies != nil {
			cookies.Clear(w)
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "Sessão encerrada."})
	}
}

func authResetEmailHandler(account *service.AccountService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/password/reset-email")
		defer span.End()

		var req domain.ResetPasswordEmailRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := account.SendResetEmail(ctx, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		msg := "Enviamos um link de redefinição para o seu e-mail."
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: msg, Notice: domain.SuccessNotice(msg)})
	}
}

func authUpdatePasswordHandler(account *service.AccountService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/auth/password")
		defer span.End()

		var req domain.UpdatePasswordRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := account.UpdatePassword(ctx, CredentialFromContext(ctx), &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		msg := "Senha alterada com sucesso!"
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: msg, Notice: domain.SuccessNotice(msg)})
	}
}
