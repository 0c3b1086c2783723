package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/sessioncookie"
	"github.com/autobooks/dashboard-bfa-go/internal/port"

	"go.uber.org/zap"
)

type contextKey string

const credentialKey contextKey = "credential"

// AuthMiddleware accepts a Bearer token or the sealed session cookie and
// puts the resulting credential in the request context. There is no
// silent refresh: an expired token is a 401.
func AuthMiddleware(tokens port.TokenValidator, cookies *sessioncookie.Sealer, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" && cookies != nil {
				token = cookies.Read(r)
			}
			if token == "" || tokens == nil {
				logger.Warn("auth: missing token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				unauthorized(w)
				return
			}

			cred, err := tokens.Validate(token)
			if err != nil {
				logger.Warn("auth: invalid or expired token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Error(err),
				)
				if cookies != nil {
					cookies.Clear(w)
				}
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), credentialKey, cred)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(w http.ResponseWriter) {
	msg := (&domain.ErrUnauthorized{}).Error()
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msg, Notice: domain.ErrorNotice(msg)})
}

// CredentialFromContext returns the authenticated credential, or nil.
func CredentialFromContext(ctx context.Context) *domain.Credential {
	c, _ := ctx.Value(credentialKey).(*domain.Credential)
	return c
}
