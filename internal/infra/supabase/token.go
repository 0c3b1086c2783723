package supabase

import (
	"errors"
	"time"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access-token claims the BFA relies on.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenValidator verifies Supabase access tokens (HS256, project JWT secret).
type TokenValidator struct {
	secret []byte
	now    func() time.Time
}

// NewTokenValidator creates a validator for the project secret.
func NewTokenValidator(secret string) *TokenValidator {
	return &TokenValidator{secret: []byte(secret), now: time.Now}
}

// Validate parses tokenString and returns the credential it carries.
// Any failure, expiry included, is ErrUnauthorized: there is no silent refresh.
func (v *TokenValidator) Validate(tokenString string) (*domain.Credential, error) {
	if tokenString == "" {
		return nil, &domain.ErrUnauthorized{}
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	},
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, &domain.ErrUnauthorized{}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, &domain.ErrUnauthorized{}
	}

	return &domain.Credential{
		AccessToken: tokenString,
		UserID:      claims.Subject,
		Email:       claims.Email,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}
