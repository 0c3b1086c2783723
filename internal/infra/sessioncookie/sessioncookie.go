// Package sessioncookie seals the auth-provider access token into an
// HttpOnly cookie so the browser never handles it in script.
package sessioncookie

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

// Name is the cookie name.
const Name = "ab_session"

var errInvalid = errors.New("sessioncookie: invalid or tampered cookie")

// Sealer encrypts and authenticates cookie values with a key derived
// from the configured secret.
type Sealer struct {
	key    [32]byte
	secure bool
}

// New derives the sealing key from secret.
func New(secret string, secure bool) (*Sealer, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("sessioncookie: secret must have at least 16 characters")
	}
	s := &Sealer{secure: secure}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("autobooks session cookie v1"))
	if _, err := io.ReadFull(kdf, s.key[:]); err != nil {
		return nil, fmt.Errorf("sessioncookie: derive key: %w", err)
	}
	return s, nil
}

// Seal encrypts token.
func (s *Sealer) Seal(token string) (string, error) {
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}
	box := secretbox.Seal(nonce[:], []byte(token), &nonce, &s.key)
	return base64.RawURLEncoding.EncodeToString(box), nil
}

// Open decrypts a value produced by Seal.
func (s *Sealer) Open(value string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil || len(raw) < 24+secretbox.Overhead {
		return "", errInvalid
	}
	var nonce [24]byte
	copy(nonce[:], raw[:24])
	out, ok := secretbox.Open(nil, raw[24:], &nonce, &s.key)
	if !ok {
		return "", errInvalid
	}
	return string(out), nil
}

// Write sets the session cookie, expiring with the token.
func (s *Sealer) Write(w http.ResponseWriter, token string, expiresAt time.Time) error {
	value, err := s.Seal(token)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read returns the token from the request cookie, "" when absent or invalid.
func (s *Sealer) Read(r *http.Request) string {
	c, err := r.Cookie(Name)
	if err != nil || c.Value == "" {
		return ""
	}
	token, err := s.Open(c.Value)
	if err != nil {
		return ""
	}
	return token
}

// Clear expires the cookie.
func (s *Sealer) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
