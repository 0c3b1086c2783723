package domain

import "time"

// ============================================================
// Auth: request / response types (dashboard contract)
// ============================================================

// BusinessLocation is the address block of the registration form.
type BusinessLocation struct {
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required,len=2"`
	ZipCode string `json:"zipCode" validate:"required"`
}

// RegisterRequest is the body for POST /v1/auth/register.
// It is forwarded as-is to the backend's POST /auth/register.
type RegisterRequest struct {
	FullName         string           `json:"fullName" validate:"required,min=2"`
	BusinessName     string           `json:"businessName" validate:"required"`
	Email            string           `json:"email" validate:"required,email"`
	WhatsappNumber   string           `json:"whatsappNumber" validate:"required,min=10"`
	Password         string           `json:"password" validate:"required,min=6"`
	ConfirmPassword  string           `json:"confirmPassword" validate:"required,eqfield=Password"`
	BusinessLocation BusinessLocation `json:"businessLocation"`
}

// LoginRequest is the body for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthSession is what the auth provider returns on sign-in.
type AuthSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
}

// LoginResponse is the body for 200 from POST /v1/auth/login and 201 from register.
// The token is also set in the sealed session cookie.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	Redirect    string `json:"redirect"`
}

// ResetPasswordEmailRequest is the body for POST /v1/auth/password/reset-email.
type ResetPasswordEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdatePasswordRequest is the body for PUT /v1/auth/password.
type UpdatePasswordRequest struct {
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}
