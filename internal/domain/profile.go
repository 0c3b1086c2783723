package domain

import "time"

// ============================================================
// User profile & session data
// ============================================================

// Status is the server-side onboarding lifecycle value that drives routing.
type Status string

const (
	StatusOnboardingPlans Status = "onboarding_plans"
	StatusOnboardingPDF   Status = "onboarding_pdf"
	StatusOnboardingRooms Status = "onboarding_rooms"
	StatusActive          Status = "active"

	// Legacy values found in stored profiles. Never produced by this service.
	StatusActiveAndConnected Status = "activeAndConnected"
	StatusReadyToUse         Status = "readyToUse"
)

// statusRank orders the lifecycle. Legacy values rank with active.
var statusRank = map[Status]int{
	StatusOnboardingPlans:    0,
	StatusOnboardingPDF:      1,
	StatusOnboardingRooms:    2,
	StatusActive:             3,
	StatusActiveAndConnected: 3,
	StatusReadyToUse:         3,
}

// Known reports whether s is a recognized status value.
func (s Status) Known() bool {
	_, ok := statusRank[s]
	return ok
}

// Rank returns the position of s in the lifecycle, or -1 if unknown.
func (s Status) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

// Next returns the status that follows s, or "" when s is terminal or unknown.
func (s Status) Next() Status {
	switch s {
	case StatusOnboardingPlans:
		return StatusOnboardingPDF
	case StatusOnboardingPDF:
		return StatusOnboardingRooms
	case StatusOnboardingRooms:
		return StatusActive
	}
	return ""
}

// OnboardingComplete reports whether the dashboard is fully unlocked.
func (s Status) OnboardingComplete() bool {
	return s.Rank() >= statusRank[StatusActive]
}

// UserProfile is the authoritative server-side record.
type UserProfile struct {
	ID             string     `json:"id"`
	UpdatedAt      *time.Time `json:"updated_at"`
	FullName       string     `json:"full_name"`
	BusinessName   string     `json:"business_name"`
	WhatsappNumber string     `json:"whatsapp_number"`
	Address        string     `json:"address"`
	City           string     `json:"city"`
	State          string     `json:"state"`
	ZipCode        string     `json:"zip_code"`
	Status         Status     `json:"status"`

	// Billing (nullable until the first subscription)
	StripeID           *string    `json:"stripe_id"`
	SubscriptionID     *string    `json:"subscription_id"`
	PriceID            *string    `json:"price_id"`
	SubscriptionStatus *string    `json:"subscription_status"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end"`

	// Email comes from the auth provider session, never from the profile store.
	Email string `json:"email,omitempty"`
}

// UserData is the merged snapshot served to the dashboard.
type UserData struct {
	Profile              UserProfile    `json:"profile"`
	Rooms                []RoomType     `json:"rooms"`
	Documents            []UserDocument `json:"documents"`
	HasGoogleIntegration bool           `json:"hasGoogleIntegration"`
	LoadedAt             time.Time      `json:"loadedAt"`
}

// UpdateProfileRequest is the body for PUT /v1/profile.
type UpdateProfileRequest struct {
	FullName       string `json:"full_name" validate:"required,min=2"`
	BusinessName   string `json:"business_name" validate:"required"`
	WhatsappNumber string `json:"whatsapp_number" validate:"required,min=10"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state" validate:"omitempty,len=2"`
	ZipCode        string `json:"zip_code"`
}

// Credential is the auth provider session attached to a request.
type Credential struct {
	AccessToken string
	UserID      string
	Email       string
	ExpiresAt   time.Time
}
