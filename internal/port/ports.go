// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the session,
// onboarding and service layers from concrete implementations.
package port

import (
	"context"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
)

// ============================================================
// REST backend
// ============================================================

// ProfileAPI reads and mutates the server-side user profile.
type ProfileAPI interface {
	GetProfile(ctx context.Context, cred *domain.Credential) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, cred *domain.Credential, req *domain.UpdateProfileRequest) (*domain.UserProfile, error)
	UpdateStatus(ctx context.Context, cred *domain.Credential, next domain.Status) error
	SendResetPasswordEmail(ctx context.Context, email string) error
}

// RoomsAPI is the room-type CRUD surface.
type RoomsAPI interface {
	ListRooms(ctx context.Context, cred *domain.Credential) ([]domain.RoomType, error)
	CreateRoom(ctx context.Context, cred *domain.Credential, room domain.RoomType) (domain.RoomType, error)
	UpdateRoom(ctx context.Context, cred *domain.Credential, room domain.RoomType) (domain.RoomType, error)
	DeleteRoom(ctx context.Context, cred *domain.Credential, id int64) error
}

// DocumentsAPI is the knowledge-base document surface.
type DocumentsAPI interface {
	ListDocuments(ctx context.Context, cred *domain.Credential) ([]domain.UserDocument, error)
	UploadDocument(ctx context.Context, cred *domain.Credential, up domain.Upload) (domain.UserDocument, error)
	DeleteDocument(ctx context.Context, cred *domain.Credential, id string) error
}

// BookingsAPI is read-only except for status transitions.
type BookingsAPI interface {
	ListBookings(ctx context.Context, cred *domain.Credential) ([]domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, cred *domain.Credential, id string, status domain.BookingStatus) error
}

// BillingAPI delegates subscription management to the backend's Stripe routes.
type BillingAPI interface {
	CreateSubscription(ctx context.Context, cred *domain.Credential, priceID, idempotencyKey string) (*domain.SubscriptionIntent, error)
	CreatePortalSession(ctx context.Context, cred *domain.Credential) (*domain.PortalSession, error)
	CancelSubscription(ctx context.Context, cred *domain.Credential) error
	GetBalance(ctx context.Context, cred *domain.Credential) (*domain.Balance, error)
}

// CalendarAPI reports and removes the Google Calendar link.
type CalendarAPI interface {
	CheckGoogle(ctx context.Context, cred *domain.Credential) (*domain.CalendarStatus, error)
	DisconnectGoogle(ctx context.Context, cred *domain.Credential) error
}

// DevicesAPI pairs the messaging device used by the assistant.
type DevicesAPI interface {
	ConnectDevice(ctx context.Context, cred *domain.Credential) (*domain.DevicePairing, error)
	GetDeviceStatus(ctx context.Context, cred *domain.Credential, deviceID string) (*domain.DeviceStatus, error)
	DisconnectDevice(ctx context.Context, cred *domain.Credential, deviceID string) error
}

// RegistrationAPI creates the account and its profile on the backend.
type RegistrationAPI interface {
	Register(ctx context.Context, req *domain.RegisterRequest) error
}

// Backend is everything the BFA consumes from the REST backend.
type Backend interface {
	ProfileAPI
	RoomsAPI
	DocumentsAPI
	BookingsAPI
	BillingAPI
	CalendarAPI
	DevicesAPI
	RegistrationAPI
	Ping(ctx context.Context) error
}

// ============================================================
// Auth provider & payments
// ============================================================

// AuthProvider signs users in and out and changes passwords.
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	UpdatePassword(ctx context.Context, accessToken, password string) error
}

// TokenValidator turns an access token into a Credential.
type TokenValidator interface {
	Validate(token string) (*domain.Credential, error)
}

// PaymentVerifier confirms a subscription with the payment processor.
type PaymentVerifier interface {
	// VerifySubscription returns the processor's status for the subscription,
	// whether it counts as paid and the customer that owns it.
	VerifySubscription(ctx context.Context, subscriptionID string) (*domain.SubscriptionCheck, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(ctx context.Context, key string) (T, bool, error)
	Set(ctx context.Context, key string, value T) error
	Delete(ctx context.Context, key string) error
}

// SessionSource is what the session loader reads to build UserData.
type SessionSource interface {
	GetProfile(ctx context.Context, cred *domain.Credential) (*domain.UserProfile, error)
	ListRooms(ctx context.Context, cred *domain.Credential) ([]domain.RoomType, error)
	ListDocuments(ctx context.Context, cred *domain.Credential) ([]domain.UserDocument, error)
	CheckGoogle(ctx context.Context, cred *domain.Credential) (*domain.CalendarStatus, error)
}

// SessionCache lets state-changing operations drop the cached snapshot.
type SessionCache interface {
	Invalidate(ctx context.Context, userID string)
	Forget(ctx context.Context, userID string)
}

// DocumentUploader uploads a batch of files under the account limit.
type DocumentUploader interface {
	UploadBatch(ctx context.Context, cred *domain.Credential, files []domain.Upload) (*domain.UploadResult, error)
}
