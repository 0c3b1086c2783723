package service_test

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
)

// --- Mocks ---

// fakeBackend is an in-memory REST backend for the service tests.
type fakeBackend struct {
	mu sync.Mutex

	profile   *domain.UserProfile
	profErr   error
	rooms     []domain.RoomType
	roomErr   error
	nextRoom  int64
	docs      []domain.UserDocument
	uploadErr map[string]error
	bookings  []domain.Booking
	listErr   error
	updates   []string

	portal    *domain.PortalSession
	cancelled int
	balance   *domain.Balance

	google     *domain.CalendarStatus
	googleOff  int
	pairing    *domain.DevicePairing
	connectErr error
	device     string
	unpaired   []string

	registered []string
	regErr     error
	resets     []string
}

func (f *fakeBackend) GetProfile(context.Context, *domain.Credential) (*domain.UserProfile, error) {
	return f.profile, f.profErr
}

func (f *fakeBackend) UpdateProfile(_ context.Context, _ *domain.Credential, req *domain.UpdateProfileRequest) (*domain.UserProfile, error) {
	p := &domain.UserProfile{FullName: req.FullName, BusinessName: req.BusinessName, State: req.State}
	return p, nil
}

func (f *fakeBackend) UpdateStatus(context.Context, *domain.Credential, domain.Status) error {
	return nil
}

func (f *fakeBackend) SendResetPasswordEmail(_ context.Context, email string) error {
	f.resets = append(f.resets, email)
	return nil
}

func (f *fakeBackend) ListRooms(context.Context, *domain.Credential) ([]domain.RoomType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.roomErr != nil {
		return nil, f.roomErr
	}
	return append([]domain.RoomType(nil), f.rooms...), nil
}

func (f *fakeBackend) CreateRoom(_ context.Context, _ *domain.Credential, r domain.RoomType) (domain.RoomType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.roomErr != nil {
		return domain.RoomType{}, f.roomErr
	}
	f.nextRoom++
	r.ID = f.nextRoom
	f.rooms = append(f.rooms, r)
	return r, nil
}

func (f *fakeBackend) UpdateRoom(_ context.Context, _ *domain.Credential, r domain.RoomType) (domain.RoomType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rooms {
		if f.rooms[i].ID == r.ID {
			f.rooms[i] = r
			return r, nil
		}
	}
	return domain.RoomType{}, &domain.ErrBackend{Status: 404, Message: "Quarto não encontrado."}
}

func (f *fakeBackend) DeleteRoom(_ context.Context, _ *domain.Credential, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rooms {
		if f.rooms[i].ID == id {
			f.rooms = append(f.rooms[:i], f.rooms[i+1:]...)
			return nil
		}
	}
	return &domain.ErrBackend{Status: 404}
}

func (f *fakeBackend) ListDocuments(context.Context, *domain.Credential) ([]domain.UserDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.UserDocument(nil), f.docs...), nil
}

func (f *fakeBackend) UploadDocument(_ context.Context, _ *domain.Credential, up domain.Upload) (domain.UserDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.uploadErr[up.FileName]; err != nil {
		return domain.UserDocument{}, err
	}
	if up.Body != nil {
		_, _ = io.Copy(io.Discard, up.Body)
	}
	d := domain.UserDocument{ID: fmt.Sprintf("doc-%d", len(f.docs)+1), FileName: up.FileName}
	f.docs = append(f.docs, d)
	return d, nil
}

func (f *fakeBackend) DeleteDocument(_ context.Context, _ *domain.Credential, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.docs {
		if f.docs[i].ID == id {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return nil
		}
	}
	return &domain.ErrBackend{Status: 404}
}

func (f *fakeBackend) ListBookings(context.Context, *domain.Credential) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Booking(nil), f.bookings...), nil
}

func (f *fakeBackend) UpdateBookingStatus(_ context.Context, _ *domain.Credential, id string, status domain.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, id+"="+string(status))
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			f.bookings[i].Status = status
		}
	}
	return nil
}

func (f *fakeBackend) CreateSubscription(context.Context, *domain.Credential, string, string) (*domain.SubscriptionIntent, error) {
	return &domain.SubscriptionIntent{SubscriptionID: "sub_1", ClientSecret: "cs_1"}, nil
}

func (f *fakeBackend) CreatePortalSession(context.Context, *domain.Credential) (*domain.PortalSession, error) {
	return f.portal, nil
}

func (f *fakeBackend) CancelSubscription(context.Context, *domain.Credential) error {
	f.cancelled++
	return nil
}

func (f *fakeBackend) GetBalance(context.Context, *domain.Credential) (*domain.Balance, error) {
	return f.balance, nil
}

func (f *fakeBackend) CheckGoogle(context.Context, *domain.Credential) (*domain.CalendarStatus, error) {
	return f.google, nil
}

func (f *fakeBackend) DisconnectGoogle(context.Context, *domain.Credential) error {
	f.googleOff++
	return nil
}

func (f *fakeBackend) ConnectDevice(ctx context.Context, _ *domain.Credential) (*domain.DevicePairing, error) {
	if f.connectErr != nil {
		return nil, f.connectErr
	}
	if f.pairing == nil {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	p := *f.pairing
	return &p, nil
}

func (f *fakeBackend) GetDeviceStatus(_ context.Context, _ *domain.Credential, id string) (*domain.DeviceStatus, error) {
	return &domain.DeviceStatus{DeviceID: id, Status: f.device}, nil
}

func (f *fakeBackend) DisconnectDevice(_ context.Context, _ *domain.Credential, id string) error {
	f.unpaired = append(f.unpaired, id)
	return nil
}

func (f *fakeBackend) Register(_ context.Context, req *domain.RegisterRequest) error {
	if f.regErr != nil {
		return f.regErr
	}
	f.registered = append(f.registered, req.Email)
	return nil
}

// fakeSessions records cache invalidations.
type fakeSessions struct {
	mu          sync.Mutex
	invalidated []string
	forgotten   []string
}

func (s *fakeSessions) Invalidate(_ context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = append(s.invalidated, userID)
}

func (s *fakeSessions) Forget(_ context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forgotten = append(s.forgotten, userID)
}

// fakeAuth is a stub auth provider.
type fakeAuth struct {
	session  *domain.AuthSession
	err      error
	signOut  error
	outCalls int
	password string
}

func (a *fakeAuth) SignIn(_ context.Context, email, _ string) (*domain.AuthSession, error) {
	if a.err != nil {
		return nil, a.err
	}
	s := *a.session
	s.Email = email
	return &s, nil
}

func (a *fakeAuth) SignOut(context.Context, string) error {
	a.outCalls++
	return a.signOut
}

func (a *fakeAuth) UpdatePassword(_ context.Context, _, password string) error {
	a.password = password
	return nil
}

// dropRecorder records Drop calls.
type dropRecorder struct{ dropped []string }

func (d *dropRecorder) Drop(userID string) { d.dropped = append(d.dropped, userID) }

var testCred = &domain.Credential{AccessToken: "tok-1", UserID: "user-1", Email: "ana@pousada.com"}
