package service

import (
	"context"
	"strings"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/port"
	"github.com/autobooks/dashboard-bfa-go/internal/resource"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var errBookingsReadOnly = &domain.ErrConflict{Message: "Reservas são criadas pelo assistente; só o status pode ser alterado."}

// bookingStore binds BookingsAPI to one credential. Bookings are
// read-only apart from status changes.
type bookingStore struct {
	api  port.BookingsAPI
	cred *domain.Credential
}

func (s bookingStore) List(ctx context.Context) ([]domain.Booking, error) {
	return s.api.ListBookings(ctx, s.cred)
}

func (s bookingStore) Create(context.Context, domain.Booking) (domain.Booking, error) {
	return domain.Booking{}, errBookingsReadOnly
}

func (s bookingStore) Update(context.Context, domain.Booking) (domain.Booking, error) {
	return domain.Booking{}, errBookingsReadOnly
}

func (s bookingStore) Delete(context.Context, string) error {
	return errBookingsReadOnly
}

// BookingService lists bookings and moves them between statuses.
type BookingService struct {
	api      port.BookingsAPI
	bookings *resource.Registry[string, domain.Booking]
	logger   *zap.Logger
}

// NewBookingService creates the booking service.
func NewBookingService(api port.BookingsAPI, logger *zap.Logger) *BookingService {
	return &BookingService{
		api:      api,
		bookings: resource.NewRegistry[string, domain.Booking](),
		logger:   logger,
	}
}

func (s *BookingService) manager(cred *domain.Credential) *resource.Manager[string, domain.Booking] {
	never := func(string) bool { return false }
	return resource.NewManager[string, domain.Booking]("Reserva", bookingStore{api: s.api, cred: cred}, s.bookings.For(owner(cred)), never)
}

// List fetches all bookings and applies the status filter, then the search
// term within it.
func (s *BookingService) List(ctx context.Context, cred *domain.Credential, filter domain.BookingFilter) (*domain.BookingList, error) {
	ctx, span := tracer.Start(ctx, "BookingService.List")
	defer span.End()
	span.SetAttributes(attribute.String("filter.status", string(filter.Status)))

	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, &domain.ErrValidation{Field: "status", Message: "Status de reserva inválido."}
	}

	all, err := s.manager(cred).List(ctx)
	if err != nil {
		s.logger.Warn("bookings list failed", zap.String("user_id", owner(cred)), zap.Error(err))
		return nil, err
	}

	out := make([]domain.Booking, 0, len(all))
	for _, b := range all {
		if filter.Matches(b) {
			out = append(out, b)
		}
	}
	return &domain.BookingList{Bookings: out, Total: len(out), Filter: filter}, nil
}

// UpdateStatus moves booking id to status and refetches the full list.
// The local list is never patched optimistically.
func (s *BookingService) UpdateStatus(ctx context.Context, cred *domain.Credential, id string, status domain.BookingStatus, filter domain.BookingFilter) (*domain.BookingList, error) {
	ctx, span := tracer.Start(ctx, "BookingService.UpdateStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.id", id),
		attribute.String("booking.status", string(status)),
	)

	if err := domain.Validate(domain.BookingStatusUpdate{Status: status}); err != nil {
		return nil, err
	}
	if err := s.api.UpdateBookingStatus(ctx, cred, id, status); err != nil {
		return nil, err
	}
	s.logger.Info("booking status updated",
		zap.String("user_id", owner(cred)),
		zap.String("booking_id", id),
		zap.String("status", string(status)),
	)
	return s.List(ctx, cred, filter)
}

// Drop forgets the local collection of userID.
func (s *BookingService) Drop(userID string) {
	s.bookings.Drop(userID)
}
