package backend

import (
	"context"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
)

type bookingsEnvelope struct {
	Bookings []domain.Booking `json:"bookings"`
	Data     []domain.Booking `json:"data"`
}

// ListBookings returns every booking of the account.
func (c *Client) ListBookings(ctx context.Context, cred *domain.Credential) ([]domain.Booking, error) {
	var env bookingsEnvelope
	if err := c.do(ctx, call{ep: epListBookings, cred: cred, out: &env}); err != nil {
		return nil, err
	}
	switch {
	case env.Bookings != nil:
		return env.Bookings, nil
	case env.Data != nil:
		return env.Data, nil
	}
	return []domain.Booking{}, nil
}

// UpdateBookingStatus moves a booking to status.
func (c *Client) UpdateBookingStatus(ctx context.Context, cred *domain.Credential, id string, status domain.BookingStatus) error {
	return c.do(ctx, call{
		ep:   epUpdateBooking,
		cred: cred,
		body: map[string]string{"bookingId": id, "status": string(status)},
	})
}
