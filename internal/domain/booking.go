package domain

import "strings"

// ============================================================
// Bookings
// ============================================================

// BookingStatus is the reservation lifecycle value.
type BookingStatus string

const (
	BookingPendente   BookingStatus = "pendente"
	BookingConfirmada BookingStatus = "confirmada"
	BookingCancelada  BookingStatus = "cancelada"
	BookingConcluida  BookingStatus = "concluida"
	BookingExpired    BookingStatus = "expired"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPendente, BookingConfirmada, BookingCancelada, BookingConcluida, BookingExpired:
		return true
	}
	return false
}

// Lead is the guest record a booking may be joined with.
type Lead struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Booking is a reservation record created by the backend / bot.
type Booking struct {
	ID         string        `json:"id"`
	GuestName  string        `json:"guest_name"`
	GuestEmail string        `json:"guest_email"`
	GuestPhone string        `json:"guest_phone"`
	Lead       *Lead         `json:"lead,omitempty"`
	RoomType   string        `json:"room_type"`
	CheckIn    string        `json:"check_in"`
	CheckOut   string        `json:"check_out"`
	TotalPrice float64       `json:"total_price"`
	Status     BookingStatus `json:"status"`
	CreatedAt  string        `json:"created_at"`
	Notes      string        `json:"notes,omitempty"`
	Adults     int           `json:"adults"`
	Children   int           `json:"children"`
}

// ItemID implements resource.Item.
func (b Booking) ItemID() string { return b.ID }

// Guest returns the guest contact, preferring the embedded fields and
// falling back to the joined lead record.
func (b Booking) Guest() Lead {
	g := Lead{Name: b.GuestName, Email: b.GuestEmail, Phone: b.GuestPhone}
	if b.Lead != nil {
		if g.Name == "" {
			g.Name = b.Lead.Name
		}
		if g.Email == "" {
			g.Email = b.Lead.Email
		}
		if g.Phone == "" {
			g.Phone = b.Lead.Phone
		}
	}
	return g
}

// BookingFilter narrows a booking list. Empty Status means all.
type BookingFilter struct {
	Status BookingStatus `json:"status,omitempty"`
	Search string        `json:"q,omitempty"`
}

// Matches reports whether b passes the filter.
func (f BookingFilter) Matches(b Booking) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	g := b.Guest()
	return strings.Contains(strings.ToLower(g.Name), term) ||
		strings.Contains(strings.ToLower(g.Email), term) ||
		strings.Contains(g.Phone, f.Search) ||
		strings.Contains(strings.ToLower(b.RoomType), term)
}

// BookingStatusUpdate is the body for POST /v1/bookings/{id}/status.
type BookingStatusUpdate struct {
	Status BookingStatus `json:"status" validate:"required,oneof=pendente confirmada cancelada concluida expired"`
}

// BookingList is the response for the bookings list.
type BookingList struct {
	Bookings []Booking     `json:"bookings"`
	Total    int           `json:"total"`
	Filter   BookingFilter `json:"filter"`
}
