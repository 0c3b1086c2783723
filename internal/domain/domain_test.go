package domain_test

import (
	"errors"
	"testing"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_NextIsForwardOnly(t *testing.T) {
	assert.Equal(t, domain.StatusOnboardingPDF, domain.StatusOnboardingPlans.Next())
	assert.Equal(t, domain.StatusOnboardingRooms, domain.StatusOnboardingPDF.Next())
	assert.Equal(t, domain.StatusActive, domain.StatusOnboardingRooms.Next())
	assert.Equal(t, domain.Status(""), domain.StatusActive.Next())
	assert.Equal(t, domain.Status(""), domain.StatusReadyToUse.Next())
}

func TestStatus_LegacyValuesRankAsActive(t *testing.T) {
	assert.True(t, domain.StatusActiveAndConnected.OnboardingComplete())
	assert.True(t, domain.StatusReadyToUse.OnboardingComplete())
	assert.False(t, domain.StatusOnboardingRooms.OnboardingComplete())
	assert.Equal(t, -1, domain.Status("bogus").Rank())
}

func TestBookingFilter_StatusThenSearch(t *testing.T) {
	bookings := []domain.Booking{
		{ID: "1", GuestName: "Ana", GuestEmail: "ana@praia.com", Status: domain.BookingPendente},
		{ID: "2", GuestName: "Bruno", GuestEmail: "bruno@praia.com", Status: domain.BookingConfirmada},
		{ID: "3", GuestName: "Carla", GuestEmail: "carla@serra.com", Status: domain.BookingConfirmada},
		{ID: "4", GuestName: "Davi", GuestEmail: "davi@praia.com", Status: domain.BookingCancelada},
	}

	var byStatus, narrowed []string
	for _, b := range bookings {
		if (domain.BookingFilter{Status: domain.BookingConfirmada}).Matches(b) {
			byStatus = append(byStatus, b.ID)
		}
		if (domain.BookingFilter{Status: domain.BookingConfirmada, Search: "PRAIA"}).Matches(b) {
			narrowed = append(narrowed, b.ID)
		}
	}

	assert.Equal(t, []string{"2", "3"}, byStatus)
	assert.Equal(t, []string{"2"}, narrowed)
}

func TestBooking_GuestFallsBackToLead(t *testing.T) {
	b := domain.Booking{Lead: &domain.Lead{Name: "Eva", Email: "eva@x.com", Phone: "11999"}}
	assert.Equal(t, "eva@x.com", b.Guest().Email)
	assert.True(t, domain.BookingFilter{Search: "eva@"}.Matches(b))
}

func TestValidate_FirstFieldError(t *testing.T) {
	err := domain.Validate(domain.RegisterRequest{
		FullName:        "Maria Souza",
		BusinessName:    "Pousada Sol",
		Email:           "maria@pousadasol.com.br",
		WhatsappNumber:  "11987654321",
		Password:        "segredo1",
		ConfirmPassword: "segredo2",
		BusinessLocation: domain.BusinessLocation{
			Address: "Rua A, 1", City: "Ubatuba", State: "SP", ZipCode: "11680-000",
		},
	})

	var ve *domain.ErrValidation
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "confirmPassword", ve.Field)
	assert.Equal(t, "As senhas não coincidem.", ve.Message)
}

func TestValidate_Room(t *testing.T) {
	room := domain.NewRoomTemplate()
	room.Name = "Suíte Master"
	room.DailyRate = 250
	require.NoError(t, domain.Validate(room))

	room.Privacy = "aberto"
	assert.Error(t, domain.Validate(room))
}

func TestNewRoomTemplate_Defaults(t *testing.T) {
	room := domain.NewRoomTemplate()
	assert.True(t, domain.IsPlaceholderRoomID(room.ID))
	assert.Equal(t, 2, room.Capacity)
	assert.Len(t, room.Amenities, len(domain.AmenityKeys))
	assert.Len(t, domain.AmenityKeys, 25)
}

func TestUpload_IsPDF(t *testing.T) {
	assert.True(t, domain.Upload{FileName: "cardapio.pdf", ContentType: domain.PDFContentType}.IsPDF())
	assert.True(t, domain.Upload{FileName: "REGRAS.PDF"}.IsPDF())
	assert.True(t, domain.Upload{FileName: "menu.pdf", ContentType: "application/octet-stream"}.IsPDF())
	assert.False(t, domain.Upload{FileName: "foto.png", ContentType: "image/png"}.IsPDF())
	assert.False(t, domain.Upload{FileName: "fake.pdf", ContentType: "image/png"}.IsPDF())
}

func TestCatalog_OnlyEssentialAvailable(t *testing.T) {
	plans := domain.Catalog(domain.PlanIDs{Essential: "price_ess", Pro: "price_pro", Business: "price_bus"})

	p, ok := domain.FindPlan(plans, "price_ess")
	require.True(t, ok)
	assert.True(t, p.Available)
	assert.True(t, p.AcceptsMethod(domain.PaymentCreditCard))
	assert.False(t, p.AcceptsMethod(domain.PaymentPix))

	p, ok = domain.FindPlan(plans, "pro")
	require.True(t, ok)
	assert.False(t, p.Available)
}

func TestResolvePaymentStatus(t *testing.T) {
	assert.Equal(t, "Pagamento Aprovado!", domain.ResolvePaymentStatus("success", "bk-1").Title)
	assert.Equal(t, "unknown", domain.ResolvePaymentStatus("weird", "").Status)
}

func TestBackendMessage_Fallback(t *testing.T) {
	assert.Equal(t, "Quarto em uso", domain.BackendMessage(&domain.ErrBackend{Status: 409, Message: "Quarto em uso"}))
	assert.Equal(t, domain.GenericErrorMessage, domain.BackendMessage(&domain.ErrBackend{Status: 500}))
	assert.Equal(t, domain.GenericErrorMessage, domain.BackendMessage(errors.New("boom")))
}
