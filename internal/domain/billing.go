package domain

// ============================================================
// Plans & billing
// ============================================================

// Payment methods.
const (
	PaymentCreditCard = "credit_card"
	PaymentPix        = "pix"
)

// Plan is one subscription offer.
type Plan struct {
	ID        string   `json:"id"` // Stripe price id
	Key       string   `json:"key"`
	Name      string   `json:"name"`
	Price     string   `json:"price"`
	Slogan    string   `json:"slogan"`
	Features  []string `json:"features"`
	Popular   bool     `json:"popular"`
	Available bool     `json:"available"`
	Methods   []string `json:"paymentMethods"`
}

// AcceptsMethod reports whether the plan can be paid with method.
func (p Plan) AcceptsMethod(method string) bool {
	for _, m := range p.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// PlanIDs carries the configured price ids for each plan.
type PlanIDs struct {
	Essential string
	Pro       string
	Business  string
}

// Catalog returns the plan list shown on the plan-selection step.
// Only the essential plan is sold today.
func Catalog(ids PlanIDs) []Plan {
	return []Plan{
		{
			ID:     ids.Essential,
			Key:    "essential",
			Name:   "Essencial",
			Price:  "R$ 97/mês",
			Slogan: "A automação completa para suas reservas no WhatsApp.",
			Features: []string{
				"Assistente de IA 24/7 (Alfred) no WhatsApp",
				"IA treinada com seu conhecimento (PDFs)",
				"Verificação de Disponibilidade em Tempo Real",
				"Criação de Pré-Reservas com Link de Pagamento",
				"Recebimento de Pagamentos via Cartão (Stripe)",
				"Saques Diários e Automáticos para sua conta",
				"Sincronização com Google Agenda",
			},
			Popular:   true,
			Available: true,
			Methods:   []string{PaymentCreditCard},
		},
		{
			ID:     ids.Pro,
			Key:    "pro",
			Name:   "Pro",
			Price:  "R$ 197/mês",
			Slogan: "Organize seus clientes e maximize suas vendas.",
			Features: []string{
				"Tudo do plano Essencial, e mais:",
				"CRM Completo para gestão de leads e hóspedes",
				"Histórico de conversas centralizado",
				"Funil de Vendas Visual (Kanban)",
				"Relatórios de Atendimento e Reservas",
			},
			Popular: true,
			Methods: []string{PaymentCreditCard},
		},
		{
			ID:     ids.Business,
			Key:    "business",
			Name:   "Business",
			Price:  "R$ 297/mês",
			Slogan: "Domine todos os canais e fidelize seus clientes.",
			Features: []string{
				"Tudo do plano Pro, e mais:",
				"Conexão Multi-canal (Instagram e Facebook Messenger)",
				"Ferramentas de Pós-Marketing",
				"Campanhas de Reengajamento",
				"Google Follow Up",
				"Dashboard Executivo com Métricas Avançadas",
			},
			Methods: []string{PaymentCreditCard},
		},
	}
}

// FindPlan looks a plan up by price id or key.
func FindPlan(plans []Plan, id string) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id || p.Key == id {
			return p, true
		}
	}
	return Plan{}, false
}

// SubscriptionIntent is returned by POST /stripe/create-subscription.
type SubscriptionIntent struct {
	SubscriptionID string `json:"subscriptionId"`
	ClientSecret   string `json:"clientSecret"`
}

// SubscriptionCheck is the processor's view of a subscription.
type SubscriptionCheck struct {
	Status     string
	Paid       bool // active or trialing
	CustomerID string
}

// PortalSession is returned by POST /stripe/create-portal-session.
type PortalSession struct {
	URL string `json:"url"`
}

// Balance is returned by GET /stripe/balance (amounts in cents).
type Balance struct {
	Available int64  `json:"available"`
	Pending   int64  `json:"pending"`
	Currency  string `json:"currency"`
}

// PaymentStatus is the resolved outcome of a booking payment redirect.
type PaymentStatus struct {
	BookingID string `json:"bookingId,omitempty"`
	Status    string `json:"status"`
	Title     string `json:"title"`
	Message   string `json:"message"`
}

// ResolvePaymentStatus maps the redirect query flag to what the guest sees.
func ResolvePaymentStatus(status, bookingID string) PaymentStatus {
	ps := PaymentStatus{BookingID: bookingID, Status: status}
	switch status {
	case "success":
		ps.Title = "Pagamento Aprovado!"
		ps.Message = "Sua reserva foi confirmada com sucesso."
	case "cancelled":
		ps.Title = "Pagamento Cancelado"
		ps.Message = "O pagamento foi cancelado."
	default:
		ps.Status = "unknown"
		ps.Title = "Status Desconhecido"
		ps.Message = "Não foi possível determinar o status do pagamento."
	}
	return ps
}
