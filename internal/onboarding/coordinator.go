package onboarding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/observability"
	"github.com/autobooks/dashboard-bfa-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("onboarding")

// RedirectDashboard is where the wizard sends a finished account.
const RedirectDashboard = "/dashboard"

// View is what the wizard renders.
type View struct {
	Step           Step                  `json:"step"`
	Status         domain.Status         `json:"status"`
	Hinted         bool                  `json:"hinted,omitempty"`
	Redirect       string                `json:"redirect,omitempty"`
	Plans          []domain.Plan         `json:"plans,omitempty"`
	Plan           *domain.Plan          `json:"plan,omitempty"`
	PaymentMethod  string                `json:"paymentMethod,omitempty"`
	ClientSecret   string                `json:"clientSecret,omitempty"`
	SubscriptionID string                `json:"subscriptionId,omitempty"`
	Documents      []domain.UserDocument `json:"documents,omitempty"`
	DocumentLimit  int                   `json:"documentLimit,omitempty"`
	Rooms          []domain.RoomType     `json:"rooms,omitempty"`
	Upload         *domain.UploadResult  `json:"upload,omitempty"`
	Notice         *domain.Notice        `json:"notice,omitempty"`
}

// Documents is the document side of the wizard.
type Documents interface {
	port.DocumentUploader
	List(ctx context.Context, cred *domain.Credential) ([]domain.UserDocument, error)
	Limit() int
}

// Rooms is the room side of the wizard.
type Rooms interface {
	List(ctx context.Context, cred *domain.Credential) ([]domain.RoomType, error)
	CountSaved(ctx context.Context, cred *domain.Credential) (int, error)
}

// Deps groups the coordinator's collaborators.
type Deps struct {
	Profile   port.ProfileAPI
	Billing   port.BillingAPI
	Payments  port.PaymentVerifier
	Documents Documents
	Rooms     Rooms
	Sessions  port.SessionCache
	Plans     []domain.Plan
	Metrics   *observability.Metrics
	Logger    *zap.Logger
}

// Coordinator runs the wizard steps and advances the status.
type Coordinator struct {
	Deps

	mu      sync.Mutex
	started map[string]string // user id -> subscription id from SelectPlan
}

// NewCoordinator creates an onboarding coordinator.
func NewCoordinator(d Deps) *Coordinator {
	return &Coordinator{Deps: d, started: make(map[string]string)}
}

// Resume renders the step for the current status. The status is always
// read fresh. hint is honored for this render only.
func (c *Coordinator) Resume(ctx context.Context, cred *domain.Credential, hint Hint) (*View, error) {
	ctx, span := tracer.Start(ctx, "Coordinator.Resume")
	defer span.End()

	status, err := c.status(ctx, cred)
	if err != nil {
		return nil, err
	}
	step, hinted := hint.apply(Reconcile(status))
	span.SetAttributes(attribute.String("onboarding.step", string(step)), attribute.Bool("onboarding.hinted", hinted))

	v, err := c.render(ctx, cred, status, step)
	if err != nil {
		return nil, err
	}
	v.Hinted = hinted
	return v, nil
}

// SelectPlan starts the subscription for planID and moves to payment.
// Nothing is advanced on the server until the payment is confirmed.
func (c *Coordinator) SelectPlan(ctx context.Context, cred *domain.Credential, planID, method string) (*View, error) {
	ctx, span := tracer.Start(ctx, "Coordinator.SelectPlan")
	defer span.End()
	span.SetAttributes(attribute.String("plan.id", planID), attribute.String("payment.method", method))

	status, err := c.status(ctx, cred)
	if err != nil {
		return nil, err
	}
	if status.Rank() > domain.StatusOnboardingPlans.Rank() {
		return c.render(ctx, cred, status, Reconcile(status))
	}

	plan, ok := domain.FindPlan(c.Plans, planID)
	if !ok {
		return nil, &domain.ErrValidation{Field: "planId", Message: "Plano não encontrado."}
	}
	if !plan.Available {
		return nil, &domain.ErrValidation{Field: "planId", Message: fmt.Sprintf("O plano %s estará disponível em breve.", plan.Name)}
	}
	if method == "" {
		method = domain.PaymentCreditCard
	}
	if !plan.AcceptsMethod(method) {
		return nil, &domain.ErrValidation{Field: "paymentMethod", Message: "Forma de pagamento indisponível para este plano."}
	}

	intent, err := c.Billing.CreateSubscription(ctx, cred, plan.ID, uuid.NewString())
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.started[cred.UserID] = intent.SubscriptionID
	c.mu.Unlock()
	c.Logger.Info("subscription started",
		zap.String("user_id", cred.UserID),
		zap.String("plan", plan.Key),
		zap.String("subscription_id", intent.SubscriptionID),
	)
	return &View{
		Step:           StepPayment,
		Status:         status,
		Plan:           &plan,
		PaymentMethod:  method,
		ClientSecret:   intent.ClientSecret,
		SubscriptionID: intent.SubscriptionID,
	}, nil
}

// ConfirmPayment checks the subscription with the processor, then
// advances to the documents step.
func (c *Coordinator) ConfirmPayment(ctx context.Context, cred *domain.Credential, subscriptionID string) (*View, error) {
	ctx, span := tracer.Start(ctx, "Coordinator.ConfirmPayment")
	defer span.End()

	profile, err := c.profile(ctx, cred)
	if err != nil {
		return nil, err
	}
	status := profile.Status
	target := domain.StatusOnboardingPDF
	if skip, err := c.guard(status, target); err != nil || skip {
		return c.skipOr(ctx, cred, status, target, err)
	}

	if c.Payments == nil {
		return nil, &domain.ErrExternalService{Service: "stripe", Err: errors.New("payment verifier not configured")}
	}
	check, err := c.Payments.VerifySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if !c.owns(cred, profile, subscriptionID, check) {
		c.Metrics.IncrAdvance(target, observability.AdvanceFailed)
		c.Logger.Warn("subscription not owned by caller",
			zap.String("user_id", cred.UserID),
			zap.String("subscription_id", subscriptionID),
			zap.String("customer_id", check.CustomerID),
		)
		return nil, &domain.ErrConflict{Message: "Assinatura não pertence a esta conta."}
	}
	if !check.Paid {
		c.Logger.Info("payment not confirmed", zap.String("user_id", cred.UserID), zap.String("stripe_status", check.Status))
		return nil, &domain.ErrConflict{Message: "Pagamento ainda não confirmado."}
	}

	if err := c.advance(ctx, cred, status, target, StepPayment); err != nil {
		return nil, err
	}
	c.mu.Lock()
	delete(c.started, cred.UserID)
	c.mu.Unlock()
	v, err := c.render(ctx, cred, target, StepDocuments)
	if err != nil {
		return nil, err
	}
	v.Notice = domain.SuccessNotice("Pagamento confirmado!")
	return v, nil
}

// SubmitDocuments uploads the files and advances to rooms once every
// upload succeeded and the account holds at least one document.
func (c *Coordinator) SubmitDocuments(ctx context.Context, cred *domain.Credential, files []domain.Upload) (*View, error) {
	ctx, span := tracer.Start(ctx, "Coordinator.SubmitDocuments")
	defer span.End()
	span.SetAttributes(attribute.Int("files", len(files)))

	status, err := c.status(ctx, cred)
	if err != nil {
		return nil, err
	}
	target := domain.StatusOnboardingRooms
	if skip, err := c.guard(status, target); err != nil || skip {
		return c.skipOr(ctx, cred, status, target, err)
	}

	res, err := c.Documents.UploadBatch(ctx, cred, files)
	switch {
	case err != nil && !isLimitExceeded(err):
		return nil, err
	case res == nil:
		return nil, &domain.ErrExternalService{Service: "documents", Err: errors.New("empty upload result")}
	}

	if !res.AllSucceeded() || res.Total < 1 {
		v, err := c.render(ctx, cred, status, StepDocuments)
		if err != nil {
			return nil, err
		}
		v.Upload = res
		v.Notice = res.Notice
		return v, nil
	}

	if err := c.advance(ctx, cred, status, target, StepDocuments); err != nil {
		return nil, err
	}
	v, err := c.render(ctx, cred, target, StepRooms)
	if err != nil {
		return nil, err
	}
	v.Upload = res
	v.Notice = res.Notice
	return v, nil
}

// Finish closes the wizard. At least one room must be saved.
func (c *Coordinator) Finish(ctx context.Context, cred *domain.Credential) (*View, error) {
	ctx, span := tracer.Start(ctx, "Coordinator.Finish")
	defer span.End()

	status, err := c.status(ctx, cred)
	if err != nil {
		return nil, err
	}
	target := domain.StatusActive
	if skip, err := c.guard(status, target); err != nil || skip {
		return c.skipOr(ctx, cred, status, target, err)
	}

	saved, err := c.Rooms.CountSaved(ctx, cred)
	if err != nil {
		return nil, err
	}
	if saved == 0 {
		return nil, &domain.ErrValidation{Field: "rooms", Message: "Cadastre pelo menos um quarto para continuar."}
	}

	if err := c.advance(ctx, cred, status, target, StepRooms); err != nil {
		return nil, err
	}
	return &View{
		Step:     StepDashboard,
		Status:   target,
		Redirect: RedirectDashboard,
		Notice:   domain.SuccessNotice("Configuração concluída!"),
	}, nil
}

// ============================================================
// Status guard
// ============================================================

func (c *Coordinator) status(ctx context.Context, cred *domain.Credential) (domain.Status, error) {
	p, err := c.profile(ctx, cred)
	if err != nil {
		return "", err
	}
	return p.Status, nil
}

func (c *Coordinator) profile(ctx context.Context, cred *domain.Credential) (*domain.UserProfile, error) {
	if cred == nil {
		return nil, &domain.ErrUnauthorized{}
	}
	p, err := c.Profile.GetProfile(ctx, cred)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &domain.ErrNotFound{Resource: "profile", ID: cred.UserID}
	}
	return p, nil
}

// owns reports whether subscriptionID belongs to the caller: same Stripe
// customer, the subscription on the profile, or the one SelectPlan started.
func (c *Coordinator) owns(cred *domain.Credential, p *domain.UserProfile, subscriptionID string, check *domain.SubscriptionCheck) bool {
	if p.StripeID != nil && *p.StripeID != "" && check.CustomerID == *p.StripeID {
		return true
	}
	if p.SubscriptionID != nil && *p.SubscriptionID == subscriptionID {
		return true
	}
	if subscriptionID == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started[cred.UserID] == subscriptionID
}

// guard reports whether target is already reached (skip) or cannot be
// reached from current in one step.
func (c *Coordinator) guard(current, target domain.Status) (bool, error) {
	if current.Rank() >= target.Rank() {
		return true, nil
	}
	if current.Next() != target {
		return false, &domain.ErrConflict{Message: fmt.Sprintf("Etapa %s ainda não concluída.", Reconcile(current))}
	}
	return false, nil
}

// skipOr answers a guarded call: the rederived view when the target was
// already reached, err otherwise.
func (c *Coordinator) skipOr(ctx context.Context, cred *domain.Credential, status, target domain.Status, err error) (*View, error) {
	if err != nil {
		c.Metrics.IncrAdvance(target, observability.AdvanceFailed)
		return nil, err
	}
	c.Metrics.IncrAdvance(target, observability.AdvanceSkipped)
	c.Logger.Debug("advance skipped", zap.String("user_id", cred.UserID), zap.String("status", string(status)), zap.String("target", string(target)))
	return c.render(ctx, cred, status, Reconcile(status))
}

// advance moves the server status from current to target. It is called
// only after the step's side effect resolved.
func (c *Coordinator) advance(ctx context.Context, cred *domain.Credential, current, target domain.Status, step Step) error {
	ctx, span := tracer.Start(ctx, "Coordinator.advance")
	defer span.End()
	span.SetAttributes(attribute.String("onboarding.target", string(target)))

	if err := c.Profile.UpdateStatus(ctx, cred, target); err != nil {
		c.Metrics.IncrAdvance(target, observability.AdvanceFailed)
		c.Logger.Warn("advance failed",
			zap.String("user_id", cred.UserID),
			zap.String("status", string(current)),
			zap.String("target", string(target)),
			zap.Error(err),
		)
		return &domain.ErrStepNotAdvanced{Current: string(step), Target: target, Err: err}
	}
	c.Metrics.IncrAdvance(target, observability.AdvanceOK)
	if c.Sessions != nil {
		c.Sessions.Invalidate(ctx, cred.UserID)
	}
	c.Logger.Info("onboarding advanced",
		zap.String("user_id", cred.UserID),
		zap.String("status", string(current)),
		zap.String("target", string(target)),
	)
	return nil
}

// render loads what step shows.
func (c *Coordinator) render(ctx context.Context, cred *domain.Credential, status domain.Status, step Step) (*View, error) {
	v := &View{Step: step, Status: status}
	switch step {
	case StepPlans:
		v.Plans = c.Plans
	case StepDocuments:
		docs, err := c.Documents.List(ctx, cred)
		if err != nil {
			return nil, err
		}
		v.Documents = docs
		v.DocumentLimit = c.Documents.Limit()
	case StepRooms:
		rooms, err := c.Rooms.List(ctx, cred)
		if err != nil {
			return nil, err
		}
		v.Rooms = rooms
	case StepDashboard:
		v.Redirect = RedirectDashboard
	}
	return v, nil
}

func isLimitExceeded(err error) bool {
	var le *domain.ErrLimitExceeded
	return errors.As(err, &le)
}
