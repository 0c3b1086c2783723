// Package onboarding drives the post-signup wizard. The step shown is
// always derived from the server-held status; nothing is persisted here.
package onboarding

import (
	"net/url"
	"strconv"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
)

// Step is a wizard screen.
type Step string

const (
	StepPlans     Step = "plans"
	StepPayment   Step = "payment"
	StepDocuments Step = "documents"
	StepRooms     Step = "rooms"
	StepDashboard Step = "dashboard"
)

var stepRank = map[Step]int{
	StepPlans:     0,
	StepPayment:   1,
	StepDocuments: 2,
	StepRooms:     3,
	StepDashboard: 4,
}

// Reconcile returns the step for status. Unknown values start over at plans.
func Reconcile(status domain.Status) Step {
	switch status {
	case domain.StatusOnboardingPlans:
		return StepPlans
	case domain.StatusOnboardingPDF:
		return StepDocuments
	case domain.StatusOnboardingRooms:
		return StepRooms
	}
	if status.OnboardingComplete() {
		return StepDashboard
	}
	return StepPlans
}

// Hint is a step requested by the URL for the first render.
type Hint struct {
	Step Step
}

// ParseHint reads ?step=documents and the older ?showUploadStep=true.
func ParseHint(q url.Values) Hint {
	if q.Get("step") == string(StepDocuments) {
		return Hint{Step: StepDocuments}
	}
	if ok, _ := strconv.ParseBool(q.Get("showUploadStep")); ok {
		return Hint{Step: StepDocuments}
	}
	return Hint{}
}

// apply returns the hinted step when it is not behind base.
func (h Hint) apply(base Step) (Step, bool) {
	if h.Step == "" || base == StepDashboard {
		return base, false
	}
	if stepRank[h.Step] < stepRank[base] {
		return base, false
	}
	return h.Step, h.Step != base
}
