package observability_test

import (
	"testing"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/observability"
)

func TestGetOnboardingSnapshot(t *testing.T) {
	m := observability.NewMetrics()

	m.IncrAdvance(domain.StatusOnboardingPDF, observability.AdvanceOK)
	m.IncrAdvance(domain.StatusActive, observability.AdvanceOK)
	m.IncrAdvance(domain.StatusActive, observability.AdvanceFailed)
	m.AddRejectedUploads(2)
	m.AddRejectedUploads(0)
	m.IncrCacheHit("session")
	m.IncrCacheMiss("session")
	m.IncrCacheMiss("session")
	m.IncrSessionLoad("ok")

	snap := m.GetOnboardingSnapshot()

	if snap.Advances["active"] != 1 || snap.AdvanceFailures["active"] != 1 {
		t.Errorf("unexpected active counters: %+v / %+v", snap.Advances, snap.AdvanceFailures)
	}
	if snap.Advances["onboarding_rooms"] != 0 {
		t.Errorf("expected no rooms advance, got %v", snap.Advances["onboarding_rooms"])
	}
	if snap.RejectedUploads != 2 {
		t.Errorf("expected 2 rejected uploads, got %v", snap.RejectedUploads)
	}
	if snap.SessionLoads != 1 {
		t.Errorf("expected 1 session load, got %v", snap.SessionLoads)
	}
	if got := snap.CacheHitRate; got < 0.33 || got > 0.34 {
		t.Errorf("expected hit rate ~0.333, got %v", got)
	}
}

func TestNewMetrics_Repeatable(t *testing.T) {
	// A private registry per instance must not panic on re-registration.
	_ = observability.NewMetrics()
	_ = observability.NewMetrics()
}
