package observability

import (
	"time"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Advance results.
const (
	AdvanceOK      = "ok"
	AdvanceFailed  = "failed"
	AdvanceSkipped = "skipped"
)

// Metrics holds all Prometheus metrics for the BFA.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	advances        *prometheus.CounterVec
	rejectedUploads prometheus.Counter
	sessionLoads    *prometheus.CounterVec
	pairingsExpired prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. A private registry lets tests call
// NewMetrics repeatedly without "duplicate collector" panics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bfa_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		advances: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_onboarding_advances_total",
				Help: "Onboarding status advances by target status and result.",
			},
			[]string{"target", "result"},
		),
		rejectedUploads: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bfa_documents_rejected_total",
				Help: "Uploads rejected before reaching the backend (limit or type).",
			},
		),
		sessionLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_session_loads_total",
				Help: "Session snapshot loads by result.",
			},
			[]string{"result"},
		),
		pairingsExpired: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bfa_device_pairings_expired_total",
				Help: "Device pairing windows that lapsed without a connection.",
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrAdvance counts one advance attempt towards target.
func (m *Metrics) IncrAdvance(target domain.Status, result string) {
	m.advances.WithLabelValues(string(target), result).Inc()
}

// AddRejectedUploads counts files dropped before upload.
func (m *Metrics) AddRejectedUploads(n int) {
	if n > 0 {
		m.rejectedUploads.Add(float64(n))
	}
}

// IncrSessionLoad counts a session load; result is "ok" or "error".
func (m *Metrics) IncrSessionLoad(result string) {
	m.sessionLoads.WithLabelValues(result).Inc()
}

// IncrPairingExpired counts a lapsed pairing window.
func (m *Metrics) IncrPairingExpired() {
	m.pairingsExpired.Inc()
}

// GetOnboardingSnapshot returns the onboarding funnel counters for
// GET /v1/metrics/onboarding.
func (m *Metrics) GetOnboardingSnapshot() *domain.OnboardingMetrics {
	snap := &domain.OnboardingMetrics{
		Advances:        map[string]float64{},
		AdvanceFailures: map[string]float64{},
	}
	for _, target := range []domain.Status{domain.StatusOnboardingPDF, domain.StatusOnboardingRooms, domain.StatusActive} {
		snap.Advances[string(target)] = getCounterValue(m.advances, string(target), AdvanceOK)
		snap.AdvanceFailures[string(target)] = getCounterValue(m.advances, string(target), AdvanceFailed)
	}

	snap.RejectedUploads = readCounter(m.rejectedUploads)
	snap.SessionLoads = getCounterValue(m.sessionLoads, "ok")
	snap.SessionLoadErrors = getCounterValue(m.sessionLoads, "error")

	hits := getCounterValue(m.cacheHits, "session")
	misses := getCounterValue(m.cacheMisses, "session")
	if hits+misses > 0 {
		snap.CacheHitRate = hits / (hits + misses)
	}
	return snap
}

// getCounterValue extracts the current value from a CounterVec for the given labels.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	return readCounter(cv.WithLabelValues(labels...))
}

func readCounter(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
