package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}

// OnboardingMetrics is returned by GET /v1/metrics/onboarding.
type OnboardingMetrics struct {
	Advances          map[string]float64 `json:"advances"`
	AdvanceFailures   map[string]float64 `json:"advanceFailures"`
	RejectedUploads   float64            `json:"rejectedUploads"`
	SessionLoads      float64            `json:"sessionLoads"`
	SessionLoadErrors float64            `json:"sessionLoadErrors"`
	CacheHitRate      float64            `json:"cacheHitRate"`
}

// SuccessResponse wraps a successful single-entity response.
type SuccessResponse struct {
	Message string  `json:"message"`
	ID      string  `json:"id,omitempty"`
	Notice  *Notice `json:"notice,omitempty"`
}
