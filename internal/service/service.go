// Package service holds the dashboard use cases behind the HTTP handlers:
// rooms, documents, bookings, billing, calendar, devices and account.
package service

import (
	"context"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("service")

// noopSessions is used when a service is built without a session cache.
type noopSessions struct{}

func (noopSessions) Invalidate(context.Context, string) {}
func (noopSessions) Forget(context.Context, string)     {}

func sessionsOrNoop(s port.SessionCache) port.SessionCache {
	if s == nil {
		return noopSessions{}
	}
	return s
}

func owner(cred *domain.Credential) string {
	if cred == nil {
		return ""
	}
	return cred.UserID
}
