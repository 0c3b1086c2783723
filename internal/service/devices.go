package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
	"github.com/autobooks/dashboard-bfa-go/internal/infra/observability"
	"github.com/autobooks/dashboard-bfa-go/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultPairingTimeout is how long a QR code stays valid.
const DefaultPairingTimeout = 30 * time.Second

// DeviceService pairs the messaging device. A pairing lives for the
// pairing window; polling after it lapses reports "expired".
type DeviceService struct {
	api      port.DevicesAPI
	pairings port.Cache[domain.DevicePairing]
	timeout  time.Duration
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewDeviceService creates the device service. pairings should expire
// entries after timeout.
func NewDeviceService(api port.DevicesAPI, pairings port.Cache[domain.DevicePairing], timeout time.Duration, metrics *observability.Metrics, logger *zap.Logger) *DeviceService {
	if timeout <= 0 {
		timeout = DefaultPairingTimeout
	}
	return &DeviceService{
		api:      api,
		pairings: pairings,
		timeout:  timeout,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

func pairingKey(userID, deviceID string) string {
	return fmt.Sprintf("pairing:%s:%s", userID, deviceID)
}

// Connect starts a pairing, bounded by the pairing window.
func (s *DeviceService) Connect(ctx context.Context, cred *domain.Credential) (*domain.DevicePairing, error) {
	ctx, span := tracer.Start(ctx, "DeviceService.Connect")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	p, err := s.api.ConnectDevice(ctx, cred)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.metrics.IncrPairingExpired()
			return nil, &domain.ErrExternalService{Service: "devices", Err: fmt.Errorf("pairing window of %s elapsed: %w", s.timeout, err)}
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("device.id", p.DeviceID))

	p.ExpiresAt = s.now().Add(s.timeout)
	if err := s.pairings.Set(ctx, pairingKey(owner(cred), p.DeviceID), *p); err != nil {
		s.logger.Warn("pairing record write failed", zap.String("device_id", p.DeviceID), zap.Error(err))
	}
	s.logger.Info("device pairing started",
		zap.String("user_id", owner(cred)),
		zap.String("device_id", p.DeviceID),
		zap.Time("expires_at", p.ExpiresAt),
	)
	return p, nil
}

// Status polls a device. While the backend still reports pairing, a
// lapsed window turns into "expired" and the UI goes back to idle.
func (s *DeviceService) Status(ctx context.Context, cred *domain.Credential, deviceID string) (*domain.DeviceStatus, error) {
	ctx, span := tracer.Start(ctx, "DeviceService.Status")
	defer span.End()
	span.SetAttributes(attribute.String("device.id", deviceID))

	st, err := s.api.GetDeviceStatus(ctx, cred, deviceID)
	if err != nil {
		return nil, err
	}

	key := pairingKey(owner(cred), deviceID)
	switch st.Status {
	case domain.DeviceStateConnected, domain.DeviceStateDisconnected:
		_ = s.pairings.Delete(ctx, key)
		return st, nil
	case "", domain.DeviceStateIdle, domain.DeviceStatePairing:
		p, ok, err := s.pairings.Get(ctx, key)
		if err != nil {
			s.logger.Warn("pairing record read failed", zap.String("device_id", deviceID), zap.Error(err))
			return st, nil
		}
		if !ok || s.now().After(p.ExpiresAt) {
			_ = s.pairings.Delete(ctx, key)
			s.metrics.IncrPairingExpired()
			return &domain.DeviceStatus{DeviceID: deviceID, Status: domain.DeviceStateExpired}, nil
		}
		st.Status = domain.DeviceStatePairing
	}
	return st, nil
}

// Disconnect unpairs the device.
func (s *DeviceService) Disconnect(ctx context.Context, cred *domain.Credential, deviceID string) error {
	ctx, span := tracer.Start(ctx, "DeviceService.Disconnect")
	defer span.End()

	if err := s.api.DisconnectDevice(ctx, cred, deviceID); err != nil {
		return err
	}
	_ = s.pairings.Delete(ctx, pairingKey(owner(cred), deviceID))
	s.logger.Info("device disconnected", zap.String("user_id", owner(cred)), zap.String("device_id", deviceID))
	return nil
}
