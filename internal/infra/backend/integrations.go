package backend

import (
	"context"
	"net/url"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
)

// CheckGoogle reports whether the account has a Google Calendar link.
func (c *Client) CheckGoogle(ctx context.Context, cred *domain.Credential) (*domain.CalendarStatus, error) {
	var out domain.CalendarStatus
	if err := c.do(ctx, call{ep: epGoogleCheck, cred: cred, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// DisconnectGoogle removes the calendar link.
func (c *Client) DisconnectGoogle(ctx context.Context, cred *domain.Credential) error {
	return c.do(ctx, call{ep: epGoogleDisconnect, cred: cred, body: map[string]string{}})
}

// ConnectDevice starts a pairing and returns the QR code to scan.
// The backend holds the request until the gateway produced the code.
func (c *Client) ConnectDevice(ctx context.Context, cred *domain.Credential) (*domain.DevicePairing, error) {
	var out domain.DevicePairing
	if err := c.do(ctx, call{ep: epDeviceConnect, cred: cred, body: map[string]string{"userId": cred.UserID}, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDeviceStatus polls a pairing.
func (c *Client) GetDeviceStatus(ctx context.Context, cred *domain.Credential, deviceID string) (*domain.DeviceStatus, error) {
	var out domain.DeviceStatus
	if err := c.do(ctx, call{ep: epDeviceStatus, cred: cred, args: []any{url.PathEscape(deviceID)}, out: &out}); err != nil {
		return nil, err
	}
	if out.DeviceID == "" {
		out.DeviceID = deviceID
	}
	return &out, nil
}

// DisconnectDevice unpairs the device.
func (c *Client) DisconnectDevice(ctx context.Context, cred *domain.Credential, deviceID string) error {
	return c.do(ctx, call{ep: epDeviceDisconnect, cred: cred, body: map[string]string{"deviceId": deviceID}})
}
