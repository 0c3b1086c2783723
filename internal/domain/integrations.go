package domain

import "time"

// ============================================================
// Calendar & messaging device integrations
// ============================================================

// CalendarStatus is the Google Calendar connection state.
type CalendarStatus struct {
	Connected bool   `json:"connected"`
	Email     string `json:"email,omitempty"`
}

// Device pairing states.
const (
	DeviceStateIdle         = "idle"
	DeviceStatePairing      = "pairing"
	DeviceStateConnected    = "connected"
	DeviceStateExpired      = "expired"
	DeviceStateDisconnected = "disconnected"
)

// DevicePairing is returned by POST /devices/connect.
type DevicePairing struct {
	DeviceID  string    `json:"deviceId"`
	QRCode    string    `json:"qrCode"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DeviceStatus is returned by GET /devices/status/:deviceId.
type DeviceStatus struct {
	DeviceID    string `json:"deviceId"`
	Status      string `json:"status"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}
