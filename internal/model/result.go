package model

import "encoding/json"

// DeliveryResult is the outcome of one provider call for one destination.
// Success is true iff the provider answered HTTP 200. Response carries the
// provider's body verbatim; Error is set for transport or credential failures
// that never reached the provider.
type DeliveryResult struct {
	Success    bool            `json:"success"`
	HTTPStatus int             `json:"http_code"`
	Response   json.RawMessage `json:"response,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// DeviceDelivery pairs a delivery outcome with the device it targeted.
type DeviceDelivery struct {
	UserID     int64          `json:"user_id,omitempty"`
	DeviceType string         `json:"device_type"`
	DeviceInfo string         `json:"device_info,omitempty"`
	Result     DeliveryResult `json:"result"`
}

// UserDispatchResult aggregates per-device outcomes for one user.
type UserDispatchResult struct {
	BatchID         string           `json:"batch_id"`
	UserID          int64            `json:"user_id"`
	NoActiveDevices bool             `json:"no_active_devices,omitempty"`
	DevicesCount    int              `json:"devices_count"`
	Results         []DeviceDelivery `json:"results"`
}

// BroadcastResult aggregates per-device outcomes across all users.
type BroadcastResult struct {
	BatchID         string           `json:"batch_id"`
	NoActiveDevices bool             `json:"no_active_devices,omitempty"`
	DevicesCount    int              `json:"devices_count"`
	SuccessCount    int              `json:"success_count"`
	FailureCount    int              `json:"failure_count"`
	Results         []DeviceDelivery `json:"results"`
}
