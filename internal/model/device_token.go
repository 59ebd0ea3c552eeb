package model

import (
	"errors"
	"time"
)

// DeviceToken represents a user's registered device for push notifications.
// A user may have several active devices; a token belongs to exactly one user
// at a time. Rows are soft-deleted: is_active=false excludes them from delivery.
type DeviceToken struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	Token      string    `db:"fcm_token" json:"fcm_token"`
	DeviceType string    `db:"device_type" json:"device_type"` // "android", "ios", "web"
	DeviceInfo *string   `db:"device_info" json:"device_info,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
	LastUsedAt time.Time `db:"last_used_at" json:"last_used_at"`
	IsActive   bool      `db:"is_active" json:"is_active"`
}

// SaveTokenRequest is the request body for the save action.
type SaveTokenRequest struct {
	UserID     int64   `json:"user_id"`
	Token      string  `json:"fcm_token"`
	DeviceType string  `json:"device_type"`
	DeviceInfo *string `json:"device_info"`
}

// DeleteTokenRequest is the request body for the delete action.
type DeleteTokenRequest struct {
	Token string `json:"fcm_token"`
}

// DeleteUserTokensRequest is the request body for the delete_by_user action.
type DeleteUserTokensRequest struct {
	UserID int64 `json:"user_id"`
}

// Save branch taken by the token store.
const (
	SaveActionInserted = "inserted"
	SaveActionUpdated  = "updated"
)

// SaveResult reports which branch SaveToken took. TokenID is set only for
// freshly inserted rows.
type SaveResult struct {
	Action  string
	TokenID int64
}

// Device type constants
const (
	DeviceTypeAndroid = "android"
	DeviceTypeIOS     = "ios"
	DeviceTypeWeb     = "web"
)

var (
	// ErrTokenNotFound is returned when a device token cannot be found
	ErrTokenNotFound = errors.New("fcm token not found")

	// ErrInvalidRequest is returned when required input is missing or malformed
	ErrInvalidRequest = errors.New("invalid request")

	// ErrCredentialNotFound is returned when the service account file is absent
	ErrCredentialNotFound = errors.New("service account file not found")

	// ErrInvalidCredential is returned when the service account JSON or key is unusable
	ErrInvalidCredential = errors.New("invalid service account credential")

	// ErrTokenExchangeFailed is returned when the identity provider rejects the assertion
	ErrTokenExchangeFailed = errors.New("access token exchange failed")
)
