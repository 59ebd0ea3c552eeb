package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rawa7/hightech/internal/model"
)

// =============================================================================
// MOCKS
// =============================================================================
//
// NotificationService depends on the DeviceTokenRepository and PushSender
// interfaces, so tests swap in controlled implementations and assert on the
// calls they receive.

type mockDeviceTokenRepository struct {
	saveTokenFn              func(ctx context.Context, userID int64, token, deviceType string, deviceInfo *string) (*model.SaveResult, error)
	deleteTokenFn            func(ctx context.Context, token string) (int64, error)
	deleteAllTokensForUserFn func(ctx context.Context, userID int64) (int64, error)
	listActiveForUserFn      func(ctx context.Context, userID int64) ([]model.DeviceToken, error)
	listAllActiveFn          func(ctx context.Context) ([]model.DeviceToken, error)
}

func (m *mockDeviceTokenRepository) SaveToken(ctx context.Context, userID int64, token, deviceType string, deviceInfo *string) (*model.SaveResult, error) {
	if m.saveTokenFn != nil {
		return m.saveTokenFn(ctx, userID, token, deviceType, deviceInfo)
	}
	return &model.SaveResult{Action: model.SaveActionInserted, TokenID: 1}, nil
}

func (m *mockDeviceTokenRepository) DeleteToken(ctx context.Context, token string) (int64, error) {
	if m.deleteTokenFn != nil {
		return m.deleteTokenFn(ctx, token)
	}
	return 0, nil
}

func (m *mockDeviceTokenRepository) DeleteAllTokensForUser(ctx context.Context, userID int64) (int64, error) {
	if m.deleteAllTokensForUserFn != nil {
		return m.deleteAllTokensForUserFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockDeviceTokenRepository) ListActiveTokensForUser(ctx context.Context, userID int64) ([]model.DeviceToken, error) {
	if m.listActiveForUserFn != nil {
		return m.listActiveForUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockDeviceTokenRepository) ListAllActiveTokens(ctx context.Context) ([]model.DeviceToken, error) {
	if m.listAllActiveFn != nil {
		return m.listAllActiveFn(ctx)
	}
	return nil, nil
}

type sentCall struct {
	Token string
	Title string
	Body  string
}

type mockPushSender struct {
	// Tokens listed here get a failing DeliveryResult.
	failTokens map[string]bool

	calls []sentCall
}

func (m *mockPushSender) SendToToken(ctx context.Context, token, title, body string, data model.DataPayload) model.DeliveryResult {
	m.calls = append(m.calls, sentCall{Token: token, Title: title, Body: body})
	if m.failTokens[token] {
		return model.DeliveryResult{Success: false, HTTPStatus: 404, Error: "UNREGISTERED"}
	}
	return model.DeliveryResult{Success: true, HTTPStatus: 200}
}

func (m *mockPushSender) SendToTopic(ctx context.Context, topic, title, body string, data model.DataPayload) model.DeliveryResult {
	m.calls = append(m.calls, sentCall{Token: "topic:" + topic, Title: title, Body: body})
	return model.DeliveryResult{Success: true, HTTPStatus: 200}
}

func deviceTokens(userID int64, tokens ...string) []model.DeviceToken {
	out := make([]model.DeviceToken, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, model.DeviceToken{UserID: userID, Token: t, DeviceType: model.DeviceTypeAndroid})
	}
	return out
}

// =============================================================================
// SEND TO USER
// =============================================================================

func TestNotificationService_SendToUser_NoActiveDevices(t *testing.T) {
	repo := &mockDeviceTokenRepository{
		listActiveForUserFn: func(ctx context.Context, userID int64) ([]model.DeviceToken, error) {
			return nil, nil
		},
	}
	sender := &mockPushSender{}
	svc := NewNotificationService(repo, sender)

	result, err := svc.SendToUser(context.Background(), 42, "Title", "Body", nil)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NoActiveDevices {
		t.Error("expected NoActiveDevices to be true")
	}
	if result.DevicesCount != 0 || len(result.Results) != 0 {
		t.Errorf("expected zero deliveries, got count=%d results=%d", result.DevicesCount, len(result.Results))
	}
	if len(sender.calls) != 0 {
		t.Errorf("sender called %d times, want 0", len(sender.calls))
	}
}

func TestNotificationService_SendToUser_ContinuesPastFailures(t *testing.T) {
	repo := &mockDeviceTokenRepository{
		listActiveForUserFn: func(ctx context.Context, userID int64) ([]model.DeviceToken, error) {
			return deviceTokens(7, "T1", "T2", "T3"), nil
		},
	}
	sender := &mockPushSender{failTokens: map[string]bool{"T2": true}}
	svc := NewNotificationService(repo, sender)

	result, err := svc.SendToUser(context.Background(), 7, "Title", "Body", nil)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DevicesCount != 3 {
		t.Errorf("devices_count = %d, want 3", result.DevicesCount)
	}
	if len(sender.calls) != 3 {
		t.Fatalf("sender called %d times, want 3 (failure must not abort the loop)", len(sender.calls))
	}
	if len(result.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(result.Results))
	}

	wantSuccess := []bool{true, false, true}
	for i, d := range result.Results {
		if d.Result.Success != wantSuccess[i] {
			t.Errorf("result[%d].Success = %v, want %v", i, d.Result.Success, wantSuccess[i])
		}
	}
	if result.Results[1].Result.Error != "UNREGISTERED" {
		t.Errorf("failed delivery should carry the provider error, got %q", result.Results[1].Result.Error)
	}
}

func TestNotificationService_SendToUser_StorageError(t *testing.T) {
	dbErr := errors.New("connection refused")
	repo := &mockDeviceTokenRepository{
		listActiveForUserFn: func(ctx context.Context, userID int64) ([]model.DeviceToken, error) {
			return nil, dbErr
		},
	}
	sender := &mockPushSender{}
	svc := NewNotificationService(repo, sender)

	_, err := svc.SendToUser(context.Background(), 1, "Title", "Body", nil)

	if !errors.Is(err, dbErr) {
		t.Errorf("error = %v, want wrapped %v", err, dbErr)
	}
	if len(sender.calls) != 0 {
		t.Error("sender should not be called on storage failure")
	}
}

// =============================================================================
// SEND TO USERS / BROADCAST
// =============================================================================

func TestNotificationService_SendToUsers_KeyedByUserID(t *testing.T) {
	repo := &mockDeviceTokenRepository{
		listActiveForUserFn: func(ctx context.Context, userID int64) ([]model.DeviceToken, error) {
			if userID == 2 {
				return nil, nil // user 2 has no devices
			}
			return deviceTokens(userID, fmt.Sprintf("T%d", userID)), nil
		},
	}
	sender := &mockPushSender{}
	svc := NewNotificationService(repo, sender)

	results, err := svc.SendToUsers(context.Background(), []int64{1, 2, 3}, "Title", "Body", nil)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[2] == nil || !results[2].NoActiveDevices {
		t.Error("user 2 should report no active devices")
	}
	for _, id := range []int64{1, 3} {
		if results[id].DevicesCount != 1 {
			t.Errorf("user %d devices_count = %d, want 1", id, results[id].DevicesCount)
		}
	}
	if len(sender.calls) != 2 {
		t.Errorf("sender called %d times, want 2", len(sender.calls))
	}
}

func TestNotificationService_Broadcast(t *testing.T) {
	all := append(deviceTokens(1, "A1", "A2"), deviceTokens(2, "B1")...)
	repo := &mockDeviceTokenRepository{
		listAllActiveFn: func(ctx context.Context) ([]model.DeviceToken, error) {
			return all, nil
		},
	}
	sender := &mockPushSender{failTokens: map[string]bool{"A2": true}}
	svc := NewNotificationService(repo, sender)

	result, err := svc.Broadcast(context.Background(), "Announcement", "Maintenance tonight", nil)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DevicesCount != 3 {
		t.Errorf("devices_count = %d, want 3", result.DevicesCount)
	}
	if result.SuccessCount != 2 || result.FailureCount != 1 {
		t.Errorf("success/failure = %d/%d, want 2/1", result.SuccessCount, result.FailureCount)
	}
	if len(sender.calls) != 3 {
		t.Errorf("sender called %d times, want 3", len(sender.calls))
	}
	// Per-device outcomes keep the owning user id for the aggregate report.
	if result.Results[2].UserID != 2 {
		t.Errorf("results[2].UserID = %d, want 2", result.Results[2].UserID)
	}
}

func TestNotificationService_Broadcast_NoActiveDevices(t *testing.T) {
	repo := &mockDeviceTokenRepository{
		listAllActiveFn: func(ctx context.Context) ([]model.DeviceToken, error) {
			return nil, nil
		},
	}
	sender := &mockPushSender{}
	svc := NewNotificationService(repo, sender)

	result, err := svc.Broadcast(context.Background(), "Announcement", "Maintenance tonight", nil)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NoActiveDevices {
		t.Error("expected NoActiveDevices to be true")
	}
	if result.DevicesCount != 0 || result.SuccessCount != 0 || result.FailureCount != 0 {
		t.Errorf("expected zero counts, got %+v", result)
	}
	if len(sender.calls) != 0 {
		t.Errorf("sender called %d times, want 0", len(sender.calls))
	}
}

func TestNotificationService_SendToTopic(t *testing.T) {
	svc := NewNotificationService(&mockDeviceTokenRepository{}, &mockPushSender{})

	result := svc.SendToTopic(context.Background(), "promotions", "Flash Sale!", "24 hours only", nil)

	if !result.Success {
		t.Error("expected topic send to succeed")
	}
}
