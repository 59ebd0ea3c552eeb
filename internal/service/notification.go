package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/rawa7/hightech/internal/model"
	"github.com/rawa7/hightech/internal/repository"
)

// PushSender delivers one notification to one destination. FCMClient is the
// production implementation; tests substitute their own.
type PushSender interface {
	SendToToken(ctx context.Context, token, title, body string, data model.DataPayload) model.DeliveryResult
	SendToTopic(ctx context.Context, topic, title, body string, data model.DataPayload) model.DeliveryResult
}

// NotificationService composes the token store and the push sender into
// user-level dispatch operations. Delivery is strictly sequential and a
// failure on one device never aborts delivery to the rest: per-device
// outcomes are collected into the result instead.
type NotificationService struct {
	tokenRepo repository.DeviceTokenRepository
	sender    PushSender
}

func NewNotificationService(tokenRepo repository.DeviceTokenRepository, sender PushSender) *NotificationService {
	return &NotificationService{
		tokenRepo: tokenRepo,
		sender:    sender,
	}
}

// SendToUser delivers a notification to every active device the user owns.
// A user with no active devices yields a NoActiveDevices result and no
// provider calls.
func (s *NotificationService) SendToUser(ctx context.Context, userID int64, title, body string, data model.DataPayload) (*model.UserDispatchResult, error) {
	result := &model.UserDispatchResult{
		BatchID: uuid.NewString(),
		UserID:  userID,
	}

	tokens, err := s.tokenRepo.ListActiveTokensForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(tokens) == 0 {
		result.NoActiveDevices = true
		log.Printf("[Dispatch] batch=%s user=%d has no active devices", result.BatchID, userID)
		return result, nil
	}

	result.DevicesCount = len(tokens)
	result.Results = s.sendToDevices(ctx, result.BatchID, tokens, title, body, data)
	return result, nil
}

// SendToUsers repeats the single-user flow for each id, keyed by user id.
func (s *NotificationService) SendToUsers(ctx context.Context, userIDs []int64, title, body string, data model.DataPayload) (map[int64]*model.UserDispatchResult, error) {
	results := make(map[int64]*model.UserDispatchResult, len(userIDs))
	for _, userID := range userIDs {
		result, err := s.SendToUser(ctx, userID, title, body, data)
		if err != nil {
			return nil, err
		}
		results[userID] = result
	}
	return results, nil
}

// Broadcast delivers a notification to every active device across all users.
// An empty token table yields a NoActiveDevices result, like SendToUser.
func (s *NotificationService) Broadcast(ctx context.Context, title, body string, data model.DataPayload) (*model.BroadcastResult, error) {
	result := &model.BroadcastResult{
		BatchID: uuid.NewString(),
	}

	tokens, err := s.tokenRepo.ListAllActiveTokens(ctx)
	if err != nil {
		return nil, err
	}

	if len(tokens) == 0 {
		result.NoActiveDevices = true
		log.Printf("[Dispatch] batch=%s broadcast found no active devices", result.BatchID)
		return result, nil
	}

	result.DevicesCount = len(tokens)
	result.Results = s.sendToDevices(ctx, result.BatchID, tokens, title, body, data)
	for _, r := range result.Results {
		if r.Result.Success {
			result.SuccessCount++
		} else {
			result.FailureCount++
		}
	}

	log.Printf("[Dispatch] batch=%s broadcast to %d devices: %d success, %d failed",
		result.BatchID, result.DevicesCount, result.SuccessCount, result.FailureCount)
	return result, nil
}

// SendToTopic forwards to the provider's topic fan-out; no token lookup needed.
func (s *NotificationService) SendToTopic(ctx context.Context, topic, title, body string, data model.DataPayload) model.DeliveryResult {
	return s.sender.SendToTopic(ctx, topic, title, body, data)
}

func (s *NotificationService) sendToDevices(ctx context.Context, batchID string, tokens []model.DeviceToken, title, body string, data model.DataPayload) []model.DeviceDelivery {
	deliveries := make([]model.DeviceDelivery, 0, len(tokens))
	for _, t := range tokens {
		delivery := model.DeviceDelivery{
			UserID:     t.UserID,
			DeviceType: t.DeviceType,
		}
		if t.DeviceInfo != nil {
			delivery.DeviceInfo = *t.DeviceInfo
		}

		delivery.Result = s.sender.SendToToken(ctx, t.Token, title, body, data)
		if !delivery.Result.Success {
			log.Printf("[Dispatch] batch=%s user=%d device=%s failed: status=%d %s",
				batchID, t.UserID, t.DeviceType, delivery.Result.HTTPStatus, delivery.Result.Error)
		}

		deliveries = append(deliveries, delivery)
	}
	return deliveries
}
