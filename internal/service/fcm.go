package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/rawa7/hightech/internal/model"
)

// FCMClient sends push notifications through the FCM v1 HTTP API.
//
// Unlike the Admin SDK, this client owns the whole exchange: it mints its own
// bearer token via TokenSource and posts the v1 message envelope directly, so
// the provider's response body is surfaced verbatim in every DeliveryResult.
// A send succeeds iff FCM answers HTTP 200; there are no retries, and token
// format is not validated locally (bad tokens come back in the provider body).
type FCMClient struct {
	projectID  string
	endpoint   string // base URL, e.g. https://fcm.googleapis.com/v1
	tokens     *TokenSource
	httpClient *http.Client
}

func NewFCMClient(projectID, endpoint string, tokens *TokenSource, timeout time.Duration) *FCMClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FCMClient{
		projectID: projectID,
		endpoint:  endpoint,
		tokens:    tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Tap-action identifier the Flutter client listens for.
const flutterClickAction = "FLUTTER_NOTIFICATION_CLICK"

// Android notification channel the mobile app registers at startup.
const androidChannelID = "high_importance_channel"

// fcmMessage is the FCM v1 request envelope.
type fcmMessage struct {
	Message fcmMessageBody `json:"message"`
}

type fcmMessageBody struct {
	Token        string            `json:"token,omitempty"`
	Topic        string            `json:"topic,omitempty"`
	Notification *fcmNotification  `json:"notification,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
	Android      *fcmAndroidConfig `json:"android,omitempty"`
	APNS         *fcmAPNSConfig    `json:"apns,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmAndroidConfig struct {
	Priority     string                  `json:"priority,omitempty"`
	Notification *fcmAndroidNotification `json:"notification,omitempty"`
}

type fcmAndroidNotification struct {
	Sound       string `json:"sound,omitempty"`
	ClickAction string `json:"click_action,omitempty"`
	ChannelID   string `json:"channel_id,omitempty"`
}

type fcmAPNSConfig struct {
	Payload *fcmAPNSPayload `json:"payload,omitempty"`
}

type fcmAPNSPayload struct {
	Aps fcmAps `json:"aps"`
}

type fcmAps struct {
	Alert fcmApsAlert `json:"alert"`
	Sound string      `json:"sound,omitempty"`
}

type fcmApsAlert struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SendToToken delivers a notification to a single device token.
func (c *FCMClient) SendToToken(ctx context.Context, token, title, body string, data model.DataPayload) model.DeliveryResult {
	// click_action rides in the data block too so the app can route the tap
	// when the notification arrives in the foreground.
	merged := data.Clone()
	if _, ok := merged["click_action"]; !ok {
		merged.Set("click_action", flutterClickAction)
	}

	msg := fcmMessageBody{
		Token: token,
		Notification: &fcmNotification{
			Title: title,
			Body:  body,
		},
		Data: merged,
		Android: &fcmAndroidConfig{
			Priority: "high",
			Notification: &fcmAndroidNotification{
				Sound:       "default",
				ClickAction: flutterClickAction,
				ChannelID:   androidChannelID,
			},
		},
		APNS: &fcmAPNSConfig{
			Payload: &fcmAPNSPayload{
				Aps: fcmAps{
					Alert: fcmApsAlert{
						Title: title,
						Body:  body,
					},
					Sound: "default",
				},
			},
		},
	}

	return c.send(ctx, msg)
}

// SendToTopic delivers a notification to a named broadcast topic instead of a
// single device.
func (c *FCMClient) SendToTopic(ctx context.Context, topic, title, body string, data model.DataPayload) model.DeliveryResult {
	msg := fcmMessageBody{
		Topic: topic,
		Notification: &fcmNotification{
			Title: title,
			Body:  body,
		},
		Data: data.Clone(),
		Android: &fcmAndroidConfig{
			Priority: "high",
			Notification: &fcmAndroidNotification{
				Sound: "default",
			},
		},
	}

	return c.send(ctx, msg)
}

func (c *FCMClient) send(ctx context.Context, msg fcmMessageBody) model.DeliveryResult {
	accessToken, err := c.tokens.GetAccessToken(ctx)
	if err != nil {
		// Credential/config problems are a structured failure, not a fault:
		// batch dispatch must keep going past them.
		return model.DeliveryResult{Success: false, Error: err.Error()}
	}

	payload, err := json.Marshal(fcmMessage{Message: msg})
	if err != nil {
		return model.DeliveryResult{Success: false, Error: fmt.Sprintf("marshal message: %v", err)}
	}

	url := fmt.Sprintf("%s/projects/%s/messages:send", c.endpoint, c.projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return model.DeliveryResult{Success: false, Error: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.DeliveryResult{Success: false, Error: fmt.Sprintf("send request: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.DeliveryResult{
			Success:    false,
			HTTPStatus: resp.StatusCode,
			Error:      fmt.Sprintf("read response: %v", err),
		}
	}

	result := model.DeliveryResult{
		Success:    resp.StatusCode == http.StatusOK,
		HTTPStatus: resp.StatusCode,
	}
	// Response is a json.RawMessage; a proxy or gateway can answer with HTML,
	// which would make the result itself unmarshalable if stored verbatim.
	if json.Valid(respBody) {
		result.Response = json.RawMessage(respBody)
	} else {
		result.Error = fmt.Sprintf("non-JSON provider response: %q", respBody)
	}
	if !result.Success {
		log.Printf("[FCM] Send failed: status=%d body=%s", resp.StatusCode, string(respBody))
	}
	return result
}
