package repository

import (
	"context"

	"github.com/rawa7/hightech/internal/model"
)

type DeviceTokenRepository interface {
	// SaveToken registers a token for a user. A token seen before is treated
	// as a refresh: reassigned to the presenting user if it moved, reactivated,
	// timestamps bumped. Reports which branch was taken.
	SaveToken(ctx context.Context, userID int64, token, deviceType string, deviceInfo *string) (*model.SaveResult, error)
	// DeleteToken soft-deletes a single token and returns the affected row count
	DeleteToken(ctx context.Context, token string) (int64, error)
	// DeleteAllTokensForUser soft-deletes every token owned by the user and
	// returns how many were active before the call
	DeleteAllTokensForUser(ctx context.Context, userID int64) (int64, error)
	// ListActiveTokensForUser returns the user's active tokens, most recently used first
	ListActiveTokensForUser(ctx context.Context, userID int64) ([]model.DeviceToken, error)
	// ListAllActiveTokens returns every active token across all users (broadcast source)
	ListAllActiveTokens(ctx context.Context) ([]model.DeviceToken, error)
}
