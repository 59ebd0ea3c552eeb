package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rawa7/hightech/internal/model"
)

type deviceTokenRepository struct {
	db *sqlx.DB
}

func NewDeviceTokenRepository(db *sqlx.DB) DeviceTokenRepository {
	return &deviceTokenRepository{db: db}
}

// SaveToken looks the token up first because the three branches update
// different column sets: a token moving between users refreshes ownership and
// device metadata, a token re-presented by its owner only bumps activity.
func (r *deviceTokenRepository) SaveToken(ctx context.Context, userID int64, token, deviceType string, deviceInfo *string) (*model.SaveResult, error) {
	var existing struct {
		ID     int64 `db:"id"`
		UserID int64 `db:"user_id"`
	}
	err := r.db.GetContext(ctx, &existing,
		`SELECT id, user_id FROM fcm_tokens WHERE fcm_token = $1`, token)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		var id int64
		query := `
			INSERT INTO fcm_tokens (user_id, fcm_token, device_type, device_info, last_used_at)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING id
		`
		if err := r.db.GetContext(ctx, &id, query, userID, token, deviceType, deviceInfo); err != nil {
			return nil, fmt.Errorf("insert device token: %w", err)
		}
		return &model.SaveResult{Action: model.SaveActionInserted, TokenID: id}, nil

	case err != nil:
		return nil, fmt.Errorf("lookup device token: %w", err)

	case existing.UserID != userID:
		// Token was registered to a different user. Provider tokens follow the
		// device, not the account, so reassign to whoever presents it now.
		query := `
			UPDATE fcm_tokens
			SET user_id = $1, device_type = $2, device_info = $3,
			    updated_at = NOW(), last_used_at = NOW(), is_active = TRUE
			WHERE fcm_token = $4
		`
		if _, err := r.db.ExecContext(ctx, query, userID, deviceType, deviceInfo, token); err != nil {
			return nil, fmt.Errorf("reassign device token: %w", err)
		}
		return &model.SaveResult{Action: model.SaveActionUpdated}, nil

	default:
		query := `
			UPDATE fcm_tokens
			SET last_used_at = NOW(), is_active = TRUE, device_info = $1
			WHERE fcm_token = $2
		`
		if _, err := r.db.ExecContext(ctx, query, deviceInfo, token); err != nil {
			return nil, fmt.Errorf("refresh device token: %w", err)
		}
		return &model.SaveResult{Action: model.SaveActionUpdated}, nil
	}
}

// DeleteToken marks a token inactive. Zero affected rows means the token was
// unknown or already inactive; that is the caller's "not found" outcome, not
// an error, so repeated deletes stay idempotent.
func (r *deviceTokenRepository) DeleteToken(ctx context.Context, token string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE fcm_tokens SET is_active = FALSE WHERE fcm_token = $1 AND is_active = TRUE`, token)
	if err != nil {
		return 0, fmt.Errorf("delete device token: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete device token: %w", err)
	}
	return affected, nil
}

// DeleteAllTokensForUser deactivates every token the user owns (logout
// everywhere). The count reflects rows that were active before the call.
func (r *deviceTokenRepository) DeleteAllTokensForUser(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE fcm_tokens SET is_active = FALSE WHERE user_id = $1 AND is_active = TRUE`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user tokens: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete user tokens: %w", err)
	}
	return affected, nil
}

// ListActiveTokensForUser returns the user's active tokens ordered by
// last_used_at descending.
func (r *deviceTokenRepository) ListActiveTokensForUser(ctx context.Context, userID int64) ([]model.DeviceToken, error) {
	query := `
		SELECT id, user_id, fcm_token, device_type, device_info,
		       created_at, updated_at, last_used_at, is_active
		FROM fcm_tokens
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY last_used_at DESC
	`
	tokens := []model.DeviceToken{}
	if err := r.db.SelectContext(ctx, &tokens, query, userID); err != nil {
		return nil, fmt.Errorf("get device tokens: %w", err)
	}
	return tokens, nil
}

// ListAllActiveTokens returns every active token in the table.
func (r *deviceTokenRepository) ListAllActiveTokens(ctx context.Context) ([]model.DeviceToken, error) {
	query := `
		SELECT id, user_id, fcm_token, device_type, device_info,
		       created_at, updated_at, last_used_at, is_active
		FROM fcm_tokens
		WHERE is_active = TRUE
		ORDER BY user_id, last_used_at DESC
	`
	tokens := []model.DeviceToken{}
	if err := r.db.SelectContext(ctx, &tokens, query); err != nil {
		return nil, fmt.Errorf("get all device tokens: %w", err)
	}
	return tokens, nil
}
