package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/rawa7/hightech/internal/httputil"
	"github.com/rawa7/hightech/internal/model"
	"github.com/rawa7/hightech/internal/repository"
)

// TokenHandler exposes the token store over one action-dispatched endpoint:
//
//	POST ?action=save            {user_id, fcm_token, device_type, device_info?}
//	POST ?action=delete          {fcm_token}
//	POST ?action=delete_by_user  {user_id}
//	GET  ?action=get_user_tokens &user_id=N
type TokenHandler struct {
	tokenRepo repository.DeviceTokenRepository
}

func NewTokenHandler(tokenRepo repository.DeviceTokenRepository) *TokenHandler {
	return &TokenHandler{
		tokenRepo: tokenRepo,
	}
}

// Handle dispatches on the action query parameter.
func (h *TokenHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("action") {
	case "save":
		h.save(w, r)
	case "delete":
		h.delete(w, r)
	case "delete_by_user":
		h.deleteByUser(w, r)
	case "get_user_tokens":
		h.getUserTokens(w, r)
	default:
		httputil.WriteBadRequest(w, "Invalid action. Use: save, delete, delete_by_user, or get_user_tokens")
	}
}

func (h *TokenHandler) save(w http.ResponseWriter, r *http.Request) {
	var req model.SaveTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.UserID == 0 || req.Token == "" || req.DeviceType == "" {
		httputil.WriteBadRequest(w, "Missing required fields: user_id, fcm_token, device_type")
		return
	}

	result, err := h.tokenRepo.SaveToken(r.Context(), req.UserID, req.Token, req.DeviceType, req.DeviceInfo)
	if err != nil {
		log.Printf("[ERROR] Save token: user=%d err=%v", req.UserID, err)
		httputil.WriteStorageError(w, "Database error", err)
		return
	}

	if result.Action == model.SaveActionInserted {
		httputil.WriteSuccess(w, "FCM token saved successfully", httputil.Payload{
			"action":   result.Action,
			"token_id": result.TokenID,
		})
		return
	}
	httputil.WriteSuccess(w, "FCM token updated successfully", httputil.Payload{
		"action": result.Action,
	})
}

func (h *TokenHandler) delete(w http.ResponseWriter, r *http.Request) {
	var req model.DeleteTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Token == "" {
		httputil.WriteBadRequest(w, "Missing required field: fcm_token")
		return
	}

	affected, err := h.tokenRepo.DeleteToken(r.Context(), req.Token)
	if err != nil {
		log.Printf("[ERROR] Delete token: err=%v", err)
		httputil.WriteStorageError(w, "Database error", err)
		return
	}

	if affected > 0 {
		httputil.WriteSuccess(w, "FCM token deleted successfully", nil)
		return
	}
	// Unknown or already-inactive token: reported, not an error. Stays
	// idempotent on repeat calls.
	httputil.WriteFailure(w, http.StatusOK, "FCM token not found", nil)
}

func (h *TokenHandler) deleteByUser(w http.ResponseWriter, r *http.Request) {
	var req model.DeleteUserTokensRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.UserID == 0 {
		httputil.WriteBadRequest(w, "Missing required field: user_id")
		return
	}

	affected, err := h.tokenRepo.DeleteAllTokensForUser(r.Context(), req.UserID)
	if err != nil {
		log.Printf("[ERROR] Delete user tokens: user=%d err=%v", req.UserID, err)
		httputil.WriteStorageError(w, "Database error", err)
		return
	}

	httputil.WriteSuccess(w, "All user tokens deleted successfully", httputil.Payload{
		"deleted_count": affected,
	})
}

func (h *TokenHandler) getUserTokens(w http.ResponseWriter, r *http.Request) {
	rawUserID := r.URL.Query().Get("user_id")
	if rawUserID == "" {
		httputil.WriteBadRequest(w, "Missing required parameter: user_id")
		return
	}

	userID, err := strconv.ParseInt(rawUserID, 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user_id parameter")
		return
	}

	tokens, err := h.tokenRepo.ListActiveTokensForUser(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] Get user tokens: user=%d err=%v", userID, err)
		httputil.WriteStorageError(w, "Database error", err)
		return
	}

	// The listing answers without a message field, unlike the write actions.
	httputil.WriteJSON(w, http.StatusOK, httputil.Payload{
		"success": true,
		"tokens":  tokens,
		"count":   len(tokens),
	})
}
