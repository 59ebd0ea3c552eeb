package httputil

import (
	"encoding/json"
	"net/http"
)

// Every endpoint answers the same envelope: {"success": bool, "message": ...}
// plus action-specific fields. Payload keys ride alongside success/message.
type Payload map[string]interface{}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already sent; nothing left to do.
			return
		}
	}
}

// WriteSuccess writes a 200 {success:true, message, ...} response
func WriteSuccess(w http.ResponseWriter, message string, extra Payload) {
	writeEnvelope(w, http.StatusOK, true, message, extra)
}

// WriteFailure writes a {success:false, message, ...} response with the given
// status. Used both for errors and for 200-status "not found" outcomes.
func WriteFailure(w http.ResponseWriter, status int, message string, extra Payload) {
	writeEnvelope(w, status, false, message, extra)
}

// WriteBadRequest writes a 400 {success:false, message} response
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteFailure(w, http.StatusBadRequest, message, nil)
}

// WriteStorageError writes a 500 response carrying the underlying driver message
func WriteStorageError(w http.ResponseWriter, message string, err error) {
	WriteFailure(w, http.StatusInternalServerError, message, Payload{"error": err.Error()})
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, extra Payload) {
	body := Payload{
		"success": success,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	WriteJSON(w, status, body)
}
