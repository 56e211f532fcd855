package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-rider-auth/internal/domain"
)

// MessageEnvelope is the generic response wrapper. Reason is a stable
// machine-readable classification; Error is human-readable.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// AccountEnvelope wraps register, login and profile responses.
type AccountEnvelope struct {
	Message string          `json:"message,omitempty"`
	Bearer  string          `json:"bearer,omitempty"`
	Account *domain.Account `json:"account,omitempty"`
}

// ChallengeEnvelope answers a login by an unverified account. Bearer only opens
// the email confirmation routes.
type ChallengeEnvelope struct {
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason"`
	Bearer  string `json:"bearer,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, reason, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg, Reason: reason})
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, reasonValidation, "invalid request body")
		return false
	}
	return true
}
