package handler

import (
	"net/http"

	"github.com/go-rider-auth/internal/application/auth"
	"github.com/go-rider-auth/internal/domain"
)

// SessionHandler handles login.
type SessionHandler struct {
	svc auth.Service
}

func NewSessionHandler(svc auth.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// Login answers 200 with a bearer token, or 403 verification_required when the
// account still has to confirm its email. A fresh code has been sent in that case
// and the bearer returned with it only works on /confirm-email.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Login(r.Context(), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	if res.Challenge {
		writeJSON(w, http.StatusForbidden, ChallengeEnvelope{
			Message: "email not verified, a new verification code has been sent",
			Reason:  reasonVerificationRequired,
			Bearer:  res.VerificationToken,
		})
		return
	}
	writeJSON(w, http.StatusOK, AccountEnvelope{Bearer: res.Token, Account: res.Account})
}
