package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-rider-auth/internal/application/auth"
	"github.com/go-rider-auth/internal/domain"
)

// PasswordRecoveryHandler handles password recovery flow endpoints.
type PasswordRecoveryHandler struct {
	svc auth.Service
}

func NewPasswordRecoveryHandler(svc auth.Service) *PasswordRecoveryHandler {
	return &PasswordRecoveryHandler{svc: svc}
}

func (h *PasswordRecoveryHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "request":
		var req domain.PasswordResetRequest
		if !decode(w, r, &req) {
			return
		}
		if err := h.svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
			httpError(w, r, err)
			return
		}
		// Same answer whether or not the address is registered.
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "if the address is registered, a reset code has been sent"})
	case "reset":
		var req domain.ResetPasswordRequest
		if !decode(w, r, &req) {
			return
		}
		if err := h.svc.ResetPassword(r.Context(), req); err != nil {
			httpError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "password updated"})
	default:
		writeError(w, http.StatusNotFound, reasonNotFound, "unknown action")
	}
}
