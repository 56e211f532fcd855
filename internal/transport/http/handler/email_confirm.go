package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-rider-auth/internal/application/auth"
	"github.com/go-rider-auth/internal/domain"
	"github.com/go-rider-auth/internal/transport/http/middleware"
)

// EmailConfirmHandler handles email confirmation flow endpoints.
type EmailConfirmHandler struct {
	svc auth.Service
}

func NewEmailConfirmHandler(svc auth.Service) *EmailConfirmHandler {
	return &EmailConfirmHandler{svc: svc}
}

func (h *EmailConfirmHandler) Action(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, reasonUnauthorized, "unauthorized")
		return
	}
	switch chi.URLParam(r, "action") {
	case "request":
		if err := h.svc.RequestVerificationCode(r.Context(), claims.AccountID); err != nil {
			httpError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "verification code sent"})
	case "validate-code":
		var req domain.SubmitCodeRequest
		if !decode(w, r, &req) {
			return
		}
		a, err := h.svc.SubmitCode(r.Context(), claims.AccountID, req.Code)
		if err != nil {
			httpError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, AccountEnvelope{Message: "email confirmed", Account: a})
	default:
		writeError(w, http.StatusNotFound, reasonNotFound, "unknown action")
	}
}
