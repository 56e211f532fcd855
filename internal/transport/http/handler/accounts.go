package handler

import (
	"net/http"

	"github.com/go-rider-auth/internal/application/auth"
	"github.com/go-rider-auth/internal/domain"
	"github.com/go-rider-auth/internal/transport/http/middleware"
)

// AccountHandler handles registration and the authenticated account's profile.
type AccountHandler struct {
	svc auth.Service
}

func NewAccountHandler(svc auth.Service) *AccountHandler {
	return &AccountHandler{svc: svc}
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	msg := "account created, check your email for a verification code"
	if res.CodePending {
		msg = "account created, but no verification code could be sent; request a new one"
	}
	writeJSON(w, http.StatusCreated, AccountEnvelope{
		Message: msg,
		Bearer:  res.Token,
		Account: res.Account,
	})
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, reasonUnauthorized, "unauthorized")
		return
	}
	a, err := h.svc.Me(r.Context(), claims.AccountID)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AccountEnvelope{Account: a})
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, reasonUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.DeleteAccount(r.Context(), claims.AccountID); err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "account deleted"})
}
