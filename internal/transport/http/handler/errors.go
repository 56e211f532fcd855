package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-rider-auth/internal/domain"
)

const (
	reasonValidation           = "validation_failed"
	reasonConflict             = "conflict"
	reasonInvalidCredentials   = "invalid_credentials"
	reasonInvalidCode          = "invalid_code"
	reasonCodeExpired          = "code_expired"
	reasonAlreadyVerified      = "already_verified"
	reasonNotFound             = "not_found"
	reasonUnavailable          = "unavailable"
	reasonInternal             = "internal_error"
	reasonVerificationRequired = "verification_required"
	reasonUnauthorized         = "unauthorized"
)

type errorMapping struct {
	target  error
	status  int
	reason  string
	message string
}

// Order matters: wrapped errors may carry more than one sentinel and the first match wins.
var errorMappings = []errorMapping{
	{domain.ErrValidation, http.StatusBadRequest, reasonValidation, ""},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, reasonInvalidCredentials, "invalid credentials"},
	{domain.ErrInvalidCode, http.StatusBadRequest, reasonInvalidCode, "invalid code"},
	{domain.ErrCodeExpired, http.StatusBadRequest, reasonCodeExpired, "code expired, request a new one"},
	{domain.ErrAlreadyVerified, http.StatusConflict, reasonAlreadyVerified, "account already verified"},
	{domain.ErrConflict, http.StatusConflict, reasonConflict, "email already registered"},
	{domain.ErrNotFound, http.StatusNotFound, reasonNotFound, "account not found"},
	{domain.ErrUnavailable, http.StatusServiceUnavailable, reasonUnavailable, "service temporarily unavailable"},
}

// httpError maps a service error to a status and classification. Validation errors
// keep their field detail; everything unrecognised becomes a generic 500.
func httpError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = err.Error()
		}
		if m.status >= http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		}
		writeError(w, m.status, m.reason, msg)
		return
	}
	slog.ErrorContext(r.Context(), "unexpected error", "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError, reasonInternal, "internal server error")
}
