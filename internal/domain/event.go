package domain

import "time"

// Event subjects published after state changes. Delivery is best-effort.
const (
	EventAccountRegistered     = "account.registered"
	EventVerificationRequested = "account.verification_requested"
	EventAccountVerified       = "account.verified"
	EventPasswordReset         = "account.password_reset"
)

type AccountEvent struct {
	AccountID  string    `json:"account_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	OccurredAt time.Time `json:"occurred_at"`
}
