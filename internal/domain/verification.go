package domain

import "time"

const (
	PurposeEmailVerification = "email_verification"
	PurposePasswordReset     = "password_reset"
)

// VerificationCode is the single live one-time code for an (account, purpose) pair.
// PK: account_id, SK: purpose. Expiry is derived from IssuedAt; there is no stored deadline.
type VerificationCode struct {
	AccountID string    `json:"account_id" dynamodbav:"account_id"`
	Purpose   string    `json:"purpose" dynamodbav:"purpose"`
	Code      string    `json:"code" dynamodbav:"code"`
	IssuedAt  time.Time `json:"issued_at" dynamodbav:"issued_at"`
	// Attempts counts wrong submissions against this code. Reissuing resets it.
	Attempts int `json:"attempts" dynamodbav:"attempts"`
}

// ExpiresAt returns the first instant at which the code is no longer valid.
func (v *VerificationCode) ExpiresAt(window time.Duration) time.Time {
	return v.IssuedAt.Add(window)
}

// Expired reports whether the code is stale at now. The expiry instant itself counts as expired.
func (v *VerificationCode) Expired(now time.Time, window time.Duration) bool {
	return !now.Before(v.ExpiresAt(window))
}
