package domain

import (
	"strings"
	"time"
)

// Account is a registered rider or driver. Role and Email are fixed at creation;
// Verified only ever moves from false to true.
type Account struct {
	AccountID    string    `json:"id" dynamodbav:"account_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Email        string    `json:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	Role         string    `json:"role" dynamodbav:"role"`
	Verified     bool      `json:"verified" dynamodbav:"verified"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"required,oneof=rider driver"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SubmitCodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

// NormalizeEmail trims and lower-cases an address so it can be used as a unique key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
