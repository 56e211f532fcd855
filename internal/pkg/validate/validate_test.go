package validate

import (
	"testing"

	"github.com/go-rider-auth/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStruct_RegisterRequest_Valid(t *testing.T) {
	err := Struct(&domain.RegisterRequest{
		Name: "alice", Email: "alice@x.com", Password: "secret1", Role: domain.RoleRider,
	})
	assert.NoError(t, err)
}

func TestStruct_RegisterRequest_BadRole(t *testing.T) {
	err := Struct(&domain.RegisterRequest{
		Name: "alice", Email: "alice@x.com", Password: "secret1", Role: "admin",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "Role")
}

func TestStruct_RegisterRequest_ShortPasswordAndBadEmail(t *testing.T) {
	err := Struct(&domain.RegisterRequest{
		Name: "alice", Email: "not-an-email", Password: "123", Role: domain.RoleDriver,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "Email")
	assert.Contains(t, err.Error(), "Password")
}

func TestStruct_SubmitCode(t *testing.T) {
	assert.NoError(t, Struct(&domain.SubmitCodeRequest{Code: "012345"}))
	assert.ErrorIs(t, Struct(&domain.SubmitCodeRequest{Code: "12345"}), domain.ErrValidation)
	assert.ErrorIs(t, Struct(&domain.SubmitCodeRequest{Code: "12a456"}), domain.ErrValidation)
}
