package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerificationCode_Expired(t *testing.T) {
	issued := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	v := &VerificationCode{IssuedAt: issued}
	window := 10 * time.Minute

	assert.False(t, v.Expired(issued, window))
	assert.False(t, v.Expired(issued.Add(window-time.Nanosecond), window))
	assert.True(t, v.Expired(issued.Add(window), window), "expiry instant counts as expired")
	assert.True(t, v.Expired(issued.Add(time.Hour), window))
	assert.Equal(t, issued.Add(window), v.ExpiresAt(window))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@x.com", NormalizeEmail("  Alice@X.COM\t"))
}
