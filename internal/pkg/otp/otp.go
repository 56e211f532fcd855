// Package otp generates numeric one-time codes.
package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Digits is the length of every code handed out by this service.
const Digits = 6

// Generate returns a code of Digits decimal digits drawn uniformly from
// [0, 10^Digits). Leading zeros are kept.
func Generate() (string, error) {
	return generate(rand.Reader, Digits)
}

func generate(r io.Reader, digits int) (string, error) {
	if digits <= 0 || digits > 18 {
		return "", fmt.Errorf("otp: unsupported length %d", digits)
	}
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(r, limit)
	if err != nil {
		return "", fmt.Errorf("otp: read random: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}
