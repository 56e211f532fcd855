// Package hasher wraps the one-way password hashing primitives.
package hasher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const (
	KindBcrypt   = "bcrypt"
	KindArgon2id = "argon2id"
)

// Hasher hashes new passwords with one algorithm and verifies digests produced by
// any supported algorithm, detected from the digest prefix.
type Hasher struct {
	kind        string
	bcryptCost  int
	argonParams *argon2id.Params
}

// New returns a Hasher that produces digests of the given kind.
func New(kind string) (*Hasher, error) {
	switch kind {
	case KindBcrypt, KindArgon2id:
	default:
		return nil, fmt.Errorf("hasher: unknown kind %q", kind)
	}
	return &Hasher{kind: kind, bcryptCost: bcrypt.DefaultCost, argonParams: argon2id.DefaultParams}, nil
}

func (h *Hasher) Hash(plain string) (string, error) {
	if h.kind == KindArgon2id {
		return argon2id.CreateHash(plain, h.argonParams)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches digest. A mismatch is (false, nil); an error
// means the digest could not be checked at all.
func (h *Hasher) Verify(plain, digest string) (bool, error) {
	if strings.HasPrefix(digest, "$argon2id$") {
		return argon2id.ComparePasswordAndHash(plain, digest)
	}
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
