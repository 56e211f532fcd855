package hasher

import (
	"strings"
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newFast(t *testing.T, kind string) *Hasher {
	t.Helper()
	h, err := New(kind)
	require.NoError(t, err)
	h.bcryptCost = bcrypt.MinCost
	h.argonParams = &argon2id.Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	return h
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New("md5")
	assert.Error(t, err)
}

func TestBcrypt_HashAndVerify(t *testing.T) {
	h := newFast(t, KindBcrypt)
	digest, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$2"))
	assert.NotEqual(t, "secret1", digest)

	ok, err := h.Verify("secret1", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong", digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2id_HashAndVerify(t *testing.T) {
	h := newFast(t, KindArgon2id)
	digest, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$argon2id$"))

	ok, err := h.Verify("secret1", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong", digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_AcceptsEitherAlgorithm(t *testing.T) {
	bc := newFast(t, KindBcrypt)
	ar := newFast(t, KindArgon2id)

	bcDigest, err := bc.Hash("pw123456")
	require.NoError(t, err)
	arDigest, err := ar.Hash("pw123456")
	require.NoError(t, err)

	ok, err := ar.Verify("pw123456", bcDigest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = bc.Verify("pw123456", arDigest)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_MalformedDigest(t *testing.T) {
	h := newFast(t, KindBcrypt)
	_, err := h.Verify("pw", "not-a-hash")
	assert.Error(t, err)
}
