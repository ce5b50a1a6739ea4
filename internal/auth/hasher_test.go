package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Cheap parameters keep the suite fast; the scheme is the same.
var testHasherParams = &argon2id.Params{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func TestHasher_Hash(t *testing.T) {
	hasher := NewHasher(testHasherParams)

	t.Run("produces argon2id hash", func(t *testing.T) {
		hash, err := hasher.Hash("password1")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	})

	t.Run("same password produces different hashes", func(t *testing.T) {
		hash1, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		hash2, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("nil params fall back to defaults", func(t *testing.T) {
		h, ok := NewHasher(nil).(*hasherImpl)
		require.True(t, ok)
		assert.Equal(t, DefaultHasherParams, h.params)
	})
}

func TestHasher_Verify(t *testing.T) {
	hasher := NewHasher(testHasherParams)

	passwords := []string{"", "password1", "correct horse battery staple", "пароль123", "p@ss\x00word"}
	for _, p := range passwords {
		hash, err := hasher.Hash(p)
		require.NoError(t, err)

		ok, err := hasher.Verify(p, hash)
		require.NoError(t, err)
		assert.True(t, ok, "round trip for %q", p)

		for _, q := range passwords {
			if q == p {
				continue
			}
			ok, err := hasher.Verify(q, hash)
			require.NoError(t, err)
			assert.False(t, ok, "%q must not verify against hash of %q", q, p)
		}
	}
}

func TestHasher_VerifyInvalidHash(t *testing.T) {
	hasher := NewHasher(testHasherParams)

	tests := []struct {
		name string
		hash string
	}{
		{name: "garbage", hash: "not-a-valid-hash"},
		{name: "empty", hash: ""},
		{name: "truncated argon2id", hash: "$argon2id$v=19$m=65536,t=1,p=2$c2FsdA"},
		{name: "truncated bcrypt", hash: "$2b$10$short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := hasher.Verify("password1", tt.hash)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCryptoFailure))
			assert.False(t, ok)
		})
	}
}

func TestHasher_LegacyBcrypt(t *testing.T) {
	hasher := NewHasher(testHasherParams)

	legacy, err := bcrypt.GenerateFromPassword([]byte("password1"), 10)
	require.NoError(t, err)

	ok, err := hasher.Verify("password1", string(legacy))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("password2", string(legacy))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, hasher.NeedsRehash(string(legacy)))

	fresh, err := hasher.Hash("password1")
	require.NoError(t, err)
	assert.False(t, hasher.NeedsRehash(fresh))
}
