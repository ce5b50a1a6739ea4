// Package auth holds the credential and identity primitives: password
// hashing, signed identity tokens and the request-scoped identity.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

// ErrCryptoFailure is returned when the underlying hashing primitive fails.
var ErrCryptoFailure = errors.New("crypto failure")

// DefaultHasherParams is the fixed work factor for new password hashes.
var DefaultHasherParams = &argon2id.Params{
	Memory:      64 * 1024,
	Iterations:  1,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

type Hasher interface {
	// Hash produces a salted one-way digest of the password.
	Hash(password string) (string, error)

	// Verify reports whether the password matches the hash. A mismatch is
	// (false, nil); an error means the hash could not be checked at all.
	Verify(password, hash string) (bool, error)

	// NeedsRehash reports whether the hash was produced by an older scheme.
	NeedsRehash(hash string) bool
}

type hasherImpl struct {
	params *argon2id.Params
}

func NewHasher(params *argon2id.Params) Hasher {
	if params == nil {
		params = DefaultHasherParams
	}
	return &hasherImpl{params: params}
}

func (h *hasherImpl) Hash(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, h.params)
	if err != nil {
		return "", fmt.Errorf("%w: failed to hash password: %w", ErrCryptoFailure, err)
	}
	return hash, nil
}

func (h *hasherImpl) Verify(password, hash string) (bool, error) {
	if isBcryptHash(hash) {
		// Accounts imported from the bcrypt-based deployment.
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		if err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return false, nil
			}
			return false, fmt.Errorf("%w: failed to compare bcrypt hash: %w", ErrCryptoFailure, err)
		}
		return true, nil
	}

	match, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		return false, fmt.Errorf("%w: failed to compare password: %w", ErrCryptoFailure, err)
	}
	return match, nil
}

func (h *hasherImpl) NeedsRehash(hash string) bool {
	return !strings.HasPrefix(hash, "$argon2id$")
}

func isBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}
