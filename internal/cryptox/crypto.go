// Package cryptox holds the password and token hashing used by the server's
// account store.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/citycare/citycare/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of a freshly generated password salt.
const SaltSize = 16

// NewSalt returns SaltSize random bytes.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// HashPassword derives an argon2id hash of password with salt.
func HashPassword(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// VerifyPassword reports whether candidate hashes to stored under salt.
// The comparison runs in constant time.
func VerifyPassword(stored, salt, candidate []byte) bool {
	return subtle.ConstantTimeCompare(stored, HashPassword(candidate, salt)) == 1
}

// TokenDigest is the hex SHA-256 of an opaque token. Refresh tokens are
// stored and looked up by digest only.
func TokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
