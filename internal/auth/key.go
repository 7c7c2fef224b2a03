// Operator key verification.
//
// The server never stores the operator key in plain text — the environment
// carries a bcrypt hash (OPERATOR_KEY_HASH), generated once with:
//
//	htpasswd -bnBC 12 "" "the-key" | tr -d ':\n'
//
// WHY BCRYPT?
// bcrypt is a password hashing function specifically designed to be slow.
// That slowness is a security feature: it makes brute-force attacks
// expensive. It also salts automatically — the salt and cost are embedded
// in the hash string, so a single env var carries everything
// CompareHashAndPassword needs.
//
// NEVER store keys in plain text or with fast hashes (MD5, SHA-256).
// Those can be cracked with GPU-accelerated rainbow tables in minutes.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadKey is returned when the presented operator key does not match the
// configured hash. Callers map it to 401 — never echo the reason in detail.
var ErrBadKey = errors.New("auth: operator key mismatch")

// VerifyOperatorKey bcrypt-compares the presented key against the
// configured hash. Returns ErrBadKey on mismatch so callers can distinguish
// "wrong key" from "malformed hash in the environment".
func VerifyOperatorKey(keyHash, key string) error {
	err := bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrBadKey
	}
	return err
}

// HashOperatorKey hashes a plaintext operator key for storage in the
// environment. Cost 12 takes ~250ms — negligible for a once-per-deploy
// operation, brutal for an attacker guessing keys.
func HashOperatorKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
