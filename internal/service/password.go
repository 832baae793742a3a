package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost balances login latency against offline brute-force resistance.
const bcryptCost = 12

// dummyHash is a bcrypt hash of a random throwaway value. Authenticate
// compares against it when the username does not resolve, so the unknown-user
// and wrong-password paths cost the same.
var dummyHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("solemate-timing-pad"), bcryptCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// HashPassword produces a salted bcrypt digest of the password. Each call
// salts freshly, so two hashes of the same password differ; use
// VerifyPassword to compare.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
// A malformed hash verifies as false rather than erroring.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
