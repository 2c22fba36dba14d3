// Package auth implements password hashing and bearer token issuance/verification.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a bcrypt digest of the plaintext. Each call salts
// independently, so the same plaintext produces different digests.
func HashPassword(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether plain matches the stored digest. A malformed
// digest is simply a non-match, never an error.
func CheckPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
