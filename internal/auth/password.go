package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword generates a salted bcrypt hash for storage. The salt is
// random per call, so two hashes of the same password differ.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(h), err
}

// CheckPassword reports whether the cleartext password matches the stored
// hash. bcrypt recomputes with the salt embedded in the hash and compares
// in constant time.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
