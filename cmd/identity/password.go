package identity

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the cost the rest of the platform was provisioned with.
// Existing hashes verify regardless of cost, so this only affects new hashes.
const bcryptCost = 12

// HashPassword hashes a plaintext password with bcrypt. The salt is embedded
// in the returned hash string.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
