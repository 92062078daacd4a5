package application

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash suitable for storage on a leader account.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a stored bcrypt hash with a candidate password.
// Any mismatch, including a malformed hash, reads as invalid credentials so
// callers cannot distinguish the two cases.
func VerifyPassword(hashedPassword, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
