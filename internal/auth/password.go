package auth

import "golang.org/x/crypto/bcrypt"

func HashPassword(p string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	return string(b), err
}

func VerifyPassword(plain, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// PINs are hashed exactly like passwords. Separate names keep call sites
// honest about which credential they are checking.

func HashPIN(pin string) (string, error) { return HashPassword(pin) }

func VerifyPIN(pin, hash string) error { return VerifyPassword(pin, hash) }
