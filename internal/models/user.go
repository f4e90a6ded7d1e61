package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var pinPattern = regexp.MustCompile(`^[0-9]{6}$`)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PINHash      string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) Validate() error {
	if len(strings.TrimSpace(u.Username)) < 3 {
		return errors.New("username too short")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("invalid email")
	}
	return nil
}

// ValidPIN reports whether p is a well-formed 6-digit PIN.
func ValidPIN(p string) bool { return pinPattern.MatchString(p) }

// Recipient is the resolver's view of a transfer target: identity only,
// never balance or credential data.
type Recipient struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
