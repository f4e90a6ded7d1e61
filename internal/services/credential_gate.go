package services

import (
	"context"

	"github.com/billraya/ewallet-backend/internal/auth"
	"github.com/billraya/ewallet-backend/internal/models"
	repo "github.com/billraya/ewallet-backend/internal/repository"
)

// CredentialGate checks a submitted PIN against the sender's stored hash.
// It must pass before any balance mutation is attempted.
type CredentialGate struct {
	users repo.Users
}

func NewCredentialGate(users repo.Users) *CredentialGate {
	return &CredentialGate{users: users}
}

// Verify returns the sender on success so callers do not fetch the user a
// second time. Any mismatch is ErrInvalidPIN.
func (g *CredentialGate) Verify(ctx context.Context, senderID, pin string) (models.User, error) {
	u, err := g.users.GetByID(ctx, senderID)
	if err != nil {
		return models.User{}, err
	}
	if err := auth.VerifyPIN(pin, u.PINHash); err != nil {
		return models.User{}, ErrInvalidPIN
	}
	return u, nil
}
