package services

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"github.com/billraya/ewallet-backend/internal/auth"
	"github.com/billraya/ewallet-backend/internal/models"
	repo "github.com/billraya/ewallet-backend/internal/repository"
)

type UserService struct {
	users   repo.Users
	wallets repo.Wallets
	tm      *auth.TokenManager
}

func NewUserService(users repo.Users, wallets repo.Wallets, tm *auth.TokenManager) *UserService {
	return &UserService{users: users, wallets: wallets, tm: tm}
}

// Register creates a user and an empty wallet with a fresh card number.
func (s *UserService) Register(ctx context.Context, username, email, password, pin string) (models.User, error) {
	u := models.User{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
	}
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	if len(password) < 6 {
		return models.User{}, errors.New("password too short")
	}
	if !models.ValidPIN(pin) {
		return models.User{}, errors.New("pin must be 6 digits")
	}

	var err error
	if u.PasswordHash, err = auth.HashPassword(password); err != nil {
		return models.User{}, err
	}
	if u.PINHash, err = auth.HashPIN(pin); err != nil {
		return models.User{}, err
	}

	u, err = s.users.Create(ctx, u)
	if err != nil {
		return models.User{}, err
	}
	card, err := newCardNumber()
	if err != nil {
		return models.User{}, err
	}
	if _, err := s.wallets.Create(ctx, models.Wallet{UserID: u.ID, CardNumber: card}); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, ErrInvalidLogin
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return "", time.Time{}, ErrInvalidLogin
	}
	return s.tm.Generate(u.ID)
}

// newCardNumber produces a 16-digit card number for a new wallet. Uniqueness
// is enforced by the wallets table; a collision fails the insert.
func newCardNumber() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	digits := make([]byte, 16)
	for i, b := range buf {
		digits[i] = '0' + b%10
	}
	return string(digits), nil
}
