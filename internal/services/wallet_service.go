package services

import (
	"context"

	"github.com/billraya/ewallet-backend/internal/models"
	repo "github.com/billraya/ewallet-backend/internal/repository"
)

type WalletService struct{ r repo.Wallets }

func NewWalletService(r repo.Wallets) *WalletService { return &WalletService{r: r} }

func (s *WalletService) Current(ctx context.Context, userID string) (models.Wallet, error) {
	return s.r.Get(ctx, userID)
}
