package postgres

import (
	"context"

	"github.com/billraya/ewallet-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type walletsRepo struct{ pool *pgxpool.Pool }

func (r *walletsRepo) Create(ctx context.Context, w models.Wallet) (models.Wallet, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO wallets(user_id, balance, card_number)
		 VALUES($1,$2,$3)
		 RETURNING updated_at`,
		w.UserID, w.Balance, w.CardNumber,
	).Scan(&w.UpdatedAt)
	if err != nil {
		return models.Wallet{}, translate(err)
	}
	return w, nil
}

func (r *walletsRepo) Get(ctx context.Context, userID string) (models.Wallet, error) {
	var w models.Wallet
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, balance, card_number, updated_at
		   FROM wallets
		  WHERE user_id=$1`,
		userID,
	).Scan(&w.UserID, &w.Balance, &w.CardNumber, &w.UpdatedAt)
	return w, translate(err)
}
