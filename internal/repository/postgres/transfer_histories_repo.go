package postgres

import (
	"context"

	"github.com/billraya/ewallet-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type transferHistoriesRepo struct{ pool *pgxpool.Pool }

func (r *transferHistoriesRepo) ListBySender(ctx context.Context, senderID string, limit, offset int) ([]models.TransferHistory, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, sender_id, receiver_id, transaction_code, created_at
		   FROM transfer_histories
		  WHERE sender_id=$1
		  ORDER BY created_at DESC
		  LIMIT $2 OFFSET $3`,
		senderID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TransferHistory
	for rows.Next() {
		var h models.TransferHistory
		if err := rows.Scan(&h.ID, &h.SenderID, &h.ReceiverID, &h.TransactionCode, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
