package postgres

import (
	"context"

	"github.com/billraya/ewallet-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type transactionsRepo struct{ pool *pgxpool.Pool }

const txnColumns = `id, user_id, transaction_type_id, payment_method_id, description,
       amount, transaction_code, status, created_at`

func (r *transactionsRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+txnColumns+`
		   FROM transactions
		  WHERE user_id=$1
		  ORDER BY created_at DESC
		  LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return scanTransactions(rows)
}

func (r *transactionsRepo) ListByCode(ctx context.Context, code string) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+txnColumns+`
		   FROM transactions
		  WHERE transaction_code=$1
		  ORDER BY created_at`,
		code,
	)
	if err != nil {
		return nil, err
	}
	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	defer rows.Close()
	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.TransactionTypeID, &t.PaymentMethodID,
			&t.Description, &t.Amount, &t.TransactionCode, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
