package postgres

import (
	"context"

	"github.com/billraya/ewallet-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type catalogRepo struct{ pool *pgxpool.Pool }

func (r *catalogRepo) TransactionTypes(ctx context.Context) ([]models.TransactionType, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, name FROM transaction_types ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TransactionType
	for rows.Next() {
		var t models.TransactionType
		if err := rows.Scan(&t.ID, &t.Code, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *catalogRepo) PaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, code, status, thumbnail FROM payment_methods ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PaymentMethod
	for rows.Next() {
		var m models.PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.Code, &m.Status, &m.Thumbnail); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *catalogRepo) Tips(ctx context.Context) ([]models.Tip, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, thumbnail, url FROM tips ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Tip
	for rows.Next() {
		var t models.Tip
		if err := rows.Scan(&t.ID, &t.Title, &t.Thumbnail, &t.URL); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
