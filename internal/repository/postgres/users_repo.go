package postgres

import (
	"context"

	"github.com/billraya/ewallet-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type usersRepo struct{ pool *pgxpool.Pool }

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users(id, username, email, password_hash, pin_hash)
		 VALUES($1,$2,$3,$4,$5)
		 RETURNING created_at, updated_at`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.PINHash,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return models.User{}, translate(err)
	}
	return u, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	return r.get(ctx, `WHERE id=$1`, id)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.get(ctx, `WHERE email=$1`, email)
}

func (r *usersRepo) get(ctx context.Context, where string, arg any) (models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash, pin_hash, created_at, updated_at FROM users `+where,
		arg,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.PINHash, &u.CreatedAt, &u.UpdatedAt)
	return u, translate(err)
}

// ResolveRecipient matches a human-entered token against usernames and wallet
// card numbers. A username match wins when both predicates could hit, which
// keeps the result deterministic even if the two namespaces overlap.
func (r *usersRepo) ResolveRecipient(ctx context.Context, token string) (models.Recipient, error) {
	var rec models.Recipient
	err := r.pool.QueryRow(ctx,
		`SELECT u.id, u.username
		   FROM users u
		   JOIN wallets w ON w.user_id = u.id
		  WHERE u.username = $1 OR w.card_number = $1
		  ORDER BY (u.username = $1) DESC
		  LIMIT 1`,
		token,
	).Scan(&rec.UserID, &rec.Username)
	return rec, translate(err)
}
