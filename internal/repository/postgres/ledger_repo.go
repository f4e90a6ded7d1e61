package postgres

import (
	"context"
	"sort"

	"github.com/billraya/ewallet-backend/internal/models"
	repo "github.com/billraya/ewallet-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ledgerRepo struct{ pool *pgxpool.Pool }

// WithTx runs fn inside one database transaction. Read committed is enough
// here: correctness comes from the explicit row locks and the conditional
// debit, both executed by fn through the LedgerTx it receives.
func (r *ledgerRepo) WithTx(ctx context.Context, fn func(ctx context.Context, tx repo.LedgerTx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}
	if err := fn(ctx, &ledgerTx{tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type ledgerTx struct{ tx pgx.Tx }

// LockWallets takes FOR UPDATE locks in ascending user-id order. Two
// opposing transfers between the same pair then always queue on the same
// row first, so no circular wait is possible.
func (l *ledgerTx) LockWallets(ctx context.Context, userIDs ...string) ([]models.Wallet, error) {
	ids := append([]string(nil), userIDs...)
	sort.Strings(ids)

	rows, err := l.tx.Query(ctx,
		`SELECT user_id, balance, card_number, updated_at
		   FROM wallets
		  WHERE user_id = ANY($1)
		  ORDER BY user_id
		  FOR UPDATE`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Wallet
	for rows.Next() {
		var w models.Wallet
		if err := rows.Scan(&w.UserID, &w.Balance, &w.CardNumber, &w.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) != len(ids) {
		return nil, repo.ErrNotFound
	}
	return out, nil
}

func (l *ledgerTx) DebitWallet(ctx context.Context, userID string, amount int64) error {
	tag, err := l.tx.Exec(ctx,
		`UPDATE wallets
		    SET balance = balance - $2,
		        updated_at = now()
		  WHERE user_id = $1 AND balance >= $2`,
		userID, amount,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrInsufficientBalance
	}
	return nil
}

func (l *ledgerTx) CreditWallet(ctx context.Context, userID string, amount int64) error {
	tag, err := l.tx.Exec(ctx,
		`UPDATE wallets
		    SET balance = balance + $2,
		        updated_at = now()
		  WHERE user_id = $1`,
		userID, amount,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (l *ledgerTx) CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	err := l.tx.QueryRow(ctx,
		`INSERT INTO transactions(id, user_id, transaction_type_id, payment_method_id,
		                          description, amount, transaction_code, status)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING created_at`,
		t.ID, t.UserID, t.TransactionTypeID, t.PaymentMethodID,
		t.Description, t.Amount, t.TransactionCode, t.Status,
	).Scan(&t.CreatedAt)
	if err != nil {
		return models.Transaction{}, translate(err)
	}
	return t, nil
}

func (l *ledgerTx) CreateTransferHistory(ctx context.Context, h models.TransferHistory) (models.TransferHistory, error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	err := l.tx.QueryRow(ctx,
		`INSERT INTO transfer_histories(id, sender_id, receiver_id, transaction_code)
		 VALUES($1,$2,$3,$4)
		 RETURNING created_at`,
		h.ID, h.SenderID, h.ReceiverID, h.TransactionCode,
	).Scan(&h.CreatedAt)
	if err != nil {
		return models.TransferHistory{}, translate(err)
	}
	return h, nil
}
