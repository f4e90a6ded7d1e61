package repository

import (
	"context"
	"errors"

	"github.com/billraya/ewallet-backend/internal/models"
)

// Storage-level sentinel errors. Postgres implementations translate driver
// errors into these so services never inspect SQLSTATEs themselves.
var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDuplicateCode       = errors.New("duplicate transaction code")
)

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)

	// ResolveRecipient matches token against usernames first, then wallet
	// card numbers. Returns ErrNotFound when neither matches.
	ResolveRecipient(ctx context.Context, token string) (models.Recipient, error)
}

type Wallets interface {
	Create(ctx context.Context, w models.Wallet) (models.Wallet, error)
	Get(ctx context.Context, userID string) (models.Wallet, error)
}

type Transactions interface {
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error)
	ListByCode(ctx context.Context, code string) ([]models.Transaction, error)
}

type TransferHistories interface {
	ListBySender(ctx context.Context, senderID string, limit, offset int) ([]models.TransferHistory, error)
}

type Catalog interface {
	TransactionTypes(ctx context.Context) ([]models.TransactionType, error)
	PaymentMethods(ctx context.Context) ([]models.PaymentMethod, error)
	Tips(ctx context.Context) ([]models.Tip, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}

// LedgerTx carries the writes of one transfer. Every call runs inside the
// database transaction opened by Ledger.WithTx.
type LedgerTx interface {
	// LockWallets acquires row locks on the given wallets in ascending
	// user-id order, so opposing transfers between the same pair cannot
	// deadlock. The returned slice follows the same order.
	LockWallets(ctx context.Context, userIDs ...string) ([]models.Wallet, error)

	// DebitWallet decrements conditionally: it fails with
	// ErrInsufficientBalance instead of ever taking a balance negative.
	DebitWallet(ctx context.Context, userID string, amount int64) error
	CreditWallet(ctx context.Context, userID string, amount int64) error

	CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)
	CreateTransferHistory(ctx context.Context, h models.TransferHistory) (models.TransferHistory, error)
}

// Ledger runs fn inside a single atomic unit of work. fn returning an error
// rolls everything back; otherwise the unit commits.
type Ledger interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}
