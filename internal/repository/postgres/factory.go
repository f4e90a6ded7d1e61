package postgres

import (
	"errors"

	repo "github.com/billraya/ewallet-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Users             repo.Users
	Wallets           repo.Wallets
	Transactions      repo.Transactions
	TransferHistories repo.TransferHistories
	Catalog           repo.Catalog
	AuditLogs         repo.AuditLogs
	Ledger            repo.Ledger
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:             &usersRepo{pool},
		Wallets:           &walletsRepo{pool},
		Transactions:      &transactionsRepo{pool},
		TransferHistories: &transferHistoriesRepo{pool},
		Catalog:           &catalogRepo{pool},
		AuditLogs:         &auditLogsRepo{pool},
		Ledger:            &ledgerRepo{pool},
	}
}

const uniqueViolation = "23505"

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repo.ErrDuplicateCode
	}
	return err
}
