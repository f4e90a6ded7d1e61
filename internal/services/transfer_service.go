package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/billraya/ewallet-backend/internal/api/validate"
	"github.com/billraya/ewallet-backend/internal/metrics"
	"github.com/billraya/ewallet-backend/internal/models"
	repo "github.com/billraya/ewallet-backend/internal/repository"
	"github.com/billraya/ewallet-backend/internal/txcode"
	"github.com/billraya/ewallet-backend/internal/worker"
)

// MinTransferAmount is the smallest accepted transfer, in minor units.
const MinTransferAmount = 10000

// maxCodeAttempts bounds retries when a generated transaction code collides
// with an existing one. At 36^10 codes a second attempt is already rare.
const maxCodeAttempts = 3

type TransferRequest struct {
	Amount int64  `json:"amount"`
	PIN    string `json:"pin"`
	SendTo string `json:"send_to"`
}

type TransferResult struct {
	TransactionCode string           `json:"transaction_code"`
	Amount          int64            `json:"amount"`
	Receiver        models.Recipient `json:"receiver"`
}

// TransferService sequences a transfer: request validation, PIN gate,
// recipient resolution, balance guard, then the atomic ledger write. Every
// failure before the unit of work opens leaves the store untouched; every
// failure inside it rolls the whole unit back.
type TransferService struct {
	users     repo.Users
	wallets   repo.Wallets
	txns      repo.Transactions
	history   repo.TransferHistories
	ledger    repo.Ledger
	audits    repo.AuditLogs
	catalog   *CatalogService
	gate      *CredentialGate
	codes     *txcode.Generator
	wp        *worker.Pool
	txTimeout time.Duration
}

type TransferDeps struct {
	Users     repo.Users
	Wallets   repo.Wallets
	Txns      repo.Transactions
	History   repo.TransferHistories
	Ledger    repo.Ledger
	Audits    repo.AuditLogs
	Catalog   *CatalogService
	Gate      *CredentialGate
	Codes     *txcode.Generator
	Pool      *worker.Pool
	TxTimeout time.Duration
}

func NewTransferService(d TransferDeps) *TransferService {
	if d.TxTimeout <= 0 {
		d.TxTimeout = 5 * time.Second
	}
	return &TransferService{
		users: d.Users, wallets: d.Wallets, txns: d.Txns, history: d.History,
		ledger: d.Ledger, audits: d.Audits, catalog: d.Catalog, gate: d.Gate,
		codes: d.Codes, wp: d.Pool, txTimeout: d.TxTimeout,
	}
}

func (s *TransferService) Transfer(ctx context.Context, senderID string, req TransferRequest) (TransferResult, error) {
	res, err := s.transfer(ctx, senderID, req)
	s.observe(senderID, req, res, err)
	return res, err
}

func (s *TransferService) transfer(ctx context.Context, senderID string, req TransferRequest) (TransferResult, error) {
	if err := validateRequest(req); err != nil {
		return TransferResult{}, err
	}

	sender, err := s.gate.Verify(ctx, senderID, req.PIN)
	if err != nil {
		return TransferResult{}, err
	}

	receiver, err := s.users.ResolveRecipient(ctx, req.SendTo)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return TransferResult{}, ErrReceiverNotFound
		}
		return TransferResult{}, err
	}
	if receiver.UserID == senderID {
		return TransferResult{}, ErrSelfTransfer
	}

	// Fast fail on an obviously short balance. The conditional debit inside
	// the transaction is the authoritative check; this read alone would race
	// with concurrent transfers from the same wallet.
	w, err := s.wallets.Get(ctx, senderID)
	if err != nil {
		return TransferResult{}, err
	}
	if w.Balance < req.Amount {
		return TransferResult{}, ErrInsufficientBalance
	}

	transferType, err := s.catalog.TransactionType(models.TypeTransfer)
	if err != nil {
		return TransferResult{}, err
	}
	receiveType, err := s.catalog.TransactionType(models.TypeReceive)
	if err != nil {
		return TransferResult{}, err
	}
	method, err := s.catalog.PaymentMethod(models.PaymentMethodInternal)
	if err != nil {
		return TransferResult{}, err
	}

	var code string
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		if code, err = s.codes.Generate(); err != nil {
			return TransferResult{}, &TransferFailedError{Cause: err}
		}
		err = s.writeLedger(ctx, sender, receiver, req.Amount, code, transferType, receiveType, method)
		if !errors.Is(err, repo.ErrDuplicateCode) {
			break
		}
	}

	switch {
	case err == nil:
		return TransferResult{TransactionCode: code, Amount: req.Amount, Receiver: receiver}, nil
	case errors.Is(err, repo.ErrInsufficientBalance):
		return TransferResult{}, ErrInsufficientBalance
	case errors.Is(err, context.DeadlineExceeded):
		// The unit hit its timeout and rolled back; the caller may retry.
		return TransferResult{}, ErrTransferTimedOut
	case errors.Is(err, context.Canceled):
		return TransferResult{}, err
	default:
		return TransferResult{}, &TransferFailedError{Cause: err}
	}
}

// writeLedger applies one transfer as a single atomic unit: both wallet rows
// locked in ascending id order, conditional debit, the paired ledger entries
// sharing code, credit, and the history row.
func (s *TransferService) writeLedger(
	ctx context.Context,
	sender models.User,
	receiver models.Recipient,
	amount int64,
	code string,
	transferType, receiveType models.TransactionType,
	method models.PaymentMethod,
) error {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	return s.ledger.WithTx(ctx, func(ctx context.Context, tx repo.LedgerTx) error {
		if _, err := tx.LockWallets(ctx, sender.ID, receiver.UserID); err != nil {
			return err
		}
		if err := tx.DebitWallet(ctx, sender.ID, amount); err != nil {
			return err
		}
		if _, err := tx.CreateTransaction(ctx, models.Transaction{
			UserID:            sender.ID,
			TransactionTypeID: transferType.ID,
			PaymentMethodID:   method.ID,
			Description:       "Transfer funds to " + receiver.Username,
			Amount:            amount,
			TransactionCode:   code,
			Status:            models.TxnSuccess,
		}); err != nil {
			return err
		}
		if err := tx.CreditWallet(ctx, receiver.UserID, amount); err != nil {
			return err
		}
		if _, err := tx.CreateTransaction(ctx, models.Transaction{
			UserID:            receiver.UserID,
			TransactionTypeID: receiveType.ID,
			PaymentMethodID:   method.ID,
			Description:       "Receive funds from " + sender.Username,
			Amount:            amount,
			TransactionCode:   code,
			Status:            models.TxnSuccess,
		}); err != nil {
			return err
		}
		_, err := tx.CreateTransferHistory(ctx, models.TransferHistory{
			SenderID:        sender.ID,
			ReceiverID:      receiver.UserID,
			TransactionCode: code,
		})
		return err
	})
}

func validateRequest(req TransferRequest) error {
	var errs validate.Errs
	if e := validate.Required("send_to", req.SendTo); e != nil {
		errs = append(errs, *e)
	}
	if e := validate.MinInt("amount", req.Amount, MinTransferAmount); e != nil {
		errs = append(errs, *e)
	}
	if !models.ValidPIN(req.PIN) {
		errs = append(errs, validate.ErrField{Field: "pin", Msg: "must be 6 digits"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// observe records the attempt outside the transfer path: a metrics counter
// and an async audit row. Neither may fail or delay the response.
func (s *TransferService) observe(senderID string, req TransferRequest, res TransferResult, err error) {
	outcome := outcomeLabel(err)
	metrics.TransfersTotal.WithLabelValues(outcome).Inc()
	if err == nil {
		metrics.TransferAmount.Observe(float64(req.Amount))
	}

	entityID := senderID
	details := map[string]any{
		"outcome": outcome,
		"amount":  req.Amount,
	}
	if res.TransactionCode != "" {
		details["transaction_code"] = res.TransactionCode
	}
	var failed *TransferFailedError
	if errors.As(err, &failed) {
		slog.Error("transfer failed", "sender", senderID, "err", failed.Cause)
	}

	s.wp.Submit(func() {
		if err := s.audits.Create(context.Background(), models.AuditLog{
			EntityType: "transfer",
			EntityID:   &entityID,
			Action:     "transfer_" + outcome,
			Details:    details,
		}); err != nil {
			slog.Warn("audit write", "err", err)
		}
	})
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.As(err, new(validate.Errs)):
		return "validation"
	case errors.Is(err, ErrInvalidPIN):
		return "credential"
	case errors.Is(err, ErrReceiverNotFound):
		return "not_found"
	case errors.Is(err, ErrSelfTransfer):
		return "self_transfer"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient"
	case errors.Is(err, ErrTransferTimedOut):
		return "timeout"
	case errors.Is(err, ErrConfigurationMissing):
		return "config_missing"
	default:
		return "failed"
	}
}

// ----------------- Queries -----------------

func (s *TransferService) Transactions(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	return s.txns.ListByUser(ctx, userID, limit, offset)
}

// TransactionsByCode returns both sides of one transfer, for reconciliation.
func (s *TransferService) TransactionsByCode(ctx context.Context, code string) ([]models.Transaction, error) {
	return s.txns.ListByCode(ctx, code)
}

func (s *TransferService) History(ctx context.Context, senderID string, limit, offset int) ([]models.TransferHistory, error) {
	return s.history.ListBySender(ctx, senderID, limit, offset)
}
