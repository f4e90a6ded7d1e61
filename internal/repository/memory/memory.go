// Package memory implements the repository interfaces against process
// memory. It backs tests and local experiments; the semantics mirror the
// postgres implementations, including atomic rollback of a ledger unit.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/billraya/ewallet-backend/internal/models"
	repo "github.com/billraya/ewallet-backend/internal/repository"
	"github.com/google/uuid"
)

type Store struct {
	mu        sync.Mutex
	users     map[string]models.User
	wallets   map[string]models.Wallet
	txns      []models.Transaction
	histories []models.TransferHistory
	types     []models.TransactionType
	methods   []models.PaymentMethod
	tips      []models.Tip
	audits    []models.AuditLog
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]models.User),
		wallets: make(map[string]models.Wallet),
	}
}

// ----------------- seeding & assertions -----------------

func (s *Store) AddUser(u models.User, balance int64, cardNumber string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users[u.ID] = u
	s.wallets[u.ID] = models.Wallet{UserID: u.ID, Balance: balance, CardNumber: cardNumber, UpdatedAt: time.Now()}
}

func (s *Store) SetCatalog(types []models.TransactionType, methods []models.PaymentMethod, tips []models.Tip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types, s.methods, s.tips = types, methods, tips
}

func (s *Store) WalletOf(userID string) models.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallets[userID]
}

func (s *Store) AllTransactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Transaction(nil), s.txns...)
}

func (s *Store) AllHistories() []models.TransferHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TransferHistory(nil), s.histories...)
}

// ----------------- repositories -----------------

func (s *Store) Users() repo.Users                         { return usersRepo{s} }
func (s *Store) Wallets() repo.Wallets                     { return walletsRepo{s} }
func (s *Store) Transactions() repo.Transactions           { return txnsRepo{s} }
func (s *Store) TransferHistories() repo.TransferHistories { return historiesRepo{s} }
func (s *Store) Catalog() repo.Catalog                     { return catalogRepo{s} }
func (s *Store) AuditLogs() repo.AuditLogs                 { return auditsRepo{s} }
func (s *Store) Ledger() repo.Ledger                       { return ledgerRepo{s} }

type usersRepo struct{ s *Store }

func (r usersRepo) Create(_ context.Context, u models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = u
	return u, nil
}

func (r usersRepo) GetByID(_ context.Context, id string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r usersRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

func (r usersRepo) ResolveRecipient(_ context.Context, token string) (models.Recipient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// username namespace wins over card numbers
	for _, u := range r.s.users {
		if u.Username == token {
			if _, ok := r.s.wallets[u.ID]; ok {
				return models.Recipient{UserID: u.ID, Username: u.Username}, nil
			}
		}
	}
	for id, w := range r.s.wallets {
		if w.CardNumber == token {
			return models.Recipient{UserID: id, Username: r.s.users[id].Username}, nil
		}
	}
	return models.Recipient{}, repo.ErrNotFound
}

type walletsRepo struct{ s *Store }

func (r walletsRepo) Create(_ context.Context, w models.Wallet) (models.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w.UpdatedAt = time.Now()
	r.s.wallets[w.UserID] = w
	return w, nil
}

func (r walletsRepo) Get(_ context.Context, userID string) (models.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.wallets[userID]
	if !ok {
		return models.Wallet{}, repo.ErrNotFound
	}
	return w, nil
}

type txnsRepo struct{ s *Store }

func (r txnsRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Transaction
	for i := len(r.s.txns) - 1; i >= 0; i-- { // newest first
		if r.s.txns[i].UserID == userID {
			out = append(out, r.s.txns[i])
		}
	}
	return page(out, limit, offset), nil
}

func (r txnsRepo) ListByCode(_ context.Context, code string) ([]models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Transaction
	for _, t := range r.s.txns {
		if t.TransactionCode == code {
			out = append(out, t)
		}
	}
	return out, nil
}

type historiesRepo struct{ s *Store }

func (r historiesRepo) ListBySender(_ context.Context, senderID string, limit, offset int) ([]models.TransferHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.TransferHistory
	for i := len(r.s.histories) - 1; i >= 0; i-- {
		if r.s.histories[i].SenderID == senderID {
			out = append(out, r.s.histories[i])
		}
	}
	return page(out, limit, offset), nil
}

type catalogRepo struct{ s *Store }

func (r catalogRepo) TransactionTypes(_ context.Context) ([]models.TransactionType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]models.TransactionType(nil), r.s.types...), nil
}

func (r catalogRepo) PaymentMethods(_ context.Context) ([]models.PaymentMethod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]models.PaymentMethod(nil), r.s.methods...), nil
}

func (r catalogRepo) Tips(_ context.Context) ([]models.Tip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]models.Tip(nil), r.s.tips...), nil
}

type auditsRepo struct{ s *Store }

func (r auditsRepo) Create(_ context.Context, l models.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = uuid.NewString()
	l.CreatedAt = time.Now()
	r.s.audits = append(r.s.audits, l)
	return nil
}

// ----------------- ledger -----------------

type ledgerRepo struct{ s *Store }

// WithTx serializes units of work on the store lock and snapshots mutable
// state first, so an error from fn rolls everything back, like a database
// transaction would.
func (r ledgerRepo) WithTx(ctx context.Context, fn func(ctx context.Context, tx repo.LedgerTx) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	wallets := make(map[string]models.Wallet, len(r.s.wallets))
	for k, v := range r.s.wallets {
		wallets[k] = v
	}
	nTxns, nHist := len(r.s.txns), len(r.s.histories)

	if err := fn(ctx, ledgerTx{r.s}); err != nil {
		r.s.wallets = wallets
		r.s.txns = r.s.txns[:nTxns]
		r.s.histories = r.s.histories[:nHist]
		return err
	}
	return nil
}

type ledgerTx struct{ s *Store }

func (l ledgerTx) LockWallets(_ context.Context, userIDs ...string) ([]models.Wallet, error) {
	var out []models.Wallet
	for _, id := range userIDs {
		w, ok := l.s.wallets[id]
		if !ok {
			return nil, repo.ErrNotFound
		}
		out = append(out, w)
	}
	return out, nil
}

func (l ledgerTx) DebitWallet(_ context.Context, userID string, amount int64) error {
	w, ok := l.s.wallets[userID]
	if !ok || w.Balance < amount {
		return repo.ErrInsufficientBalance
	}
	w.Balance -= amount
	w.UpdatedAt = time.Now()
	l.s.wallets[userID] = w
	return nil
}

func (l ledgerTx) CreditWallet(_ context.Context, userID string, amount int64) error {
	w, ok := l.s.wallets[userID]
	if !ok {
		return repo.ErrNotFound
	}
	w.Balance += amount
	w.UpdatedAt = time.Now()
	l.s.wallets[userID] = w
	return nil
}

func (l ledgerTx) CreateTransaction(_ context.Context, t models.Transaction) (models.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now()
	l.s.txns = append(l.s.txns, t)
	return t, nil
}

func (l ledgerTx) CreateTransferHistory(_ context.Context, h models.TransferHistory) (models.TransferHistory, error) {
	for _, e := range l.s.histories {
		if e.TransactionCode == h.TransactionCode {
			return models.TransferHistory{}, repo.ErrDuplicateCode
		}
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	h.CreatedAt = time.Now()
	l.s.histories = append(l.s.histories, h)
	return h, nil
}

func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
