package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billraya/ewallet-backend/internal/auth"
	"github.com/billraya/ewallet-backend/internal/models"
	repo "github.com/billraya/ewallet-backend/internal/repository"
	"github.com/billraya/ewallet-backend/internal/repository/memory"
	"github.com/billraya/ewallet-backend/internal/txcode"
	"github.com/billraya/ewallet-backend/internal/worker"
)

const (
	testPIN      = "123456"
	aliceID      = "11111111-1111-1111-1111-111111111111"
	bobID        = "22222222-2222-2222-2222-222222222222"
	bobCard      = "4000111122223333"
	aliceBalance = int64(50000)
	bobBalance   = int64(5000)
)

var (
	pinHashOnce sync.Once
	pinHash     string
)

func testPINHash(t *testing.T) string {
	t.Helper()
	pinHashOnce.Do(func() {
		h, err := auth.HashPIN(testPIN)
		if err != nil {
			t.Fatalf("hash pin: %v", err)
		}
		pinHash = h
	})
	return pinHash
}

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	hash := testPINHash(t)
	s.AddUser(models.User{ID: aliceID, Username: "alice", Email: "alice@mail.test", PINHash: hash}, aliceBalance, "4000999988887777")
	s.AddUser(models.User{ID: bobID, Username: "bob", Email: "bob@mail.test", PINHash: hash}, bobBalance, bobCard)
	s.SetCatalog(
		[]models.TransactionType{
			{ID: 1, Code: models.TypeTransfer, Name: "Transfer"},
			{ID: 2, Code: models.TypeReceive, Name: "Receive"},
		},
		[]models.PaymentMethod{
			{ID: 1, Name: "Bank BWA", Code: models.PaymentMethodInternal, Status: "active"},
		},
		nil,
	)
	return s
}

func newService(t *testing.T, s *memory.Store) *TransferService {
	t.Helper()
	catalog := NewCatalogService(s.Catalog())
	require.NoError(t, catalog.Load(context.Background()))

	wp := worker.NewPool(1)
	t.Cleanup(wp.Stop)

	return NewTransferService(TransferDeps{
		Users:   s.Users(),
		Wallets: s.Wallets(),
		Txns:    s.Transactions(),
		History: s.TransferHistories(),
		Ledger:  s.Ledger(),
		Audits:  s.AuditLogs(),
		Catalog: catalog,
		Gate:    NewCredentialGate(s.Users()),
		Codes:   txcode.New(),
		Pool:    wp,
	})
}

func requireUntouched(t *testing.T, s *memory.Store) {
	t.Helper()
	assert.Equal(t, aliceBalance, s.WalletOf(aliceID).Balance)
	assert.Equal(t, bobBalance, s.WalletOf(bobID).Balance)
	assert.Empty(t, s.AllTransactions())
	assert.Empty(t, s.AllHistories())
}

func TestTransferSuccess(t *testing.T) {
	s := seedStore(t)
	svc := newService(t, s)

	res, err := svc.Transfer(context.Background(), aliceID, TransferRequest{
		Amount: 20000, PIN: testPIN, SendTo: "bob",
	})
	require.NoError(t, err)
	assert.Len(t, res.TransactionCode, txcode.Length)
	assert.Equal(t, "bob", res.Receiver.Username)

	assert.Equal(t, int64(30000), s.WalletOf(aliceID).Balance)
	assert.Equal(t, int64(25000), s.WalletOf(bobID).Balance)

	// paired entries share the code, the amount and a success status
	txs := s.AllTransactions()
	require.Len(t, txs, 2)
	assert.Equal(t, aliceID, txs[0].UserID)
	assert.Equal(t, int32(1), txs[0].TransactionTypeID)
	assert.Equal(t, "Transfer funds to bob", txs[0].Description)
	assert.Equal(t, bobID, txs[1].UserID)
	assert.Equal(t, int32(2), txs[1].TransactionTypeID)
	assert.Equal(t, "Receive funds from alice", txs[1].Description)
	for _, tx := range txs {
		assert.Equal(t, res.TransactionCode, tx.TransactionCode)
		assert.Equal(t, int64(20000), tx.Amount)
		assert.Equal(t, models.TxnSuccess, tx.Status)
	}

	hs := s.AllHistories()
	require.Len(t, hs, 1)
	assert.Equal(t, aliceID, hs[0].SenderID)
	assert.Equal(t, bobID, hs[0].ReceiverID)
	assert.Equal(t, res.TransactionCode, hs[0].TransactionCode)
}

func TestTransferConservesTotalBalance(t *testing.T) {
	s := seedStore(t)
	svc := newService(t, s)
	before := s.WalletOf(aliceID).Balance + s.WalletOf(bobID).Balance

	_, err := svc.Transfer(context.Background(), aliceID, TransferRequest{Amount: 15000, PIN: testPIN, SendTo: bobCard})
	require.NoError(t, err)

	after := s.WalletOf(aliceID).Balance + s.WalletOf(bobID).Balance
	assert.Equal(t, before, after)
}

func TestTransferResolvesCardNumber(t *testing.T) {
	s := seedStore(t)
	svc := newService(t, s)

	res, err := svc.Transfer(context.Background(), aliceID, TransferRequest{Amount: 10000, PIN: testPIN, SendTo: bobCard})
	require.NoError(t, err)
	assert.Equal(t, bobID, res.Receiver.UserID)
}

func TestTransferBelowMinimum(t *testing.T) {
	s := seedStore(t)
	svc := newService(t, s)

	_, err := svc.Transfer(context.Background(), aliceID, TransferRequest{Amount: 5000, PIN: testPIN, SendTo: "bob"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")
	requireUntouched(t, s)
}

func TestTransferMalformedPIN(t *testing.T) {
	s := seedStore(t)
	svc := newService(t, s)

	_, err := svc.Transfer(context.Background(), aliceID, TransferRequest{Amount: 20000, PIN: "12ab56", SendTo: "bob"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pin")
	requireUntouched(t, s)
}

func TestTransferWrongPIN(t *testing.T) {
	s := seedStore(t)
	svc := newService(t, s)

	_, err := svc.Transfer(context.Background(), aliceID, TransferRequest{Amount: 20000, PIN: "654321", SendTo: "bob"})
	assert.ErrorIs(t, err, ErrInvalidPIN)
	requireUntouched(t, s)
}

func TestTransferReceiverNotFound(t *testing.T) {
	s := seedStore(t)
	svc := newService(t, s)

	_, err := svc.Transfer(context.Background(), aliceID, TransferRequest{Amount: 20000, PIN: testPIN, SendTo: "nobody"})
	assert.ErrorIs(t, err, ErrReceiverNotFound)
	requireUntouched(t, s)
}

func TestTransferToSelf(t *testing.T) {
	s := seedStore(t)
	svc := newService(t, s)

	_, err := svc.Transfer(context.Background(), aliceID, TransferRequest{Amount: 20000, PIN: testPIN, SendTo: "alice"})
	assert.ErrorIs(t, err, ErrSelfTransfer)
	requireUntouched(t, s)
}

func TestTransferInsufficientBalance(t *testing.T) {
	s := seedStore(t)
	svc := newService(t, s)

	_, err := svc.Transfer(context.Background(), bobID, TransferRequest{Amount: 20000, PIN: testPIN, SendTo: "alice"})
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	requireUntouched(t, s)
}

func TestTransferConfigurationMissing(t *testing.T) {
	s := seedStore(t)
	s.SetCatalog(nil, nil, nil)
	svc := newService(t, s)

	_, err := svc.Transfer(context.Background(), aliceID, TransferRequest{Amount: 20000, PIN: testPIN, SendTo: "bob"})
	assert.ErrorIs(t, err, ErrConfigurationMissing)
	requireUntouched(t, s)
}

// Two concurrent transfers of X from a wallet holding 1.5X: exactly one must
// commit, and the balance must never go negative.
func TestTransferConcurrentOverdraw(t *testing.T) {
	s := memory.NewStore()
	hash := testPINHash(t)
	s.AddUser(models.User{ID: aliceID, Username: "alice", Email: "alice@mail.test", PINHash: hash}, 30000, "4000999988887777")
	s.AddUser(models.User{ID: bobID, Username: "bob", Email: "bob@mail.test", PINHash: hash}, 0, bobCard)
	s.SetCatalog(
		[]models.TransactionType{
			{ID: 1, Code: models.TypeTransfer, Name: "Transfer"},
			{ID: 2, Code: models.TypeReceive, Name: "Receive"},
		},
		[]models.PaymentMethod{{ID: 1, Name: "Bank BWA", Code: models.PaymentMethodInternal, Status: "active"}},
		nil,
	)
	svc := newService(t, s)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(context.Background(), aliceID, TransferRequest{Amount: 20000, PIN: testPIN, SendTo: "bob"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, insufficient int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrInsufficientBalance):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)

	assert.Equal(t, int64(10000), s.WalletOf(aliceID).Balance)
	assert.Equal(t, int64(20000), s.WalletOf(bobID).Balance)
	assert.GreaterOrEqual(t, s.WalletOf(aliceID).Balance, int64(0))
	assert.Len(t, s.AllHistories(), 1)
}

func TestTransferRetriesOnCodeCollision(t *testing.T) {
	s := seedStore(t)
	svc := newService(t, s)

	// Counter source: every Generate call yields a different code, so a
	// collision with an existing history row is survivable.
	svc.codes = txcode.NewWithSource(&countingReader{})
	first, err := svc.codes.Generate()
	require.NoError(t, err)
	svc.codes = txcode.NewWithSource(&countingReader{})

	require.NoError(t, s.Ledger().WithTx(context.Background(), func(ctx context.Context, tx repo.LedgerTx) error {
		_, err := tx.CreateTransferHistory(ctx, models.TransferHistory{
			SenderID: bobID, ReceiverID: aliceID, TransactionCode: first,
		})
		return err
	}))

	res, err := svc.Transfer(context.Background(), aliceID, TransferRequest{Amount: 20000, PIN: testPIN, SendTo: "bob"})
	require.NoError(t, err)
	assert.NotEqual(t, first, res.TransactionCode)
	assert.Len(t, s.AllHistories(), 2)
}

func TestTransferTimedOut(t *testing.T) {
	s := seedStore(t)
	catalog := NewCatalogService(s.Catalog())
	require.NoError(t, catalog.Load(context.Background()))
	wp := worker.NewPool(1)
	t.Cleanup(wp.Stop)

	svc := NewTransferService(TransferDeps{
		Users:     s.Users(),
		Wallets:   s.Wallets(),
		Txns:      s.Transactions(),
		History:   s.TransferHistories(),
		Ledger:    stalledLedger{},
		Audits:    s.AuditLogs(),
		Catalog:   catalog,
		Gate:      NewCredentialGate(s.Users()),
		Codes:     txcode.New(),
		Pool:      wp,
		TxTimeout: 20 * time.Millisecond,
	})

	_, err := svc.Transfer(context.Background(), aliceID, TransferRequest{Amount: 20000, PIN: testPIN, SendTo: "bob"})
	assert.ErrorIs(t, err, ErrTransferTimedOut)
}

// stalledLedger simulates a unit of work stuck behind a row lock until the
// transaction deadline fires, then reports the rollback.
type stalledLedger struct{}

func (stalledLedger) WithTx(ctx context.Context, _ func(context.Context, repo.LedgerTx) error) error {
	<-ctx.Done()
	return ctx.Err()
}

// countingReader yields a strictly increasing byte stream so consecutive
// codes differ.
type countingReader struct{ n byte }

func (r *countingReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.n
		r.n++
	}
	return len(p), nil
}
