package services

import (
	"sync"
	"testing"

	"cobfacil_backend/internal/appErrors"
	"cobfacil_backend/internal/models"
	"cobfacil_backend/internal/repositories"
	"cobfacil_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubWalletRepo keeps one wallet and enforces the same debit floor the real
// repository applies inside its conditional update.
type stubWalletRepo struct {
	mu     sync.Mutex
	wallet *models.Wallet
	txs    []*models.WalletTransaction
}

func newStubWalletRepo(userID string, balanceCents int64) *stubWalletRepo {
	wallet := &models.Wallet{UserID: userID, BalanceCents: balanceCents}
	wallet.ID = "wallet-1"
	return &stubWalletRepo{wallet: wallet}
}

func (r *stubWalletRepo) Create(w *models.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wallet = w
	return nil
}

// FindByUserID hands out a copy, the way a row read does.
func (r *stubWalletRepo) FindByUserID(userID string) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.wallet == nil || r.wallet.UserID != userID {
		return nil, repositories.ErrWalletNotFound
	}
	snapshot := *r.wallet
	return &snapshot, nil
}

func (r *stubWalletRepo) FindTransactions(walletID string, limit int) ([]models.WalletTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.WalletTransaction
	for _, tx := range r.txs {
		if tx.WalletID == walletID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *stubWalletRepo) Apply(walletID string, delta int64, tx *models.WalletTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.wallet == nil || r.wallet.ID != walletID {
		return repositories.ErrWalletNotFound
	}
	if delta < 0 && r.wallet.BalanceCents+delta < 0 {
		return repositories.ErrInsufficientBalance
	}
	r.wallet.BalanceCents += delta
	tx.WalletID = walletID
	r.txs = append(r.txs, tx)
	return nil
}

func TestWithdrawDebitsBalance(t *testing.T) {
	repo := newStubWalletRepo("user-1", 10000)
	svc := NewWalletService(repo)

	response, err := svc.Withdraw("user-1", &dto.WithdrawRequest{AmountCents: 4000, PixKey: "ana@example.com"})
	require.NoError(t, err)

	assert.Equal(t, int64(6000), response.BalanceCents)
	require.Len(t, repo.txs, 1)
	assert.Equal(t, models.WalletTransactionWithdraw, repo.txs[0].Type)
	assert.Equal(t, int64(4000), repo.txs[0].AmountCents)
}

func TestWithdrawRejectsNonPositiveAmount(t *testing.T) {
	repo := newStubWalletRepo("user-1", 10000)
	svc := NewWalletService(repo)

	_, err := svc.Withdraw("user-1", &dto.WithdrawRequest{AmountCents: 0, PixKey: "ana@example.com"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidWithdrawValue)
	assert.Empty(t, repo.txs)
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	repo := newStubWalletRepo("user-1", 1000)
	svc := NewWalletService(repo)

	_, err := svc.Withdraw("user-1", &dto.WithdrawRequest{AmountCents: 2000, PixKey: "ana@example.com"})
	assert.ErrorIs(t, err, appErrors.ErrInsufficientBalance)
	assert.Equal(t, int64(1000), repo.wallet.BalanceCents)
	assert.Empty(t, repo.txs)
}

func TestConcurrentWithdrawalsCannotOverdraw(t *testing.T) {
	repo := newStubWalletRepo("user-1", 10000)
	svc := NewWalletService(repo)

	// Both requests read the same balance; only one debit may clear.
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Withdraw("user-1", &dto.WithdrawRequest{AmountCents: 8000, PixKey: "ana@example.com"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var rejected int
	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, appErrors.ErrInsufficientBalance)
			rejected++
		}
	}
	assert.Equal(t, 1, rejected, "exactly one withdrawal must be rejected")
	assert.Equal(t, int64(2000), repo.wallet.BalanceCents)
	assert.Len(t, repo.txs, 1)
}

func TestCreditIncreasesBalance(t *testing.T) {
	repo := newStubWalletRepo("user-1", 500)
	svc := NewWalletService(repo)

	require.NoError(t, svc.Credit("user-1", 150000, "Pagamento de cobrança", "billing-1"))

	assert.Equal(t, int64(150500), repo.wallet.BalanceCents)
	require.Len(t, repo.txs, 1)
	assert.Equal(t, models.WalletTransactionCredit, repo.txs[0].Type)
	assert.Equal(t, "billing-1", repo.txs[0].BillingID)
}
