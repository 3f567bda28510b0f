package repositories

import (
	"errors"

	"cobfacil_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

type WalletRepository interface {
	Create(wallet *models.Wallet) error
	FindByUserID(userID string) (*models.Wallet, error)
	FindTransactions(walletID string, limit int) ([]models.WalletTransaction, error)
	// Apply atomically adjusts the balance and records the transaction.
	// A debit that would take the balance below zero returns
	// ErrInsufficientBalance and leaves the wallet untouched.
	Apply(walletID string, delta int64, tx *models.WalletTransaction) error
}

type WalletRepositoryImpl struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &WalletRepositoryImpl{db: db}
}

func (r *WalletRepositoryImpl) Create(wallet *models.Wallet) error {
	return r.db.Create(wallet).Error
}

func (r *WalletRepositoryImpl) FindByUserID(userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.First(&wallet, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

func (r *WalletRepositoryImpl) FindTransactions(walletID string, limit int) ([]models.WalletTransaction, error) {
	var transactions []models.WalletTransaction
	err := r.db.Where("wallet_id = ?", walletID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error
	return transactions, err
}

func (r *WalletRepositoryImpl) Apply(walletID string, delta int64, walletTx *models.WalletTransaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.Wallet{}).Where("id = ?", walletID)
		if delta < 0 {
			// The floor is part of the update itself, so concurrent debits
			// against the same balance cannot both pass a stale read.
			query = query.Where("balance_cents + ? >= 0", delta)
		}

		result := query.Update("balance_cents", gorm.Expr("balance_cents + ?", delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if delta < 0 {
				return ErrInsufficientBalance
			}
			return ErrWalletNotFound
		}

		walletTx.WalletID = walletID
		return tx.Create(walletTx).Error
	})
}
