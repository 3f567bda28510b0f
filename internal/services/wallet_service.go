package services

import (
	"errors"

	"cobfacil_backend/internal/appErrors"
	"cobfacil_backend/internal/models"
	"cobfacil_backend/internal/repositories"
	"cobfacil_backend/internal/services/dto"

	"github.com/samber/lo"
)

const walletTransactionHistoryLimit = 50

type WalletService interface {
	CreateForUser(userID string) error
	GetWallet(userID string) (*dto.WalletResponse, error)
	Withdraw(userID string, req *dto.WithdrawRequest) (*dto.WalletResponse, error)
	Credit(userID string, amountCents int64, description, billingID string) error
}

type walletService struct {
	walletRepo repositories.WalletRepository
}

func NewWalletService(walletRepo repositories.WalletRepository) WalletService {
	return &walletService{walletRepo: walletRepo}
}

func (s *walletService) CreateForUser(userID string) error {
	return s.walletRepo.Create(&models.Wallet{UserID: userID})
}

func (s *walletService) GetWallet(userID string) (*dto.WalletResponse, error) {
	wallet, err := s.walletRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, appErrors.ErrWalletNotFound
		}
		return nil, err
	}

	transactions, err := s.walletRepo.FindTransactions(wallet.ID, walletTransactionHistoryLimit)
	if err != nil {
		return nil, err
	}

	return buildWalletResponse(wallet, transactions), nil
}

func (s *walletService) Withdraw(userID string, req *dto.WithdrawRequest) (*dto.WalletResponse, error) {
	if req.AmountCents <= 0 {
		return nil, appErrors.ErrInvalidWithdrawValue
	}

	wallet, err := s.walletRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, appErrors.ErrWalletNotFound
		}
		return nil, err
	}
	if wallet.BalanceCents < req.AmountCents {
		return nil, appErrors.ErrInsufficientBalance
	}

	err = s.walletRepo.Apply(wallet.ID, -req.AmountCents, &models.WalletTransaction{
		Type:        models.WalletTransactionWithdraw,
		AmountCents: req.AmountCents,
		Description: "Saque via PIX para " + req.PixKey,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientBalance) {
			return nil, appErrors.ErrInsufficientBalance
		}
		return nil, err
	}

	return s.GetWallet(userID)
}

func (s *walletService) Credit(userID string, amountCents int64, description, billingID string) error {
	wallet, err := s.walletRepo.FindByUserID(userID)
	if err != nil {
		return err
	}

	return s.walletRepo.Apply(wallet.ID, amountCents, &models.WalletTransaction{
		Type:        models.WalletTransactionCredit,
		AmountCents: amountCents,
		Description: description,
		BillingID:   billingID,
	})
}

func buildWalletResponse(wallet *models.Wallet, transactions []models.WalletTransaction) *dto.WalletResponse {
	return &dto.WalletResponse{
		ID:           wallet.ID,
		UserID:       wallet.UserID,
		BalanceCents: wallet.BalanceCents,
		Transactions: lo.Map(transactions, func(t models.WalletTransaction, _ int) *dto.WalletTransactionResponse {
			return &dto.WalletTransactionResponse{
				ID:          t.ID,
				Type:        string(t.Type),
				AmountCents: t.AmountCents,
				Description: t.Description,
				BillingID:   t.BillingID,
				CreatedAt:   t.CreatedAt,
			}
		}),
	}
}
