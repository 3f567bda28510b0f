package services

import (
	"errors"

	"cobfacil_backend/internal/logger"
	"cobfacil_backend/internal/models"
	"cobfacil_backend/internal/repositories"
	"cobfacil_backend/internal/services/dto"

	"github.com/samber/lo"
)

// Bonus credited to the referrer when the referred user pays a first charge.
const referralBonusCents int64 = 1000

type ReferralService interface {
	// RegisterSignup records a pending referral for a new user who signed up
	// with someone's code. Unknown codes are ignored.
	RegisterSignup(referralCode, referredID string) error

	// CompleteForPayer completes the pending referral of a user who just paid
	// a charge: credits the referrer's wallet and notifies them. No-op when
	// the user was not referred or the referral is already completed.
	CompleteForPayer(referredID string) error

	ListByReferrer(referrerID string) (*dto.ReferralListResponse, error)
}

type referralService struct {
	referralRepo  repositories.ReferralRepository
	userRepo      repositories.UserRepository
	wallets       WalletService
	notifications NotificationService
}

func NewReferralService(
	referralRepo repositories.ReferralRepository,
	userRepo repositories.UserRepository,
	wallets WalletService,
	notifications NotificationService,
) ReferralService {
	return &referralService{
		referralRepo:  referralRepo,
		userRepo:      userRepo,
		wallets:       wallets,
		notifications: notifications,
	}
}

func (s *referralService) RegisterSignup(referralCode, referredID string) error {
	referrer, err := s.userRepo.FindByReferralCode(referralCode)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			logger.Debug("signup with unknown referral code", "code", referralCode)
			return nil
		}
		return err
	}
	if referrer.ID == referredID {
		return nil
	}

	return s.referralRepo.Create(&models.Referral{
		ReferrerID: referrer.ID,
		ReferredID: referredID,
		BonusCents: referralBonusCents,
		Status:     models.ReferralStatusPending,
	})
}

func (s *referralService) CompleteForPayer(referredID string) error {
	referral, err := s.referralRepo.FindByReferred(referredID)
	if err != nil {
		if errors.Is(err, repositories.ErrReferralNotFound) {
			return nil
		}
		return err
	}
	if referral.Status != models.ReferralStatusPending {
		return nil
	}

	referral.Status = models.ReferralStatusCompleted
	if err := s.referralRepo.Update(referral); err != nil {
		return err
	}

	if err := s.wallets.Credit(referral.ReferrerID, referral.BonusCents, "Bônus de indicação", ""); err != nil {
		logger.Error("failed to credit referral bonus", "referral_id", referral.ID, "error", err)
	}

	if err := s.notifications.NotifyReferralBonus(referral.ReferrerID, referral.BonusCents); err != nil {
		logger.Error("failed to notify referrer", "referral_id", referral.ID, "error", err)
	}

	return nil
}

func (s *referralService) ListByReferrer(referrerID string) (*dto.ReferralListResponse, error) {
	referrals, err := s.referralRepo.FindByReferrer(referrerID)
	if err != nil {
		return nil, err
	}

	return &dto.ReferralListResponse{
		Referrals: lo.Map(referrals, func(r models.Referral, _ int) *dto.ReferralResponse {
			return &dto.ReferralResponse{
				ID:         r.ID,
				ReferredID: r.ReferredID,
				BonusCents: r.BonusCents,
				Status:     string(r.Status),
				CreatedAt:  r.CreatedAt,
			}
		}),
		Total: len(referrals),
	}, nil
}
