package services

import (
	"errors"
	"time"

	"cobfacil_backend/internal/appErrors"
	"cobfacil_backend/internal/logger"
	"cobfacil_backend/internal/models"
	"cobfacil_backend/internal/repositories"
	"cobfacil_backend/internal/services/dto"

	"github.com/samber/lo"
)

type BillingService interface {
	Create(creatorID string, req *dto.CreateBillingRequest) (*dto.BillingResponse, error)
	Get(billingID, requesterID string) (*dto.BillingResponse, error)
	ListCreated(userID string, criteria dto.BillingCriteria) (*dto.BillingListResponse, error)
	ListReceived(userID string, criteria dto.BillingCriteria) (*dto.BillingListResponse, error)
	Pay(billingID, payerID string, req *dto.PayBillingRequest) (*dto.BillingResponse, error)
	Cancel(billingID, requesterID string) (*dto.BillingResponse, error)
}

type billingService struct {
	billingRepo   repositories.BillingRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
	wallets       WalletService
	referrals     ReferralService
}

func NewBillingService(
	billingRepo repositories.BillingRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
	wallets WalletService,
	referrals ReferralService,
) BillingService {
	return &billingService{
		billingRepo:   billingRepo,
		userRepo:      userRepo,
		notifications: notifications,
		wallets:       wallets,
		referrals:     referrals,
	}
}

func (s *billingService) Create(creatorID string, req *dto.CreateBillingRequest) (*dto.BillingResponse, error) {
	debtor, err := s.userRepo.FindByEmail(req.DebtorEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, err
	}
	if debtor.ID == creatorID {
		return nil, appErrors.ErrSelfBilling
	}

	billing := &models.Billing{
		CreatorID:     creatorID,
		DebtorID:      debtor.ID,
		Description:   req.Description,
		AmountCents:   req.AmountCents,
		DueDate:       req.DueDate,
		Status:        models.BillingStatusPending,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
	}

	if err := s.billingRepo.Create(billing); err != nil {
		return nil, err
	}

	// The billing row is the source of truth; a notification failure must not
	// undo the charge.
	if err := s.notifications.NotifyChargeCreated(debtor.ID, billing); err != nil {
		logger.Error("failed to notify debtor of new charge", "billing_id", billing.ID, "error", err)
	}

	return buildBillingResponse(billing), nil
}

func (s *billingService) Get(billingID, requesterID string) (*dto.BillingResponse, error) {
	billing, err := s.findForParty(billingID, requesterID)
	if err != nil {
		return nil, err
	}
	return buildBillingResponse(billing), nil
}

func (s *billingService) ListCreated(userID string, criteria dto.BillingCriteria) (*dto.BillingListResponse, error) {
	billings, total, err := s.billingRepo.FindByCreator(userID, repositories.BillingCriteria{
		Status:   criteria.Status,
		Page:     criteria.Page,
		PageSize: criteria.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return buildBillingListResponse(billings, total, criteria), nil
}

func (s *billingService) ListReceived(userID string, criteria dto.BillingCriteria) (*dto.BillingListResponse, error) {
	billings, total, err := s.billingRepo.FindByDebtor(userID, repositories.BillingCriteria{
		Status:   criteria.Status,
		Page:     criteria.Page,
		PageSize: criteria.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return buildBillingListResponse(billings, total, criteria), nil
}

func (s *billingService) Pay(billingID, payerID string, req *dto.PayBillingRequest) (*dto.BillingResponse, error) {
	billing, err := s.billingRepo.FindByID(billingID)
	if err != nil {
		if errors.Is(err, repositories.ErrBillingNotFound) {
			return nil, appErrors.ErrBillingNotFound
		}
		return nil, err
	}
	if billing.DebtorID != payerID {
		return nil, appErrors.ErrForbidden
	}

	// The status transition is a single conditional update; only the request
	// that wins it reaches the credit and the notifications.
	now := time.Now()
	method := models.PaymentMethod(req.PaymentMethod)
	if err := s.billingRepo.MarkPaid(billingID, method, now); err != nil {
		if errors.Is(err, repositories.ErrBillingNotPending) {
			return nil, appErrors.ErrBillingNotPending
		}
		return nil, err
	}

	billing.Status = models.BillingStatusPaid
	billing.PaidAt = &now
	billing.PaymentMethod = method

	if err := s.wallets.Credit(billing.CreatorID, billing.AmountCents, "Pagamento de cobrança", billing.ID); err != nil {
		logger.Error("failed to credit creator wallet", "billing_id", billing.ID, "error", err)
	}

	if err := s.notifications.NotifyPaymentReceived(billing.CreatorID, billing); err != nil {
		logger.Error("failed to notify creator of payment", "billing_id", billing.ID, "error", err)
	}

	// First paid charge completes a pending referral, if any.
	if err := s.referrals.CompleteForPayer(payerID); err != nil {
		logger.Error("failed to complete referral", "payer_id", payerID, "error", err)
	}

	return buildBillingResponse(billing), nil
}

func (s *billingService) Cancel(billingID, requesterID string) (*dto.BillingResponse, error) {
	billing, err := s.billingRepo.FindByID(billingID)
	if err != nil {
		if errors.Is(err, repositories.ErrBillingNotFound) {
			return nil, appErrors.ErrBillingNotFound
		}
		return nil, err
	}
	if billing.CreatorID != requesterID {
		return nil, appErrors.ErrForbidden
	}

	if err := s.billingRepo.MarkCancelled(billingID); err != nil {
		if errors.Is(err, repositories.ErrBillingNotPending) {
			return nil, appErrors.ErrBillingNotPending
		}
		return nil, err
	}

	billing.Status = models.BillingStatusCancelled
	return buildBillingResponse(billing), nil
}

func (s *billingService) findForParty(billingID, requesterID string) (*models.Billing, error) {
	billing, err := s.billingRepo.FindByID(billingID)
	if err != nil {
		if errors.Is(err, repositories.ErrBillingNotFound) {
			return nil, appErrors.ErrBillingNotFound
		}
		return nil, err
	}
	if billing.CreatorID != requesterID && billing.DebtorID != requesterID {
		return nil, appErrors.ErrForbidden
	}
	return billing, nil
}

func buildBillingResponse(billing *models.Billing) *dto.BillingResponse {
	return &dto.BillingResponse{
		ID:            billing.ID,
		CreatorID:     billing.CreatorID,
		DebtorID:      billing.DebtorID,
		Description:   billing.Description,
		AmountCents:   billing.AmountCents,
		DueDate:       billing.DueDate,
		Status:        string(billing.Status),
		PaymentMethod: string(billing.PaymentMethod),
		PaidAt:        billing.PaidAt,
		CreatedAt:     billing.CreatedAt,
	}
}

func buildBillingListResponse(billings []models.Billing, total int64, criteria dto.BillingCriteria) *dto.BillingListResponse {
	return &dto.BillingListResponse{
		Billings: lo.Map(billings, func(b models.Billing, _ int) *dto.BillingResponse {
			return buildBillingResponse(&b)
		}),
		Total:    total,
		Page:     criteria.Page,
		PageSize: criteria.PageSize,
	}
}
