package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"cobfacil_backend/internal/appErrors"
	"cobfacil_backend/internal/logger"
	"cobfacil_backend/internal/models"
	"cobfacil_backend/internal/repositories"
	"cobfacil_backend/internal/services/dto"

	"gorm.io/datatypes"
)

type NotificationService interface {
	// Notify durably writes the notification, then best-effort pushes it to
	// the recipient's live socket. The stored row is returned regardless of
	// push outcome.
	Notify(userID string, draft *dto.NotificationDraft) (*dto.NotificationResponse, error)

	// NotifyMany fans out independently per user. One user's failure never
	// aborts the others; failures are joined into the returned error while
	// successful results are still returned.
	NotifyMany(userIDs []string, draft *dto.NotificationDraft) ([]*dto.NotificationResponse, error)

	GetUserNotifications(userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error
	GetUnreadCount(userID string) (int64, error)

	// Factory helpers for the common notification types.
	NotifyChargeCreated(userID string, billing *models.Billing) error
	NotifyPaymentReceived(userID string, billing *models.Billing) error
	NotifyChargeOverdue(userID string, billing *models.Billing) error
	NotifyReferralBonus(userID string, bonusCents int64) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	pusher           Pusher
	emails           *EmailService
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	pusher Pusher,
	emails *EmailService,
) NotificationService {
	if pusher == nil {
		pusher = NopPusher{}
	}
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		pusher:           pusher,
		emails:           emails,
	}
}

func (s *notificationService) Notify(userID string, draft *dto.NotificationDraft) (*dto.NotificationResponse, error) {
	var dataJSON datatypes.JSON
	if draft.Data != nil {
		jsonData, err := json.Marshal(draft.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal notification data: %w", err)
		}
		dataJSON = datatypes.JSON(jsonData)
	}

	notification := &models.Notification{
		UserID:  userID,
		Type:    draft.Type,
		Title:   draft.Title,
		Content: draft.Content,
		Data:    dataJSON,
		IsRead:  false,
	}

	// Phase 1: durable write. This is the source of truth.
	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		return nil, err
	}

	response := buildNotificationResponse(notification)

	// Phase 2: best-effort push. May silently no-op when the user is offline;
	// never rolled back against the stored row.
	if !s.pusher.Push(userID, dto.NewNotificationFrame(response)) {
		logger.Debug("notification not pushed, user offline", "user_id", userID, "type", draft.Type)
	}

	return response, nil
}

func (s *notificationService) NotifyMany(userIDs []string, draft *dto.NotificationDraft) ([]*dto.NotificationResponse, error) {
	var (
		responses []*dto.NotificationResponse
		errs      []error
	)

	for _, userID := range userIDs {
		response, err := s.Notify(userID, draft)
		if err != nil {
			logger.Error("failed to notify user", "user_id", userID, "type", draft.Type, "error", err)
			errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
			continue
		}
		responses = append(responses, response)
	}

	return responses, errors.Join(errs...)
}

func (s *notificationService) GetUserNotifications(userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error) {
	repoCriteria := repositories.NotificationCriteria{
		UnreadOnly: criteria.UnreadOnly,
		Type:       criteria.Type,
		Page:       criteria.Page,
		PageSize:   criteria.PageSize,
	}

	notifications, total, err := s.notificationRepo.FindUserNotifications(userID, repoCriteria)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, buildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
		TotalPages:    calculateTotalPages(total, criteria.PageSize),
	}, nil
}

func (s *notificationService) MarkAsRead(userID, notificationID string) error {
	notification, err := s.notificationRepo.FindNotificationByID(notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return appErrors.ErrForbidden
	}
	return s.notificationRepo.MarkAsRead(notificationID)
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	return s.notificationRepo.MarkAllAsRead(userID)
}

func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	return s.notificationRepo.GetUnreadCount(userID)
}

// ---------------- Factory helpers ----------------

func (s *notificationService) NotifyChargeCreated(userID string, billing *models.Billing) error {
	_, err := s.Notify(userID, &dto.NotificationDraft{
		Type:    repositories.NotificationTypeChargeCreated,
		Title:   "Nova cobrança",
		Content: fmt.Sprintf("Você recebeu uma cobrança de %s com vencimento em %s", formatAmount(billing.AmountCents), billing.DueDate.Format("02/01/2006")),
		Data:    map[string]interface{}{"billing_id": billing.ID},
	})
	return err
}

func (s *notificationService) NotifyPaymentReceived(userID string, billing *models.Billing) error {
	_, err := s.Notify(userID, &dto.NotificationDraft{
		Type:    repositories.NotificationTypePaymentReceived,
		Title:   "Pagamento recebido",
		Content: fmt.Sprintf("A cobrança de %s foi paga", formatAmount(billing.AmountCents)),
		Data:    map[string]interface{}{"billing_id": billing.ID},
	})
	return err
}

// NotifyChargeOverdue also fires a reminder email. The email runs in its own
// failure domain: an SMTP error is logged and never surfaces to the caller.
func (s *notificationService) NotifyChargeOverdue(userID string, billing *models.Billing) error {
	content := fmt.Sprintf("A cobrança de %s venceu em %s", formatAmount(billing.AmountCents), billing.DueDate.Format("02/01/2006"))

	_, err := s.Notify(userID, &dto.NotificationDraft{
		Type:    repositories.NotificationTypeChargeOverdue,
		Title:   "Cobrança vencida",
		Content: content,
		Data:    map[string]interface{}{"billing_id": billing.ID},
	})
	if err != nil {
		return err
	}

	if s.emails != nil {
		user, uerr := s.userRepo.FindByID(userID)
		if uerr != nil {
			logger.Warn("overdue email skipped, user lookup failed", "user_id", userID, "error", uerr)
			return nil
		}
		if merr := s.emails.SendChargeOverdueEmail(user.Email, content, formatAmount(billing.AmountCents), billing.DueDate.Format("02/01/2006")); merr != nil {
			logger.Warn("failed to send overdue email", "user_id", userID, "error", merr)
		}
	}

	return nil
}

func (s *notificationService) NotifyReferralBonus(userID string, bonusCents int64) error {
	_, err := s.Notify(userID, &dto.NotificationDraft{
		Type:    repositories.NotificationTypeReferral,
		Title:   "Bônus de indicação",
		Content: fmt.Sprintf("Você ganhou %s de bônus por uma indicação", formatAmount(bonusCents)),
	})
	return err
}

// ---------------- Helpers ----------------

func buildNotificationResponse(notification *models.Notification) *dto.NotificationResponse {
	response := &dto.NotificationResponse{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Type:      notification.Type,
		Title:     notification.Title,
		Content:   notification.Content,
		IsRead:    notification.IsRead,
		ReadAt:    notification.ReadAt,
		CreatedAt: notification.CreatedAt,
	}

	if len(notification.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(notification.Data, &data); err == nil {
			response.Data = data
		}
	}

	return response
}

func formatAmount(cents int64) string {
	return fmt.Sprintf("R$ %d,%02d", cents/100, cents%100)
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
