package repositories

import (
	"errors"

	"cobfacil_backend/internal/models"

	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

type ChatRepository interface {
	CreateMessage(message *models.ChatMessage) error
	FindMessageByID(id string) (*models.ChatMessage, error)
	FindBillingMessages(billingID string, criteria MessageCriteria) ([]models.ChatMessage, int64, error)
	MarkMessagesAsRead(billingID, readerID string) error
	GetUnreadCount(userID string) (int64, error)
}

type MessageCriteria struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

type ChatRepositoryImpl struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &ChatRepositoryImpl{db: db}
}

func (r *ChatRepositoryImpl) CreateMessage(message *models.ChatMessage) error {
	return r.db.Create(message).Error
}

func (r *ChatRepositoryImpl) FindMessageByID(id string) (*models.ChatMessage, error) {
	var message models.ChatMessage
	err := r.db.First(&message, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

func (r *ChatRepositoryImpl) FindBillingMessages(billingID string, criteria MessageCriteria) ([]models.ChatMessage, int64, error) {
	var messages []models.ChatMessage
	query := r.db.Where("billing_id = ?", billingID)

	var total int64
	if err := query.Model(&models.ChatMessage{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&messages).Error

	return messages, total, err
}

// MarkMessagesAsRead flips the read flag on every message addressed to the
// reader inside one billing conversation.
func (r *ChatRepositoryImpl) MarkMessagesAsRead(billingID, readerID string) error {
	return r.db.Model(&models.ChatMessage{}).
		Where("billing_id = ? AND receiver_id = ? AND is_read = ?", billingID, readerID, false).
		Update("is_read", true).Error
}

func (r *ChatRepositoryImpl) GetUnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.ChatMessage{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
