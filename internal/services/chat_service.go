package services

import (
	"errors"

	"cobfacil_backend/internal/appErrors"
	"cobfacil_backend/internal/logger"
	"cobfacil_backend/internal/models"
	"cobfacil_backend/internal/repositories"
	"cobfacil_backend/internal/services/dto"

	"github.com/samber/lo"
)

var ErrEmptyMessage = errors.New("message content is empty")

type ChatService interface {
	// Relay durably writes the message, then best-effort pushes it to the
	// receiver's live socket. The stored message is returned regardless of
	// push outcome.
	Relay(billingID, senderID, receiverID, content string) (*dto.MessageResponse, error)

	GetBillingMessages(billingID, requesterID string, criteria dto.MessageCriteria) (*dto.MessageListResponse, error)
	MarkMessagesRead(billingID, readerID string) error
	GetUnreadCount(userID string) (int64, error)
}

type chatService struct {
	chatRepo    repositories.ChatRepository
	billingRepo repositories.BillingRepository
	pusher      Pusher
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	billingRepo repositories.BillingRepository,
	pusher Pusher,
) ChatService {
	if pusher == nil {
		pusher = NopPusher{}
	}
	return &chatService{
		chatRepo:    chatRepo,
		billingRepo: billingRepo,
		pusher:      pusher,
	}
}

func (s *chatService) Relay(billingID, senderID, receiverID, content string) (*dto.MessageResponse, error) {
	if content == "" {
		return nil, ErrEmptyMessage
	}

	message := &models.ChatMessage{
		BillingID:  billingID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		IsRead:     false,
	}

	// Phase 1: durable write.
	if err := s.chatRepo.CreateMessage(message); err != nil {
		return nil, err
	}

	response := buildMessageResponse(message)

	// Phase 2: best-effort push to the addressed recipient only.
	if !s.pusher.Push(receiverID, dto.NewChatMessageFrame(response)) {
		logger.Debug("chat message not pushed, receiver offline",
			"billing_id", billingID, "receiver_id", receiverID)
	}

	return response, nil
}

func (s *chatService) GetBillingMessages(billingID, requesterID string, criteria dto.MessageCriteria) (*dto.MessageListResponse, error) {
	billing, err := s.billingRepo.FindByID(billingID)
	if err != nil {
		return nil, err
	}
	if billing.CreatorID != requesterID && billing.DebtorID != requesterID {
		return nil, appErrors.ErrForbidden
	}

	messages, total, err := s.chatRepo.FindBillingMessages(billingID, repositories.MessageCriteria{
		Page:     criteria.Page,
		PageSize: criteria.PageSize,
	})
	if err != nil {
		return nil, err
	}

	return &dto.MessageListResponse{
		Messages: lo.Map(messages, func(m models.ChatMessage, _ int) *dto.MessageResponse {
			return buildMessageResponse(&m)
		}),
		Total:    total,
		Page:     criteria.Page,
		PageSize: criteria.PageSize,
	}, nil
}

func (s *chatService) MarkMessagesRead(billingID, readerID string) error {
	return s.chatRepo.MarkMessagesAsRead(billingID, readerID)
}

func (s *chatService) GetUnreadCount(userID string) (int64, error) {
	return s.chatRepo.GetUnreadCount(userID)
}

func buildMessageResponse(message *models.ChatMessage) *dto.MessageResponse {
	return &dto.MessageResponse{
		ID:         message.ID,
		BillingID:  message.BillingID,
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		Content:    message.Content,
		IsRead:     message.IsRead,
		CreatedAt:  message.CreatedAt,
	}
}
