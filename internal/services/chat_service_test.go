package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"cobfacil_backend/internal/appErrors"
	"cobfacil_backend/internal/models"
	"cobfacil_backend/internal/repositories"
	"cobfacil_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatRepo struct {
	messages  []*models.ChatMessage
	createErr error
	readCalls [][2]string
}

func (r *stubChatRepo) CreateMessage(m *models.ChatMessage) error {
	if r.createErr != nil {
		return r.createErr
	}
	m.ID = fmt.Sprintf("msg-%d", len(r.messages)+1)
	m.CreatedAt = time.Now()
	r.messages = append(r.messages, m)
	return nil
}

func (r *stubChatRepo) FindMessageByID(id string) (*models.ChatMessage, error) {
	for _, m := range r.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, repositories.ErrMessageNotFound
}

func (r *stubChatRepo) FindBillingMessages(billingID string, criteria repositories.MessageCriteria) ([]models.ChatMessage, int64, error) {
	var out []models.ChatMessage
	for _, m := range r.messages {
		if m.BillingID == billingID {
			out = append(out, *m)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubChatRepo) MarkMessagesAsRead(billingID, readerID string) error {
	r.readCalls = append(r.readCalls, [2]string{billingID, readerID})
	return nil
}

func (r *stubChatRepo) GetUnreadCount(userID string) (int64, error) {
	var count int64
	for _, m := range r.messages {
		if m.ReceiverID == userID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

type stubBillingRepo struct {
	mu        sync.Mutex
	billings  map[string]*models.Billing
	createErr error
}

func (r *stubBillingRepo) Create(b *models.Billing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	b.ID = fmt.Sprintf("billing-%d", len(r.billings)+1)
	b.CreatedAt = time.Now()
	r.billings[b.ID] = b
	return nil
}

// FindByID hands out a copy, the way a row read does.
func (r *stubBillingRepo) FindByID(id string) (*models.Billing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.billings[id]; ok {
		snapshot := *b
		return &snapshot, nil
	}
	return nil, repositories.ErrBillingNotFound
}

func (r *stubBillingRepo) MarkPaid(id string, method models.PaymentMethod, paidAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.billings[id]
	if !ok || (b.Status != models.BillingStatusPending && b.Status != models.BillingStatusOverdue) {
		return repositories.ErrBillingNotPending
	}
	b.Status = models.BillingStatusPaid
	b.PaidAt = &paidAt
	b.PaymentMethod = method
	return nil
}

func (r *stubBillingRepo) MarkCancelled(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.billings[id]
	if !ok || (b.Status != models.BillingStatusPending && b.Status != models.BillingStatusOverdue) {
		return repositories.ErrBillingNotPending
	}
	b.Status = models.BillingStatusCancelled
	return nil
}
func (r *stubBillingRepo) FindByCreator(string, repositories.BillingCriteria) ([]models.Billing, int64, error) {
	return nil, 0, nil
}
func (r *stubBillingRepo) FindByDebtor(string, repositories.BillingCriteria) ([]models.Billing, int64, error) {
	return nil, 0, nil
}
func (r *stubBillingRepo) FindOverdueCandidates(time.Time) ([]models.Billing, error) {
	return nil, nil
}
func (r *stubBillingRepo) MarkOverdue([]string) ([]string, error) { return nil, nil }

func newChatFixture() (*stubChatRepo, *stubBillingRepo, *stubPusher) {
	billing := &models.Billing{
		CreatorID: "creator",
		DebtorID:  "debtor",
	}
	billing.ID = "billing-1"
	return &stubChatRepo{},
		&stubBillingRepo{billings: map[string]*models.Billing{"billing-1": billing}},
		&stubPusher{online: map[string]bool{}}
}

func TestRelayPersistsThenPushes(t *testing.T) {
	chatRepo, billingRepo, pusher := newChatFixture()
	pusher.online["debtor"] = true
	svc := NewChatService(chatRepo, billingRepo, pusher)

	response, err := svc.Relay("billing-1", "creator", "debtor", "oi, tudo bem?")
	require.NoError(t, err)

	require.Len(t, chatRepo.messages, 1)
	require.Len(t, pusher.pushed, 1)
	assert.Equal(t, "debtor", pusher.pushed[0].userID)

	frame, ok := pusher.pushed[0].payload.(*dto.ChatMessageFrame)
	require.True(t, ok)
	assert.Equal(t, dto.FrameTypeChatMessage, frame.Type)
	assert.Equal(t, response.ID, frame.Message.ID)
	assert.Equal(t, "oi, tudo bem?", frame.Message.Content)
}

func TestRelayReceiverOffline(t *testing.T) {
	chatRepo, billingRepo, pusher := newChatFixture()
	svc := NewChatService(chatRepo, billingRepo, pusher)

	// The push no-ops but the message is stored and returned.
	response, err := svc.Relay("billing-1", "creator", "debtor", "você está aí?")
	require.NoError(t, err)
	assert.NotEmpty(t, response.ID)
	assert.Len(t, chatRepo.messages, 1)
}

func TestRelayEmptyContentRejected(t *testing.T) {
	chatRepo, billingRepo, pusher := newChatFixture()
	svc := NewChatService(chatRepo, billingRepo, pusher)

	_, err := svc.Relay("billing-1", "creator", "debtor", "")
	require.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, chatRepo.messages)
	assert.Empty(t, pusher.pushed)
}

func TestRelayWriteFailureSkipsPush(t *testing.T) {
	chatRepo, billingRepo, pusher := newChatFixture()
	chatRepo.createErr = errors.New("db down")
	pusher.online["debtor"] = true
	svc := NewChatService(chatRepo, billingRepo, pusher)

	_, err := svc.Relay("billing-1", "creator", "debtor", "não vai gravar")
	require.Error(t, err)
	assert.Empty(t, pusher.pushed, "push must not happen when the write failed")
}

func TestGetBillingMessagesRequiresParticipant(t *testing.T) {
	chatRepo, billingRepo, pusher := newChatFixture()
	svc := NewChatService(chatRepo, billingRepo, pusher)

	_, err := svc.GetBillingMessages("billing-1", "stranger", dto.MessageCriteria{Page: 1, PageSize: 20})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.GetBillingMessages("billing-1", "creator", dto.MessageCriteria{Page: 1, PageSize: 20})
	assert.NoError(t, err)

	_, err = svc.GetBillingMessages("billing-1", "debtor", dto.MessageCriteria{Page: 1, PageSize: 20})
	assert.NoError(t, err)
}

func TestMarkMessagesReadDelegates(t *testing.T) {
	chatRepo, billingRepo, pusher := newChatFixture()
	svc := NewChatService(chatRepo, billingRepo, pusher)

	require.NoError(t, svc.MarkMessagesRead("billing-1", "debtor"))
	assert.Equal(t, [][2]string{{"billing-1", "debtor"}}, chatRepo.readCalls)
}
