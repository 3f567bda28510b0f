package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cobfacil_backend/internal/models"
	"cobfacil_backend/internal/repositories"
	"cobfacil_backend/internal/services"
	"cobfacil_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBillingRepo struct {
	mu         sync.Mutex
	candidates []models.Billing
	findErr    error
	markedIDs  []string
	markErr    error
	// paid holds ids whose status changed after the candidate query; they
	// must survive the sweep untouched.
	paid map[string]bool
}

func (r *stubBillingRepo) Create(*models.Billing) error { return nil }
func (r *stubBillingRepo) FindByID(string) (*models.Billing, error) {
	return nil, repositories.ErrBillingNotFound
}
func (r *stubBillingRepo) MarkPaid(string, models.PaymentMethod, time.Time) error { return nil }
func (r *stubBillingRepo) MarkCancelled(string) error                             { return nil }
func (r *stubBillingRepo) FindByCreator(string, repositories.BillingCriteria) ([]models.Billing, int64, error) {
	return nil, 0, nil
}
func (r *stubBillingRepo) FindByDebtor(string, repositories.BillingCriteria) ([]models.Billing, int64, error) {
	return nil, 0, nil
}

func (r *stubBillingRepo) FindOverdueCandidates(time.Time) ([]models.Billing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.candidates, nil
}

func (r *stubBillingRepo) MarkOverdue(ids []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		return nil, r.markErr
	}
	var flipped []string
	for _, id := range ids {
		if !r.paid[id] {
			flipped = append(flipped, id)
		}
	}
	r.markedIDs = append(r.markedIDs, flipped...)
	return flipped, nil
}

// stubNotifier records overdue notifications and can fail per user.
type stubNotifier struct {
	mu       sync.Mutex
	notified []string
	failFor  map[string]error
}

func (n *stubNotifier) NotifyChargeOverdue(userID string, billing *models.Billing) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.failFor[userID]; err != nil {
		return err
	}
	n.notified = append(n.notified, userID)
	return nil
}

func (n *stubNotifier) Notify(string, *dto.NotificationDraft) (*dto.NotificationResponse, error) {
	return nil, nil
}
func (n *stubNotifier) NotifyMany([]string, *dto.NotificationDraft) ([]*dto.NotificationResponse, error) {
	return nil, nil
}
func (n *stubNotifier) GetUserNotifications(string, dto.NotificationCriteria) (*dto.NotificationListResponse, error) {
	return nil, nil
}
func (n *stubNotifier) MarkAsRead(string, string) error                       { return nil }
func (n *stubNotifier) MarkAllAsRead(string) error                            { return nil }
func (n *stubNotifier) GetUnreadCount(string) (int64, error)                  { return 0, nil }
func (n *stubNotifier) NotifyChargeCreated(string, *models.Billing) error     { return nil }
func (n *stubNotifier) NotifyPaymentReceived(string, *models.Billing) error   { return nil }
func (n *stubNotifier) NotifyReferralBonus(string, int64) error               { return nil }

var _ services.NotificationService = (*stubNotifier)(nil)

func overdueBilling(id, debtorID string) models.Billing {
	b := models.Billing{
		DebtorID: debtorID,
		Status:   models.BillingStatusPending,
		DueDate:  time.Now().Add(-24 * time.Hour),
	}
	b.ID = id
	return b
}

func TestSweepMarksAndNotifies(t *testing.T) {
	repo := &stubBillingRepo{candidates: []models.Billing{
		overdueBilling("b-1", "debtor-1"),
		overdueBilling("b-2", "debtor-2"),
	}}
	notifier := &stubNotifier{}
	worker := NewOverdueWorker(repo, notifier, time.Hour)

	worker.sweep()

	assert.Equal(t, []string{"b-1", "b-2"}, repo.markedIDs)
	assert.Equal(t, []string{"debtor-1", "debtor-2"}, notifier.notified)
}

func TestSweepNotifyFailureDoesNotStopOthers(t *testing.T) {
	repo := &stubBillingRepo{candidates: []models.Billing{
		overdueBilling("b-1", "debtor-1"),
		overdueBilling("b-2", "debtor-2"),
	}}
	notifier := &stubNotifier{failFor: map[string]error{"debtor-1": errors.New("smtp down")}}
	worker := NewOverdueWorker(repo, notifier, time.Hour)

	worker.sweep()

	assert.Equal(t, []string{"b-1", "b-2"}, repo.markedIDs)
	assert.Equal(t, []string{"debtor-2"}, notifier.notified)
}

func TestSweepSkipsBillingPaidMidSweep(t *testing.T) {
	repo := &stubBillingRepo{
		candidates: []models.Billing{
			overdueBilling("b-1", "debtor-1"),
			overdueBilling("b-2", "debtor-2"),
		},
		paid: map[string]bool{"b-1": true},
	}
	notifier := &stubNotifier{}
	worker := NewOverdueWorker(repo, notifier, time.Hour)

	worker.sweep()

	assert.Equal(t, []string{"b-2"}, repo.markedIDs)
	assert.Equal(t, []string{"debtor-2"}, notifier.notified,
		"a billing paid between the candidate query and the flip must not be reported overdue")
}

func TestSweepMarkFailureSkipsNotifications(t *testing.T) {
	repo := &stubBillingRepo{
		candidates: []models.Billing{overdueBilling("b-1", "debtor-1")},
		markErr:    errors.New("db down"),
	}
	notifier := &stubNotifier{}
	worker := NewOverdueWorker(repo, notifier, time.Hour)

	worker.sweep()

	assert.Empty(t, notifier.notified, "debtors must not be notified when the status flip failed")
}

func TestSweepNoCandidatesIsQuiet(t *testing.T) {
	repo := &stubBillingRepo{}
	notifier := &stubNotifier{}
	worker := NewOverdueWorker(repo, notifier, time.Hour)

	worker.sweep()

	assert.Empty(t, repo.markedIDs)
	assert.Empty(t, notifier.notified)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	repo := &stubBillingRepo{}
	notifier := &stubNotifier{}
	worker := NewOverdueWorker(repo, notifier, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "worker did not stop after cancel")
	}
}
