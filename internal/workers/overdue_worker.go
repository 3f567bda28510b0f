package workers

import (
	"context"
	"time"

	"cobfacil_backend/internal/logger"
	"cobfacil_backend/internal/models"
	"cobfacil_backend/internal/repositories"
	"cobfacil_backend/internal/services"

	"github.com/samber/lo"
)

// OverdueWorker periodically flips pending billings past their due date to
// overdue and notifies the debtor.
type OverdueWorker struct {
	billingRepo   repositories.BillingRepository
	notifications services.NotificationService
	interval      time.Duration
}

func NewOverdueWorker(
	billingRepo repositories.BillingRepository,
	notifications services.NotificationService,
	interval time.Duration,
) *OverdueWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &OverdueWorker{
		billingRepo:   billingRepo,
		notifications: notifications,
		interval:      interval,
	}
}

// Run blocks until ctx is cancelled. One sweep is executed immediately on
// start so a restart does not delay overdue detection by a full interval.
func (w *OverdueWorker) Run(ctx context.Context) {
	logger.Info("overdue worker started", "interval", w.interval)

	w.sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("overdue worker stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *OverdueWorker) sweep() {
	candidates, err := w.billingRepo.FindOverdueCandidates(time.Now())
	if err != nil {
		logger.WorkerLog("overdue", "find candidates", err)
		return
	}
	if len(candidates) == 0 {
		return
	}

	ids := lo.Map(candidates, func(b models.Billing, _ int) string { return b.ID })

	flipped, err := w.billingRepo.MarkOverdue(ids)
	if err != nil {
		logger.WorkerLog("overdue", "mark overdue", err)
		return
	}
	if len(flipped) == 0 {
		return
	}

	logger.Info("billings marked overdue", "count", len(flipped))

	// Only the rows the update actually flipped are notified; a billing paid
	// mid-sweep keeps its status and its debtor hears nothing. Notifications
	// are best effort, one failure must not stop the rest.
	byID := lo.KeyBy(candidates, func(b models.Billing) string { return b.ID })
	for _, id := range flipped {
		billing := byID[id]
		billing.Status = models.BillingStatusOverdue
		if err := w.notifications.NotifyChargeOverdue(billing.DebtorID, &billing); err != nil {
			logger.WorkerLog("overdue", "notify debtor", err)
		}
	}
}
