package repositories

import (
	"errors"
	"time"

	"cobfacil_backend/internal/models"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrBillingNotFound   = errors.New("billing not found")
	ErrBillingNotPending = errors.New("billing is not pending")
)

type BillingRepository interface {
	Create(billing *models.Billing) error
	FindByID(id string) (*models.Billing, error)
	FindByCreator(creatorID string, criteria BillingCriteria) ([]models.Billing, int64, error)
	FindByDebtor(debtorID string, criteria BillingCriteria) ([]models.Billing, int64, error)
	// MarkPaid flips a pending or overdue billing to paid in one conditional
	// update. Returns ErrBillingNotPending when the billing is in any other
	// state, so concurrent payment attempts cannot both win.
	MarkPaid(id string, method models.PaymentMethod, paidAt time.Time) error
	// MarkCancelled flips a pending or overdue billing to cancelled under the
	// same conditional-update contract as MarkPaid.
	MarkCancelled(id string) error
	FindOverdueCandidates(now time.Time) ([]models.Billing, error)
	// MarkOverdue flips the given billings to overdue, skipping any that are
	// no longer pending, and returns the ids actually flipped.
	MarkOverdue(ids []string) ([]string, error)
}

type BillingCriteria struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type BillingRepositoryImpl struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &BillingRepositoryImpl{db: db}
}

func (r *BillingRepositoryImpl) Create(billing *models.Billing) error {
	return r.db.Create(billing).Error
}

func (r *BillingRepositoryImpl) FindByID(id string) (*models.Billing, error) {
	var billing models.Billing
	err := r.db.First(&billing, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillingNotFound
		}
		return nil, err
	}
	return &billing, nil
}

func (r *BillingRepositoryImpl) FindByCreator(creatorID string, criteria BillingCriteria) ([]models.Billing, int64, error) {
	return r.findByParty("creator_id = ?", creatorID, criteria)
}

func (r *BillingRepositoryImpl) FindByDebtor(debtorID string, criteria BillingCriteria) ([]models.Billing, int64, error) {
	return r.findByParty("debtor_id = ?", debtorID, criteria)
}

func (r *BillingRepositoryImpl) findByParty(cond, partyID string, criteria BillingCriteria) ([]models.Billing, int64, error) {
	var billings []models.Billing
	query := r.db.Where(cond, partyID)

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}

	var total int64
	if err := query.Model(&models.Billing{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Order("due_date ASC").
		Limit(limit).Offset(offset).
		Find(&billings).Error

	return billings, total, err
}

var payableStatuses = []models.BillingStatus{
	models.BillingStatusPending,
	models.BillingStatusOverdue,
}

func (r *BillingRepositoryImpl) MarkPaid(id string, method models.PaymentMethod, paidAt time.Time) error {
	result := r.db.Model(&models.Billing{}).
		Where("id = ? AND status IN ?", id, payableStatuses).
		Updates(map[string]interface{}{
			"status":         models.BillingStatusPaid,
			"paid_at":        paidAt,
			"payment_method": method,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBillingNotPending
	}
	return nil
}

func (r *BillingRepositoryImpl) MarkCancelled(id string) error {
	result := r.db.Model(&models.Billing{}).
		Where("id = ? AND status IN ?", id, payableStatuses).
		Update("status", models.BillingStatusCancelled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBillingNotPending
	}
	return nil
}

// FindOverdueCandidates returns pending billings whose due date has passed.
func (r *BillingRepositoryImpl) FindOverdueCandidates(now time.Time) ([]models.Billing, error) {
	var billings []models.Billing
	err := r.db.
		Where("status = ? AND due_date < ?", models.BillingStatusPending, now).
		Find(&billings).Error
	return billings, err
}

func (r *BillingRepositoryImpl) MarkOverdue(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	// A billing paid between the candidate query and this update keeps its
	// status; only still-pending rows flip.
	var flipped []models.Billing
	err := r.db.Model(&flipped).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where("id IN ? AND status = ?", ids, models.BillingStatusPending).
		Update("status", models.BillingStatusOverdue).Error
	if err != nil {
		return nil, err
	}

	return lo.Map(flipped, func(b models.Billing, _ int) string { return b.ID }), nil
}
