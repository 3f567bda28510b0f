package repositories

import (
	"errors"

	"cobfacil_backend/internal/models"

	"gorm.io/gorm"
)

var ErrReferralNotFound = errors.New("referral not found")

type ReferralRepository interface {
	Create(referral *models.Referral) error
	FindByReferred(referredID string) (*models.Referral, error)
	FindByReferrer(referrerID string) ([]models.Referral, error)
	Update(referral *models.Referral) error
}

type ReferralRepositoryImpl struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) ReferralRepository {
	return &ReferralRepositoryImpl{db: db}
}

func (r *ReferralRepositoryImpl) Create(referral *models.Referral) error {
	return r.db.Create(referral).Error
}

func (r *ReferralRepositoryImpl) FindByReferred(referredID string) (*models.Referral, error) {
	var referral models.Referral
	err := r.db.First(&referral, "referred_id = ?", referredID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferralNotFound
		}
		return nil, err
	}
	return &referral, nil
}

func (r *ReferralRepositoryImpl) FindByReferrer(referrerID string) ([]models.Referral, error) {
	var referrals []models.Referral
	err := r.db.Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Find(&referrals).Error
	return referrals, err
}

func (r *ReferralRepositoryImpl) Update(referral *models.Referral) error {
	return r.db.Save(referral).Error
}
