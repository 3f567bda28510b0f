package models

type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "pending"
	ReferralStatusCompleted ReferralStatus = "completed"
)

// Referral tracks a signup made with another user's code. The bonus is
// credited when the referred user pays their first charge.
type Referral struct {
	BaseModel
	ReferrerID string         `gorm:"not null;index" json:"referrer_id"`
	ReferredID string         `gorm:"not null;uniqueIndex" json:"referred_id"`
	BonusCents int64          `gorm:"not null" json:"bonus_cents"`
	Status     ReferralStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
}
