package dto

import "time"

type ReferralResponse struct {
	ID         string    `json:"id"`
	ReferredID string    `json:"referred_id"`
	BonusCents int64     `json:"bonus_cents"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReferralListResponse struct {
	Referrals []*ReferralResponse `json:"referrals"`
	Total     int                 `json:"total"`
}
