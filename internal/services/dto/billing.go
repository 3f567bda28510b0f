package dto

import "time"

type CreateBillingRequest struct {
	DebtorEmail   string    `json:"debtor_email" validate:"required,email"`
	Description   string    `json:"description" validate:"required,max=500"`
	AmountCents   int64     `json:"amount_cents" validate:"required,gt=0"`
	DueDate       time.Time `json:"due_date" validate:"required"`
	PaymentMethod string    `json:"payment_method" validate:"omitempty,oneof=pix boleto card ted"`
}

type PayBillingRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=pix boleto card ted"`
}

type BillingResponse struct {
	ID            string     `json:"id"`
	CreatorID     string     `json:"creator_id"`
	DebtorID      string     `json:"debtor_id"`
	Description   string     `json:"description"`
	AmountCents   int64      `json:"amount_cents"`
	DueDate       time.Time  `json:"due_date"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type BillingListResponse struct {
	Billings []*BillingResponse `json:"billings"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

type BillingCriteria struct {
	Status   string
	Page     int
	PageSize int
}
