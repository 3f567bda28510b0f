package dto

import "time"

type WithdrawRequest struct {
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	PixKey      string `json:"pix_key" validate:"required"`
}

type WalletTransactionResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	AmountCents int64     `json:"amount_cents"`
	Description string    `json:"description"`
	BillingID   string    `json:"billing_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type WalletResponse struct {
	ID           string                       `json:"id"`
	UserID       string                       `json:"user_id"`
	BalanceCents int64                        `json:"balance_cents"`
	Transactions []*WalletTransactionResponse `json:"transactions,omitempty"`
}
