package models

type WalletTransactionType string

const (
	WalletTransactionCredit   WalletTransactionType = "credit"
	WalletTransactionWithdraw WalletTransactionType = "withdraw"
)

type Wallet struct {
	BaseModel
	UserID       string `gorm:"not null;uniqueIndex" json:"user_id"`
	BalanceCents int64  `gorm:"default:0" json:"balance_cents"`

	Transactions []WalletTransaction `gorm:"foreignKey:WalletID" json:"transactions,omitempty"`
}

type WalletTransaction struct {
	BaseModel
	WalletID    string                `gorm:"not null;index" json:"wallet_id"`
	Type        WalletTransactionType `gorm:"type:varchar(20);not null" json:"type"`
	AmountCents int64                 `gorm:"not null" json:"amount_cents"`
	Description string                `json:"description"`
	BillingID   string                `gorm:"index" json:"billing_id,omitempty"`
}
