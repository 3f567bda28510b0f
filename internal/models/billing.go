package models

import "time"

type BillingStatus string

const (
	BillingStatusPending   BillingStatus = "pending"
	BillingStatusPaid      BillingStatus = "paid"
	BillingStatusOverdue   BillingStatus = "overdue"
	BillingStatusCancelled BillingStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodPix    PaymentMethod = "pix"
	PaymentMethodBoleto PaymentMethod = "boleto"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodTed    PaymentMethod = "ted"
)

// Billing is one charge issued by a creditor against a debtor.
// AmountCents avoids float money arithmetic.
type Billing struct {
	BaseModel
	CreatorID     string        `gorm:"not null;index" json:"creator_id"`
	DebtorID      string        `gorm:"not null;index" json:"debtor_id"`
	Description   string        `gorm:"not null" json:"description"`
	AmountCents   int64         `gorm:"not null" json:"amount_cents"`
	DueDate       time.Time     `gorm:"not null;index" json:"due_date"`
	Status        BillingStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20)" json:"payment_method"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`

	Creator *User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Debtor  *User `gorm:"foreignKey:DebtorID" json:"debtor,omitempty"`
}
