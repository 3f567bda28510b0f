package models

// ChatMessage is one message in the conversation attached to a billing.
// Immutable after creation except for the read flag.
type ChatMessage struct {
	BaseModel
	BillingID  string `gorm:"not null;index" json:"billing_id"`
	SenderID   string `gorm:"not null;index" json:"sender_id"`
	ReceiverID string `gorm:"not null;index" json:"receiver_id"`
	Content    string `gorm:"not null" json:"content"`
	IsRead     bool   `gorm:"default:false" json:"is_read"`
}
