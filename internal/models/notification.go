package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is the durable record of a user-facing event. Rows are written
// before any realtime push and never deleted, so the table doubles as an
// audit trail.
type Notification struct {
	BaseModel
	UserID  string         `gorm:"not null;index" json:"user_id"`
	Type    string         `gorm:"not null" json:"type"` // charge_created, payment_received, ...
	Title   string         `gorm:"not null" json:"title"`
	Content string         `json:"content"`
	Data    datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"` // {"billing_id": "..."}
	IsRead  bool           `gorm:"default:false" json:"is_read"`
	ReadAt  *time.Time     `json:"read_at,omitempty"`
}
