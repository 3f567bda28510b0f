package models

import "time"

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

type User struct {
	BaseModel
	Name          string     `gorm:"not null" json:"name"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string     `gorm:"not null" json:"-"`
	Role          UserRole   `gorm:"type:varchar(20);default:'user'" json:"role"`
	Document      string     `gorm:"index" json:"document"` // CPF/CNPJ
	Phone         string     `json:"phone"`
	PixKey        string     `json:"pix_key"`
	ReferralCode  string     `gorm:"uniqueIndex" json:"referral_code"`
	ResetToken    string     `json:"-"`
	ResetTokenExp *time.Time `json:"-"`

	// Relations
	Wallet        *Wallet        `gorm:"foreignKey:UserID" json:"wallet,omitempty"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index" json:"user_id"`
	Token     string    `gorm:"not null;uniqueIndex" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
