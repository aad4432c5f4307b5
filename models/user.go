package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a customer profile created after the first successful OTP login
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Auth0ID     string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	PhoneNumber string         `gorm:"uniqueIndex;not null" json:"phone_number"`
	Name        string         `json:"name"`
	Role        string         `gorm:"not null;default:'customer'" json:"role"` // "customer" or "admin"
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
