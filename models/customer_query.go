package models

import (
	"time"
)

// Customer query statuses
const (
	QueryStatusPending   = "pending"
	QueryStatusResponded = "responded"
	QueryStatusResolved  = "resolved"
)

// CustomerQuery records a reply the user flagged as unhelpful, escalated to human support
type CustomerQuery struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         string     `gorm:"not null;index" json:"user_id"`
	ConversationID uint       `gorm:"not null;index" json:"conversation_id"`
	QueryText      string     `gorm:"type:text;not null" json:"query_text"`
	Status         string     `gorm:"not null;default:'pending'" json:"status"` // pending, responded, resolved
	AdminResponse  *string    `json:"admin_response,omitempty"`                 // nullable
	ResponseDate   *time.Time `json:"response_date,omitempty"`                  // nullable
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the CustomerQuery model
func (CustomerQuery) TableName() string {
	return "customer_queries"
}
