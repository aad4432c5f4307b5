package models

import (
	"time"
)

// PredefinedQuestion is an administrator-curated question/answer pair used for automated replies
type PredefinedQuestion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	Category  *string   `gorm:"index" json:"category"` // nullable
	IsActive  bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the PredefinedQuestion model
func (PredefinedQuestion) TableName() string {
	return "predefined_questions"
}
