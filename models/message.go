package models

import (
	"time"
)

// Message is a single append-only entry in a conversation
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"not null;index" json:"conversation_id"` // foreign key to chat_conversations
	Content        string    `gorm:"type:text;not null" json:"content"`
	IsUserMessage  bool      `gorm:"not null" json:"is_user_message"`
	FileURL        *string   `json:"file_url,omitempty"` // nullable, set for shared files
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "chat_messages"
}
