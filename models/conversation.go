package models

import (
	"time"
)

// DefaultConversationTitle is the placeholder title given to new conversations
const DefaultConversationTitle = "New Chat"

// Conversation is a timestamped container of an ordered message log belonging to one user
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"` // refreshed on every appended message
}

// TableName specifies the table name for the Conversation model
func (Conversation) TableName() string {
	return "chat_conversations"
}

// ConversationSummary is a conversation with the figures shown on the chat history screen
type ConversationSummary struct {
	Conversation
	MessageCount int64  `json:"message_count"`
	LastMessage  string `json:"last_message"`
}
