// Package store persists conversations, messages, predefined questions, customer
// queries and orders behind a single interface.
package store

import (
	"context"
	"errors"

	"github.com/kendall-kelly/ganges-support-api/models"
)

// ErrNotFound is returned when a row does not exist or is not owned by the requesting user.
var ErrNotFound = errors.New("record not found")

// Store defines the persistence operations the chat service relies on.
type Store interface {
	// conversations
	CreateConversation(ctx context.Context, conversation *models.Conversation) error
	GetConversation(ctx context.Context, userID string, id uint) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]models.Conversation, error)
	FindEmptyConversation(ctx context.Context, userID string) (*models.Conversation, error)
	SummarizeConversations(ctx context.Context, ids []uint) (map[uint]ConversationStats, error)

	// messages
	AppendMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, conversationID uint) ([]models.Message, error)
	LatestUserMessage(ctx context.Context, conversationID uint) (*models.Message, error)

	// predefined questions
	ListActiveQuestions(ctx context.Context) ([]models.PredefinedQuestion, error)
	ListAllQuestions(ctx context.Context) ([]models.PredefinedQuestion, error)
	GetQuestion(ctx context.Context, id uint) (*models.PredefinedQuestion, error)
	CreateQuestion(ctx context.Context, question *models.PredefinedQuestion) error
	UpdateQuestion(ctx context.Context, question *models.PredefinedQuestion) error
	DeleteQuestion(ctx context.Context, id uint) error

	// customer queries
	CreateCustomerQuery(ctx context.Context, query *models.CustomerQuery) error
	ListCustomerQueries(ctx context.Context, userID string) ([]models.CustomerQuery, error)

	// orders
	ListOrders(ctx context.Context, userID string) ([]models.ScooterOrder, error)
	GetOrder(ctx context.Context, userID string, id uint) (*models.ScooterOrder, error)
}

// ConversationStats holds the message figures of one conversation.
type ConversationStats struct {
	MessageCount int64
	LastMessage  string
}
