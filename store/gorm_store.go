package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/kendall-kelly/ganges-support-api/models"
	"gorm.io/gorm"
)

// GormStore implements Store using GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB returns the underlying database handle.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

// AllModels lists every model the store persists, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.PredefinedQuestion{},
		&models.ScooterOrder{},
		&models.Conversation{},
		&models.Message{},
		&models.CustomerQuery{},
	}
}

// Migrate creates or updates the tables for all models.
func (s *GormStore) Migrate() error {
	if err := s.db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// CreateConversation inserts a new conversation row.
func (s *GormStore) CreateConversation(ctx context.Context, conversation *models.Conversation) error {
	return s.db.WithContext(ctx).Create(conversation).Error
}

// GetConversation returns the conversation only when it belongs to userID.
func (s *GormStore) GetConversation(ctx context.Context, userID string, id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&conversation).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &conversation, nil
}

// ListConversations returns the user's conversations, most recently updated first.
func (s *GormStore) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

// FindEmptyConversation returns the user's most recent conversation without messages.
func (s *GormStore) FindEmptyConversation(ctx context.Context, userID string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("NOT EXISTS (SELECT 1 FROM chat_messages WHERE chat_messages.conversation_id = chat_conversations.id)").
		Order("created_at DESC").
		Order("id DESC").
		First(&conversation).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &conversation, nil
}

// SummarizeConversations counts messages and finds the latest message of each conversation.
func (s *GormStore) SummarizeConversations(ctx context.Context, ids []uint) (map[uint]ConversationStats, error) {
	stats := make(map[uint]ConversationStats, len(ids))
	if len(ids) == 0 {
		return stats, nil
	}

	var counts []struct {
		ConversationID uint
		Count          int64
	}
	if err := s.db.WithContext(ctx).
		Model(&models.Message{}).
		Select("conversation_id, COUNT(*) AS count").
		Where("conversation_id IN ?", ids).
		Group("conversation_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	for _, c := range counts {
		var last models.Message
		if err := s.db.WithContext(ctx).
			Where("conversation_id = ?", c.ConversationID).
			Order("created_at DESC").
			Order("id DESC").
			First(&last).Error; err != nil {
			return nil, err
		}
		stats[c.ConversationID] = ConversationStats{MessageCount: c.Count, LastMessage: last.Content}
	}
	return stats, nil
}

// AppendMessage inserts a message and refreshes the conversation's updated_at in one transaction.
func (s *GormStore) AppendMessage(ctx context.Context, message *models.Message) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		result := tx.Model(&models.Conversation{}).
			Where("id = ?", message.ConversationID).
			Update("updated_at", message.CreatedAt)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListMessages returns a conversation's messages in append order.
func (s *GormStore) ListMessages(ctx context.Context, conversationID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// LatestUserMessage returns the most recent message the user sent in the conversation.
func (s *GormStore) LatestUserMessage(ctx context.Context, conversationID uint) (*models.Message, error) {
	var message models.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ? AND is_user_message = ?", conversationID, true).
		Order("created_at DESC").
		Order("id DESC").
		First(&message).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &message, nil
}

// ListActiveQuestions returns the matching catalog ordered by category.
func (s *GormStore) ListActiveQuestions(ctx context.Context) ([]models.PredefinedQuestion, error) {
	var questions []models.PredefinedQuestion
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("category ASC").
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// ListAllQuestions returns every question, newest first, for administration.
func (s *GormStore) ListAllQuestions(ctx context.Context) ([]models.PredefinedQuestion, error) {
	var questions []models.PredefinedQuestion
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// GetQuestion returns a question by ID.
func (s *GormStore) GetQuestion(ctx context.Context, id uint) (*models.PredefinedQuestion, error) {
	var question models.PredefinedQuestion
	if err := s.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &question, nil
}

// CreateQuestion inserts a question.
func (s *GormStore) CreateQuestion(ctx context.Context, question *models.PredefinedQuestion) error {
	return s.db.WithContext(ctx).Create(question).Error
}

// UpdateQuestion saves every field of an existing question.
func (s *GormStore) UpdateQuestion(ctx context.Context, question *models.PredefinedQuestion) error {
	result := s.db.WithContext(ctx).
		Model(question).
		Select("question", "answer", "category", "is_active").
		Updates(question)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteQuestion removes a question.
func (s *GormStore) DeleteQuestion(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.PredefinedQuestion{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateCustomerQuery inserts an escalated query.
func (s *GormStore) CreateCustomerQuery(ctx context.Context, query *models.CustomerQuery) error {
	return s.db.WithContext(ctx).Create(query).Error
}

// ListCustomerQueries returns the user's escalated queries, newest first.
func (s *GormStore) ListCustomerQueries(ctx context.Context, userID string) ([]models.CustomerQuery, error) {
	var queries []models.CustomerQuery
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&queries).Error; err != nil {
		return nil, err
	}
	return queries, nil
}

// ListOrders returns the user's orders, most recent order date first.
func (s *GormStore) ListOrders(ctx context.Context, userID string) ([]models.ScooterOrder, error) {
	var orders []models.ScooterOrder
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder returns the order only when it belongs to userID.
func (s *GormStore) GetOrder(ctx context.Context, userID string, id uint) (*models.ScooterOrder, error) {
	var order models.ScooterOrder
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
