package store

import (
	"context"
	"testing"
	"time"

	"github.com/kendall-kelly/ganges-support-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStoreTestDB(t *testing.T) *GormStore {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	s := NewGormStore(db)
	if err := s.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return s
}

func strPtr(s string) *string { return &s }

func TestConversationOwnership(t *testing.T) {
	s := setupStoreTestDB(t)
	ctx := context.Background()

	conversation := models.Conversation{UserID: "auth0|alice", Title: models.DefaultConversationTitle}
	require.NoError(t, s.CreateConversation(ctx, &conversation))

	found, err := s.GetConversation(ctx, "auth0|alice", conversation.ID)
	require.NoError(t, err)
	assert.Equal(t, conversation.ID, found.ID)

	_, err = s.GetConversation(ctx, "auth0|bob", conversation.ID)
	assert.ErrorIs(t, err, ErrNotFound, "another user's conversation must not be visible")

	_, err = s.GetConversation(ctx, "auth0|alice", 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendMessageKeepsAppendOrderAndRefreshesConversation(t *testing.T) {
	s := setupStoreTestDB(t)
	ctx := context.Background()

	created := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	conversation := models.Conversation{UserID: "auth0|alice", Title: "New Chat", CreatedAt: created, UpdatedAt: created}
	require.NoError(t, s.CreateConversation(ctx, &conversation))

	// Same timestamp for a user message and its reply: insertion order must still win
	at := created.Add(time.Minute)
	contents := []string{"hello", "reply to hello", "second question", "second reply"}
	for i, content := range contents {
		msg := models.Message{
			ConversationID: conversation.ID,
			Content:        content,
			IsUserMessage:  i%2 == 0,
			CreatedAt:      at,
		}
		require.NoError(t, s.AppendMessage(ctx, &msg))
	}

	messages, err := s.ListMessages(ctx, conversation.ID)
	require.NoError(t, err)
	require.Len(t, messages, 4)
	for i, content := range contents {
		assert.Equal(t, content, messages[i].Content)
		assert.Equal(t, i%2 == 0, messages[i].IsUserMessage)
	}

	refreshed, err := s.GetConversation(ctx, "auth0|alice", conversation.ID)
	require.NoError(t, err)
	assert.True(t, refreshed.UpdatedAt.Equal(at), "updated_at should follow the last message")
}

func TestAppendMessageToMissingConversation(t *testing.T) {
	s := setupStoreTestDB(t)
	ctx := context.Background()

	msg := models.Message{ConversationID: 42, Content: "orphan", IsUserMessage: true, CreatedAt: time.Now().UTC()}
	err := s.AppendMessage(ctx, &msg)
	assert.ErrorIs(t, err, ErrNotFound)

	messages, err := s.ListMessages(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, messages, "the insert must be rolled back")
}

func TestListConversationsNewestUpdatedFirst(t *testing.T) {
	s := setupStoreTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)

	var ids []uint
	for i := 0; i < 3; i++ {
		c := models.Conversation{UserID: "auth0|alice", Title: "New Chat", CreatedAt: base.Add(time.Duration(i) * time.Hour), UpdatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, s.CreateConversation(ctx, &c))
		ids = append(ids, c.ID)
	}
	other := models.Conversation{UserID: "auth0|bob", Title: "New Chat", CreatedAt: base, UpdatedAt: base}
	require.NoError(t, s.CreateConversation(ctx, &other))

	// A new message moves the oldest conversation to the top
	msg := models.Message{ConversationID: ids[0], Content: "bump", IsUserMessage: true, CreatedAt: base.Add(5 * time.Hour)}
	require.NoError(t, s.AppendMessage(ctx, &msg))

	conversations, err := s.ListConversations(ctx, "auth0|alice")
	require.NoError(t, err)
	require.Len(t, conversations, 3)
	assert.Equal(t, []uint{ids[0], ids[2], ids[1]}, []uint{conversations[0].ID, conversations[1].ID, conversations[2].ID})
}

func TestFindEmptyConversation(t *testing.T) {
	s := setupStoreTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)

	_, err := s.FindEmptyConversation(ctx, "auth0|alice")
	assert.ErrorIs(t, err, ErrNotFound)

	used := models.Conversation{UserID: "auth0|alice", Title: "New Chat", CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)}
	require.NoError(t, s.CreateConversation(ctx, &used))
	require.NoError(t, s.AppendMessage(ctx, &models.Message{ConversationID: used.ID, Content: "hi", IsUserMessage: true, CreatedAt: base.Add(2 * time.Hour)}))

	empty := models.Conversation{UserID: "auth0|alice", Title: "New Chat", CreatedAt: base, UpdatedAt: base}
	require.NoError(t, s.CreateConversation(ctx, &empty))

	found, err := s.FindEmptyConversation(ctx, "auth0|alice")
	require.NoError(t, err)
	assert.Equal(t, empty.ID, found.ID)

	_, err = s.FindEmptyConversation(ctx, "auth0|bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSummarizeConversations(t *testing.T) {
	s := setupStoreTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)

	busy := models.Conversation{UserID: "auth0|alice", Title: "New Chat"}
	quiet := models.Conversation{UserID: "auth0|alice", Title: "New Chat"}
	require.NoError(t, s.CreateConversation(ctx, &busy))
	require.NoError(t, s.CreateConversation(ctx, &quiet))

	require.NoError(t, s.AppendMessage(ctx, &models.Message{ConversationID: busy.ID, Content: "first", IsUserMessage: true, CreatedAt: base}))
	require.NoError(t, s.AppendMessage(ctx, &models.Message{ConversationID: busy.ID, Content: "last", IsUserMessage: false, CreatedAt: base}))

	stats, err := s.SummarizeConversations(ctx, []uint{busy.ID, quiet.ID})
	require.NoError(t, err)
	assert.Equal(t, ConversationStats{MessageCount: 2, LastMessage: "last"}, stats[busy.ID])
	_, ok := stats[quiet.ID]
	assert.False(t, ok, "conversations without messages have no stats")

	empty, err := s.SummarizeConversations(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLatestUserMessage(t *testing.T) {
	s := setupStoreTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)

	c := models.Conversation{UserID: "auth0|alice", Title: "New Chat"}
	require.NoError(t, s.CreateConversation(ctx, &c))

	_, err := s.LatestUserMessage(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.AppendMessage(ctx, &models.Message{ConversationID: c.ID, Content: "first question", IsUserMessage: true, CreatedAt: base}))
	require.NoError(t, s.AppendMessage(ctx, &models.Message{ConversationID: c.ID, Content: "first answer", CreatedAt: base}))
	require.NoError(t, s.AppendMessage(ctx, &models.Message{ConversationID: c.ID, Content: "battery drains fast", IsUserMessage: true, CreatedAt: base.Add(time.Second)}))
	require.NoError(t, s.AppendMessage(ctx, &models.Message{ConversationID: c.ID, Content: "fallback", CreatedAt: base.Add(time.Second)}))

	latest, err := s.LatestUserMessage(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "battery drains fast", latest.Content)
}

func TestActiveQuestionsFilteredAndOrderedByCategory(t *testing.T) {
	s := setupStoreTestDB(t)
	ctx := context.Background()

	questions := []models.PredefinedQuestion{
		{Question: "How do I charge my scooter", Answer: "Plug in the charger", Category: strPtr("charging"), IsActive: true},
		{Question: "What is the warranty period", Answer: "Two years", Category: strPtr("warranty"), IsActive: true},
		{Question: "Old promotion question", Answer: "Expired", Category: strPtr("billing"), IsActive: false},
		{Question: "Which battery does the Ganges-X use", Answer: "Lithium-ion", Category: strPtr("battery"), IsActive: true},
	}
	for i := range questions {
		require.NoError(t, s.CreateQuestion(ctx, &questions[i]))
	}

	active, err := s.ListActiveQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, "battery", *active[0].Category)
	assert.Equal(t, "charging", *active[1].Category)
	assert.Equal(t, "warranty", *active[2].Category)

	all, err := s.ListAllQuestions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	inactive, err := s.GetQuestion(ctx, questions[2].ID)
	require.NoError(t, err)
	assert.False(t, inactive.IsActive, "inactive flag must be persisted")
}

func TestUpdateAndDeleteQuestion(t *testing.T) {
	s := setupStoreTestDB(t)
	ctx := context.Background()

	q := models.PredefinedQuestion{Question: "How fast is the Ganges-4X", Answer: "45 km/h", IsActive: true}
	require.NoError(t, s.CreateQuestion(ctx, &q))

	q.Answer = "50 km/h"
	q.IsActive = false
	require.NoError(t, s.UpdateQuestion(ctx, &q))

	updated, err := s.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "50 km/h", updated.Answer)
	assert.False(t, updated.IsActive)

	missing := models.PredefinedQuestion{ID: 999, Question: "x", Answer: "y"}
	assert.ErrorIs(t, s.UpdateQuestion(ctx, &missing), ErrNotFound)

	require.NoError(t, s.DeleteQuestion(ctx, q.ID))
	_, err = s.GetQuestion(ctx, q.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteQuestion(ctx, q.ID), ErrNotFound)
}

func TestCustomerQueries(t *testing.T) {
	s := setupStoreTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)

	first := models.CustomerQuery{UserID: "auth0|alice", ConversationID: 1, QueryText: "first", Status: models.QueryStatusPending, CreatedAt: base}
	second := models.CustomerQuery{UserID: "auth0|alice", ConversationID: 1, QueryText: "second", Status: models.QueryStatusPending, CreatedAt: base.Add(time.Hour)}
	other := models.CustomerQuery{UserID: "auth0|bob", ConversationID: 2, QueryText: "other", Status: models.QueryStatusPending, CreatedAt: base}
	for _, q := range []*models.CustomerQuery{&first, &second, &other} {
		require.NoError(t, s.CreateCustomerQuery(ctx, q))
	}

	queries, err := s.ListCustomerQueries(ctx, "auth0|alice")
	require.NoError(t, err)
	require.Len(t, queries, 2)
	assert.Equal(t, "second", queries[0].QueryText)
	assert.Equal(t, "first", queries[1].QueryText)
}

func TestOrders(t *testing.T) {
	s := setupStoreTestDB(t)
	ctx := context.Background()
	db := s.db
	base := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

	older := models.ScooterOrder{UserID: "auth0|alice", OrderNumber: "GNG000001", ScooterModel: "Ganges-X", OrderStatus: models.OrderStatusDelivered, OrderDate: base}
	newer := models.ScooterOrder{UserID: "auth0|alice", OrderNumber: "GNG000002", ScooterModel: "Ganges-4X", OrderStatus: models.OrderStatusProcessing, OrderDate: base.AddDate(0, 1, 0)}
	foreign := models.ScooterOrder{UserID: "auth0|bob", OrderNumber: "GNG000003", ScooterModel: "Ganges-2X", OrderStatus: models.OrderStatusShipped, OrderDate: base}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)
	require.NoError(t, db.Create(&foreign).Error)

	orders, err := s.ListOrders(ctx, "auth0|alice")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "GNG000002", orders[0].OrderNumber)

	order, err := s.GetOrder(ctx, "auth0|alice", older.ID)
	require.NoError(t, err)
	assert.Equal(t, "GNG000001", order.OrderNumber)

	_, err = s.GetOrder(ctx, "auth0|alice", foreign.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
