package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kendall-kelly/ganges-support-api/config"
	"github.com/kendall-kelly/ganges-support-api/models"
	"github.com/kendall-kelly/ganges-support-api/store"
	"github.com/kendall-kelly/ganges-support-api/utils"
)

// AutoResponse is the admin response recorded when escalations are answered automatically
const AutoResponse = "Thank you for reaching out. Our support team has received your query and will contact you within 24 hours."

const noMessagesPlaceholder = "No messages"

// ChatOptions configures a ChatService
type ChatOptions struct {
	// EscalationMode is config.EscalationModePending (default) or config.EscalationModeAutoRespond
	EscalationMode string
	// ReuseEmptyConversation makes StartConversation return the user's latest
	// conversation without messages instead of creating another one
	ReuseEmptyConversation bool
	Matcher                *Matcher
	Now                    func() time.Time
	Logger                 *slog.Logger
}

// ChatService runs the support chat: conversations, ordered message appends,
// automated replies, attachments and escalation to human support
type ChatService struct {
	store          store.Store
	blobs          BlobStore
	matcher        *Matcher
	escalationMode string
	reuseEmpty     bool
	now            func() time.Time
	logger         *slog.Logger
}

// Exchange is the pair of messages appended by one submitted question
type Exchange struct {
	UserMessage models.Message `json:"user_message"`
	Reply       models.Message `json:"reply"`
	Matched     bool           `json:"matched"` // false when the fallback reply was used
}

var chatServiceInstance *ChatService

// NewChatService creates a chat service over the given store and blob store
func NewChatService(s store.Store, blobs BlobStore, opts ChatOptions) *ChatService {
	svc := &ChatService{
		store:          s,
		blobs:          blobs,
		matcher:        opts.Matcher,
		escalationMode: opts.EscalationMode,
		reuseEmpty:     opts.ReuseEmptyConversation,
		now:            opts.Now,
		logger:         opts.Logger,
	}
	if svc.matcher == nil {
		svc.matcher = defaultMatcher
	}
	if svc.escalationMode == "" {
		svc.escalationMode = config.EscalationModePending
	}
	if svc.now == nil {
		svc.now = func() time.Time { return time.Now().UTC() }
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// InitChatService initializes the global chat service from configuration
func InitChatService(cfg *config.Config, s store.Store, blobs BlobStore) *ChatService {
	chatServiceInstance = NewChatService(s, blobs, ChatOptions{
		EscalationMode:         cfg.EscalationMode,
		ReuseEmptyConversation: cfg.ReuseEmptyConversation,
		Matcher:                NewMatcher(MatcherOptions{StopWords: cfg.MatcherStopWords}),
	})
	return chatServiceInstance
}

// GetChatService returns the initialized chat service instance
func GetChatService() *ChatService {
	return chatServiceInstance
}

// SetChatService sets the chat service instance (primarily for testing)
func SetChatService(svc *ChatService) {
	chatServiceInstance = svc
}

// StartConversation creates a conversation for the session user.
// With ReuseEmptyConversation set, an existing conversation without messages is returned instead.
func (s *ChatService) StartConversation(ctx context.Context, session models.Session) (*models.Conversation, error) {
	if s.reuseEmpty {
		conversation, err := s.store.FindEmptyConversation(ctx, session.UserID)
		if err == nil {
			return conversation, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, remote(StepLoadConversation, err)
		}
	}

	now := s.now()
	conversation := &models.Conversation{
		UserID:    session.UserID,
		Title:     models.DefaultConversationTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateConversation(ctx, conversation); err != nil {
		return nil, remote(StepCreateConversation, err)
	}
	return conversation, nil
}

// ListConversations returns the session user's conversations, most recently updated first
func (s *ChatService) ListConversations(ctx context.Context, session models.Session) ([]models.Conversation, error) {
	conversations, err := s.store.ListConversations(ctx, session.UserID)
	if err != nil {
		return nil, remote(StepListConversations, err)
	}
	return conversations, nil
}

// ListConversationSummaries returns the conversations with message counts and last message
func (s *ChatService) ListConversationSummaries(ctx context.Context, session models.Session) ([]models.ConversationSummary, error) {
	conversations, err := s.ListConversations(ctx, session)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(conversations))
	for _, c := range conversations {
		ids = append(ids, c.ID)
	}
	stats, err := s.store.SummarizeConversations(ctx, ids)
	if err != nil {
		return nil, remote(StepListConversations, err)
	}

	summaries := make([]models.ConversationSummary, 0, len(conversations))
	for _, c := range conversations {
		summary := models.ConversationSummary{Conversation: c, LastMessage: noMessagesPlaceholder}
		if st, ok := stats[c.ID]; ok {
			summary.MessageCount = st.MessageCount
			summary.LastMessage = st.LastMessage
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// LoadMessages returns the conversation's messages in append order
func (s *ChatService) LoadMessages(ctx context.Context, session models.Session, conversationID uint) ([]models.Message, error) {
	if _, err := s.conversation(ctx, session, conversationID); err != nil {
		return nil, err
	}
	messages, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, remote(StepLoadMessages, err)
	}
	return messages, nil
}

// SubmitUserMessage appends the user's message followed by the automated reply.
//
// orderID optionally selects the order the question is about. The user message is not
// rolled back when the reply append fails; the returned RemoteError names the step.
func (s *ChatService) SubmitUserMessage(ctx context.Context, session models.Session, conversationID uint, text string, orderID *uint) (*Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Code: "EMPTY_MESSAGE", Message: "Message text is required"}
	}

	if _, err := s.conversation(ctx, session, conversationID); err != nil {
		return nil, err
	}
	orderContext, err := s.orderContext(ctx, session, orderID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.store.ListActiveQuestions(ctx)
	if err != nil {
		return nil, remote(StepLoadCatalog, err)
	}

	userMessage := models.Message{
		ConversationID: conversationID,
		Content:        text,
		IsUserMessage:  true,
		CreatedAt:      s.now(),
	}
	if err := s.store.AppendMessage(ctx, &userMessage); err != nil {
		return nil, remote(StepAppendUserMessage, err)
	}

	answer, matched := s.matcher.FindBestAnswer(text, catalog, orderContext)
	if !matched {
		answer = FallbackAnswer
	}

	reply := models.Message{
		ConversationID: conversationID,
		Content:        answer,
		IsUserMessage:  false,
		CreatedAt:      notBefore(s.now(), userMessage.CreatedAt),
	}
	if err := s.store.AppendMessage(ctx, &reply); err != nil {
		s.logger.WarnContext(ctx, "reply append failed after user message was stored",
			"conversation_id", conversationID,
			"user_message_id", userMessage.ID,
			"step", string(StepAppendReply),
			"error", err)
		return nil, remote(StepAppendReply, err)
	}

	return &Exchange{UserMessage: userMessage, Reply: reply, Matched: matched}, nil
}

// SelectPredefinedQuestion submits an active catalog entry's question text as the user's message
func (s *ChatService) SelectPredefinedQuestion(ctx context.Context, session models.Session, conversationID, questionID uint, orderID *uint) (*Exchange, error) {
	question, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "question", ID: questionID}
		}
		return nil, remote(StepLoadQuestion, err)
	}
	if !question.IsActive {
		return nil, &NotFoundError{Resource: "question", ID: questionID}
	}
	return s.SubmitUserMessage(ctx, session, conversationID, question.Question, orderID)
}

// AttachFile validates and uploads a file, then appends a file-share message with its URL.
// Validation happens before any store or blob store call. No reply is appended.
func (s *ChatService) AttachFile(ctx context.Context, session models.Session, conversationID uint, content []byte, fileName, mimeType string) (*models.Message, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, &ValidationError{Code: "MISSING_FILE_NAME", Message: "File name is required"}
	}
	mimeType = utils.ResolveMimeType(mimeType, content)
	if err := utils.ValidateAttachment(int64(len(content)), mimeType); err != nil {
		var fileErr *utils.FileUploadError
		if errors.As(err, &fileErr) {
			return nil, &ValidationError{Code: fileErr.Code, Message: fileErr.Message}
		}
		return nil, &ValidationError{Code: "INVALID_FILE", Message: err.Error()}
	}

	if _, err := s.conversation(ctx, session, conversationID); err != nil {
		return nil, err
	}

	key := uuid.NewString() + "_" + utils.StoredAttachmentName(fileName, mimeType)
	fileURL, err := s.blobs.Upload(ctx, key, content, mimeType)
	if err != nil {
		return nil, remote(StepUploadFile, err)
	}

	message := models.Message{
		ConversationID: conversationID,
		Content:        "Shared a file: " + fileName,
		IsUserMessage:  true,
		FileURL:        &fileURL,
		CreatedAt:      s.now(),
	}
	if err := s.store.AppendMessage(ctx, &message); err != nil {
		s.logger.WarnContext(ctx, "file uploaded but message append failed",
			"conversation_id", conversationID,
			"file_url", fileURL,
			"step", string(StepAppendFileMessage),
			"error", err)
		return nil, remote(StepAppendFileMessage, err)
	}
	return &message, nil
}

// FlagUnhelpful escalates the conversation to human support.
//
// The stored query text is the most recent user message of the conversation; replyText
// is only used when the user has not sent a message yet. Every call creates a new query.
func (s *ChatService) FlagUnhelpful(ctx context.Context, session models.Session, conversationID uint, replyText string) (*models.CustomerQuery, error) {
	if _, err := s.conversation(ctx, session, conversationID); err != nil {
		return nil, err
	}

	var queryText string
	latest, err := s.store.LatestUserMessage(ctx, conversationID)
	switch {
	case err == nil:
		queryText = latest.Content
	case errors.Is(err, store.ErrNotFound):
		queryText = strings.TrimSpace(replyText)
	default:
		return nil, remote(StepLoadMessages, err)
	}
	if queryText == "" {
		return nil, &ValidationError{Code: "EMPTY_QUERY", Message: "There is no message to escalate"}
	}

	now := s.now()
	query := &models.CustomerQuery{
		UserID:         session.UserID,
		ConversationID: conversationID,
		QueryText:      queryText,
		Status:         models.QueryStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if s.escalationMode == config.EscalationModeAutoRespond {
		response := AutoResponse
		query.Status = models.QueryStatusResponded
		query.AdminResponse = &response
		query.ResponseDate = &now
	}

	if err := s.store.CreateCustomerQuery(ctx, query); err != nil {
		return nil, remote(StepInsertEscalation, err)
	}
	s.logger.InfoContext(ctx, "conversation escalated",
		"conversation_id", conversationID,
		"query_id", query.ID,
		"status", query.Status,
		"test_account", session.IsTestAccount)
	return query, nil
}

// ListQueries returns the session user's escalated queries, newest first
func (s *ChatService) ListQueries(ctx context.Context, session models.Session) ([]models.CustomerQuery, error) {
	queries, err := s.store.ListCustomerQueries(ctx, session.UserID)
	if err != nil {
		return nil, remote(StepListQueries, err)
	}
	return queries, nil
}

// ListOrders returns the session user's orders, most recent first
func (s *ChatService) ListOrders(ctx context.Context, session models.Session) ([]models.ScooterOrder, error) {
	orders, err := s.store.ListOrders(ctx, session.UserID)
	if err != nil {
		return nil, remote(StepListOrders, err)
	}
	return orders, nil
}

// GetOrder returns one of the session user's orders
func (s *ChatService) GetOrder(ctx context.Context, session models.Session, orderID uint) (*models.ScooterOrder, error) {
	order, err := s.store.GetOrder(ctx, session.UserID, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "order", ID: orderID}
		}
		return nil, remote(StepLoadOrder, err)
	}
	return order, nil
}

// ListActiveQuestions returns the catalog shown as quick questions
func (s *ChatService) ListActiveQuestions(ctx context.Context) ([]models.PredefinedQuestion, error) {
	questions, err := s.store.ListActiveQuestions(ctx)
	if err != nil {
		return nil, remote(StepLoadCatalog, err)
	}
	return questions, nil
}

func (s *ChatService) conversation(ctx context.Context, session models.Session, conversationID uint) (*models.Conversation, error) {
	conversation, err := s.store.GetConversation(ctx, session.UserID, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "conversation", ID: conversationID}
		}
		return nil, remote(StepLoadConversation, err)
	}
	return conversation, nil
}

func (s *ChatService) orderContext(ctx context.Context, session models.Session, orderID *uint) (*models.OrderContext, error) {
	if orderID == nil {
		return nil, nil
	}
	order, err := s.GetOrder(ctx, session, *orderID)
	if err != nil {
		return nil, err
	}
	orderContext := order.Context()
	return &orderContext, nil
}

// notBefore keeps a reply from sorting ahead of the message it answers
func notBefore(t, floor time.Time) time.Time {
	if t.Before(floor) {
		return floor
	}
	return t
}
