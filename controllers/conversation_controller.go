package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/ganges-support-api/utils"
)

// SubmitMessageRequest represents the request body for sending a chat message
type SubmitMessageRequest struct {
	Text    string `json:"text" binding:"required"`
	OrderID *uint  `json:"order_id"`
}

// SelectQuestionRequest represents the optional body when picking a quick question
type SelectQuestionRequest struct {
	OrderID *uint `json:"order_id"`
}

// EscalateRequest represents the request body for flagging a reply as unhelpful
type EscalateRequest struct {
	ReplyText string `json:"reply_text"`
}

// StartConversation handles POST /api/v1/conversations
func StartConversation(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	svc, ok := chatService(c)
	if !ok {
		return
	}

	conversation, err := svc.StartConversation(c.Request.Context(), session)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, conversation)
}

// ListConversations handles GET /api/v1/conversations - chat history with message counts
func ListConversations(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	svc, ok := chatService(c)
	if !ok {
		return
	}

	summaries, err := svc.ListConversationSummaries(c.Request.Context(), session)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, summaries)
}

// ListMessages handles GET /api/v1/conversations/:id/messages
func ListMessages(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	conversationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	svc, ok := chatService(c)
	if !ok {
		return
	}

	messages, err := svc.LoadMessages(c.Request.Context(), session, conversationID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, messages)
}

// SubmitMessage handles POST /api/v1/conversations/:id/messages
func SubmitMessage(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	conversationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SubmitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
		return
	}

	svc, ok := chatService(c)
	if !ok {
		return
	}
	exchange, err := svc.SubmitUserMessage(c.Request.Context(), session, conversationID, req.Text, req.OrderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, exchange)
}

// SelectQuestion handles POST /api/v1/conversations/:id/questions/:questionId
func SelectQuestion(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	conversationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := parseIDParam(c, "questionId")
	if !ok {
		return
	}

	var req SelectQuestionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
			return
		}
	}

	svc, ok := chatService(c)
	if !ok {
		return
	}
	exchange, err := svc.SelectPredefinedQuestion(c.Request.Context(), session, conversationID, questionID, req.OrderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, exchange)
}

// AttachFile handles POST /api/v1/conversations/:id/attachments (multipart field "file")
func AttachFile(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	conversationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "A file is required in the 'file' field")
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_FILE", "Could not read uploaded file")
		return
	}
	defer file.Close()

	// One byte past the limit is enough for the size check to reject it
	content, err := io.ReadAll(io.LimitReader(file, utils.MaxAttachmentSize+1))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_FILE", "Could not read uploaded file")
		return
	}

	svc, ok := chatService(c)
	if !ok {
		return
	}
	message, err := svc.AttachFile(c.Request.Context(), session, conversationID, content, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, message)
}

// Escalate handles POST /api/v1/conversations/:id/escalations - "this didn't help"
func Escalate(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	conversationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req EscalateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
			return
		}
	}

	svc, ok := chatService(c)
	if !ok {
		return
	}
	query, err := svc.FlagUnhelpful(c.Request.Context(), session, conversationID, req.ReplyText)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, query)
}
