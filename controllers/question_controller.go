package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/ganges-support-api/services"
)

// QuestionRequest represents the request body for creating or updating a predefined question
type QuestionRequest struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
	Category *string `json:"category"`
	IsActive *bool   `json:"is_active"`
}

func (r QuestionRequest) input() services.QuestionInput {
	return services.QuestionInput{
		Question: r.Question,
		Answer:   r.Answer,
		Category: r.Category,
		IsActive: r.IsActive,
	}
}

// ListQuestions handles GET /api/v1/questions - the active quick questions
func ListQuestions(c *gin.Context) {
	svc, ok := chatService(c)
	if !ok {
		return
	}

	questions, err := svc.ListActiveQuestions(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, questions)
}

// AdminListQuestions handles GET /api/v1/admin/questions
func AdminListQuestions(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	svc, ok := chatService(c)
	if !ok {
		return
	}

	questions, err := svc.ListAllQuestions(c.Request.Context(), session)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, questions)
}

// AdminCreateQuestion handles POST /api/v1/admin/questions
func AdminCreateQuestion(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	svc, ok := chatService(c)
	if !ok {
		return
	}
	question, err := svc.CreateQuestion(c.Request.Context(), session, req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, question)
}

// AdminUpdateQuestion handles PUT /api/v1/admin/questions/:id
func AdminUpdateQuestion(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	svc, ok := chatService(c)
	if !ok {
		return
	}
	question, err := svc.UpdateQuestion(c.Request.Context(), session, id, req.input())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, question)
}

// AdminDeleteQuestion handles DELETE /api/v1/admin/questions/:id
func AdminDeleteQuestion(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	svc, ok := chatService(c)
	if !ok {
		return
	}

	if err := svc.DeleteQuestion(c.Request.Context(), session, id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}
