package services

import (
	"context"
	"errors"
	"strings"

	"github.com/kendall-kelly/ganges-support-api/models"
	"github.com/kendall-kelly/ganges-support-api/store"
)

// QuestionInput is the editable part of a predefined question.
// Nil fields are left unchanged on update; IsActive defaults to true on create.
type QuestionInput struct {
	Question *string
	Answer   *string
	Category *string
	IsActive *bool
}

// ListAllQuestions returns every catalog entry, inactive ones included, newest first
func (s *ChatService) ListAllQuestions(ctx context.Context, session models.Session) ([]models.PredefinedQuestion, error) {
	if !session.IsAdmin() {
		return nil, errAdminRequired
	}
	questions, err := s.store.ListAllQuestions(ctx)
	if err != nil {
		return nil, remote(StepLoadCatalog, err)
	}
	return questions, nil
}

// CreateQuestion adds a catalog entry
func (s *ChatService) CreateQuestion(ctx context.Context, session models.Session, input QuestionInput) (*models.PredefinedQuestion, error) {
	if !session.IsAdmin() {
		return nil, errAdminRequired
	}

	question := &models.PredefinedQuestion{IsActive: true}
	if err := applyQuestionInput(question, input); err != nil {
		return nil, err
	}
	if question.Question == "" || question.Answer == "" {
		return nil, &ValidationError{Code: "MISSING_FIELDS", Message: "Question and answer are required"}
	}

	if err := s.store.CreateQuestion(ctx, question); err != nil {
		return nil, remote(StepSaveQuestion, err)
	}
	return question, nil
}

// UpdateQuestion changes the provided fields of a catalog entry
func (s *ChatService) UpdateQuestion(ctx context.Context, session models.Session, id uint, input QuestionInput) (*models.PredefinedQuestion, error) {
	if !session.IsAdmin() {
		return nil, errAdminRequired
	}

	question, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "question", ID: id}
		}
		return nil, remote(StepLoadQuestion, err)
	}
	if err := applyQuestionInput(question, input); err != nil {
		return nil, err
	}

	if err := s.store.UpdateQuestion(ctx, question); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "question", ID: id}
		}
		return nil, remote(StepSaveQuestion, err)
	}
	return question, nil
}

// DeleteQuestion removes a catalog entry
func (s *ChatService) DeleteQuestion(ctx context.Context, session models.Session, id uint) error {
	if !session.IsAdmin() {
		return errAdminRequired
	}
	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &NotFoundError{Resource: "question", ID: id}
		}
		return remote(StepDeleteQuestion, err)
	}
	return nil
}

func applyQuestionInput(q *models.PredefinedQuestion, input QuestionInput) error {
	if input.Question != nil {
		text := strings.TrimSpace(*input.Question)
		if text == "" {
			return &ValidationError{Code: "MISSING_FIELDS", Message: "Question cannot be empty"}
		}
		q.Question = text
	}
	if input.Answer != nil {
		text := strings.TrimSpace(*input.Answer)
		if text == "" {
			return &ValidationError{Code: "MISSING_FIELDS", Message: "Answer cannot be empty"}
		}
		q.Answer = text
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			q.Category = nil
		} else {
			q.Category = &category
		}
	}
	if input.IsActive != nil {
		q.IsActive = *input.IsActive
	}
	return nil
}
