package services

import (
	"fmt"
	"strings"
)

// Step names the remote call that failed inside a chat operation
type Step string

const (
	StepCreateConversation Step = "create_conversation"
	StepLoadConversation   Step = "load_conversation"
	StepListConversations  Step = "list_conversations"
	StepLoadMessages       Step = "load_messages"
	StepLoadOrder          Step = "load_order"
	StepLoadCatalog        Step = "load_catalog"
	StepLoadQuestion       Step = "load_question"
	StepAppendUserMessage  Step = "append_user_message"
	StepAppendReply        Step = "append_reply"
	StepUploadFile         Step = "upload_file"
	StepAppendFileMessage  Step = "append_file_message"
	StepInsertEscalation   Step = "insert_escalation"
	StepListQueries        Step = "list_queries"
	StepListOrders         Step = "list_orders"
	StepSaveQuestion       Step = "save_question"
	StepDeleteQuestion     Step = "delete_question"
)

// ValidationError reports input rejected before any remote call was made
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RemoteError reports a failed store or blob store call and the step it happened in.
// Writes committed by earlier steps of the same operation are not rolled back.
type RemoteError struct {
	Step Step
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a resource that does not exist or is not visible to the session user
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// Code returns the API error code for the missing resource, e.g. CONVERSATION_NOT_FOUND
func (e *NotFoundError) Code() string {
	return strings.ToUpper(e.Resource) + "_NOT_FOUND"
}

func remote(step Step, err error) error {
	return &RemoteError{Step: step, Err: err}
}

// PermissionError reports an operation the session role is not allowed to perform
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}

var errAdminRequired = &PermissionError{Message: "Admin role required"}
