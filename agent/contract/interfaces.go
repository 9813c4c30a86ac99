package contract

import (
	"context"

	"github.com/google/uuid"
)

// TaskStore owns authoritative task records. Every operation is scoped to
// the owner; addressing another owner's task yields ErrTaskNotFound.
type TaskStore interface {
	CreateTask(ctx context.Context, ownerID uuid.UUID, title string, description *string) (*Task, error)
	ListTasks(ctx context.Context, ownerID uuid.UUID, completed *bool) ([]Task, error)
	GetTask(ctx context.Context, taskID, ownerID uuid.UUID) (*Task, error)
	UpdateTask(ctx context.Context, taskID, ownerID uuid.UUID, patch TaskPatch) (*Task, error)
	DeleteTask(ctx context.Context, taskID, ownerID uuid.UUID) error
}

// ConversationStore owns conversation and message records. The message log
// is append-only and ordered by creation time.
type ConversationStore interface {
	CreateConversation(ctx context.Context, ownerID uuid.UUID) (*Conversation, error)
	GetConversation(ctx context.Context, conversationID, ownerID uuid.UUID) (*Conversation, error)
	ListConversations(ctx context.Context, ownerID uuid.UUID) ([]Conversation, error)
	ListMessages(ctx context.Context, conversationID, ownerID uuid.UUID) ([]Message, error)
	AppendMessage(ctx context.Context, conversationID, ownerID uuid.UUID, role Role, content string) (*Message, error)
}

// ContextSource reconstructs the conversation context for one turn.
// Absent and foreign-owned conversations are indistinguishable: both yield
// ErrConversationNotFound.
type ContextSource interface {
	Reconstruct(ctx context.Context, conversationID, ownerID uuid.UUID) (*ConversationContext, error)
}

// ToolGateway executes one validated tool intent. Failures are reported
// in-band as ToolResult failures, never as transport errors; dispatching is
// safe to call for sibling intents after a failure.
type ToolGateway interface {
	Dispatch(ctx context.Context, intent ToolIntent) ToolResult
}
