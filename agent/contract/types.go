package contract

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation message. Only the two
// enumerated values are valid; anything else is a data-integrity violation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Task is an owner-scoped todo item. Deletion is permanent; there is no
// tombstone state.
type Task struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskPatch carries the mutable fields of a task update. Nil means
// "leave unchanged".
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Conversation is a container for an append-only message log.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one entry in a conversation log. Messages are never mutated
// or deleted; ordering is by CreatedAt ascending with insertion order
// breaking ties.
type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	OwnerID        uuid.UUID `json:"user_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationContext is the assembled state handed to the orchestrator for
// one turn: full message history plus the owner's current task snapshot.
// Read-consistent only at the instant of assembly; no guarantee against
// concurrent writers.
type ConversationContext struct {
	ConversationID uuid.UUID
	OwnerID        uuid.UUID
	Messages       []Message
	Tasks          []Task
}

// ToolIntent is one action the completion provider asked to perform.
// Transient; never persisted or serialized whole — the transport sends the
// name in the URL and the args as the body.
type ToolIntent struct {
	Name string
	Args map[string]any
}

// TaskView is the task summary shape returned by tool operations.
type TaskView struct {
	TaskID      string  `json:"task_id"`
	Status      string  `json:"status"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// ToolError is the two-field error object every tool failure reduces to.
type ToolError struct {
	Kind    string `json:"error"`
	Message string `json:"message"`
}

// ToolResult is the closed union of tool outcomes: exactly one of Task,
// List, or Err is set. An all-nil result is an unknown shape and renders
// as nothing in the synthesized reply.
type ToolResult struct {
	Task *TaskView
	List []TaskView
	Err  *ToolError
}

func TaskResult(view TaskView) ToolResult {
	return ToolResult{Task: &view}
}

func ListResult(views []TaskView) ToolResult {
	if views == nil {
		views = []TaskView{}
	}
	return ToolResult{List: views}
}

func FailureResult(kind, message string) ToolResult {
	return ToolResult{Err: &ToolError{Kind: kind, Message: message}}
}

func (r ToolResult) IsFailure() bool { return r.Err != nil }
func (r ToolResult) IsTask() bool    { return r.Task != nil }
func (r ToolResult) IsList() bool    { return r.List != nil }

// toolResultWire is the flat JSON shape spoken on the tool transport.
type toolResultWire struct {
	TaskID      string      `json:"task_id,omitempty"`
	Status      string      `json:"status,omitempty"`
	Title       string      `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Tasks       *[]TaskView `json:"tasks,omitempty"`
	ErrorKind   string      `json:"error,omitempty"`
	Message     string      `json:"message,omitempty"`
}

func (r ToolResult) MarshalJSON() ([]byte, error) {
	var wire toolResultWire
	switch {
	case r.Err != nil:
		wire.ErrorKind = r.Err.Kind
		wire.Message = r.Err.Message
	case r.Task != nil:
		wire.TaskID = r.Task.TaskID
		wire.Status = r.Task.Status
		wire.Title = r.Task.Title
		wire.Description = r.Task.Description
	case r.List != nil:
		tasks := r.List
		wire.Tasks = &tasks
	}
	return json.Marshal(wire)
}

func (r *ToolResult) UnmarshalJSON(data []byte) error {
	var wire toolResultWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch {
	case wire.ErrorKind != "":
		*r = ToolResult{Err: &ToolError{Kind: wire.ErrorKind, Message: wire.Message}}
	case wire.Tasks != nil:
		*r = ToolResult{List: *wire.Tasks}
	case wire.TaskID != "":
		*r = ToolResult{Task: &TaskView{
			TaskID:      wire.TaskID,
			Status:      wire.Status,
			Title:       wire.Title,
			Description: wire.Description,
		}}
	default:
		// Unknown shape stays all-nil and is dropped by the reply builder.
		*r = ToolResult{}
	}
	return nil
}

// TurnResult is the outcome of one orchestrated chat turn.
type TurnResult struct {
	Reply     string       `json:"content"`
	ToolCalls []string     `json:"tool_calls"`
	Tasks     []TaskView   `json:"tasks"`
	Results   []ToolResult `json:"-"`
}
