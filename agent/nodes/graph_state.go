package orchestratornode

import (
	"errors"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	contractx "taskchat/agent/contract"
	toolx "taskchat/agent/tool"
)

var (
	ErrInvalidOwner        = errors.New("owner id is empty")
	ErrInvalidConversation = errors.New("conversation id is empty")
	ErrInvalidMessage      = errors.New("message is empty")
)

type GraphInput struct {
	OwnerID        uuid.UUID
	ConversationID uuid.UUID
	Text           string
}

// GraphState threads one chat turn through the orchestrator graph.
type GraphState struct {
	OwnerID        uuid.UUID
	ConversationID uuid.UUID
	Text           string

	Context  *contractx.ConversationContext
	Messages []*schema.Message

	// ModelReply is nil when the provider call failed; ProviderErr then
	// carries the degraded-turn cause and the remaining nodes pass through.
	ModelReply  *schema.Message
	ProviderErr error

	Calls   []toolx.Call
	Results []contractx.ToolResult
}

func ValidateRequest(in GraphInput) (*GraphState, error) {
	if in.OwnerID == uuid.Nil {
		return nil, ErrInvalidOwner
	}
	if in.ConversationID == uuid.Nil {
		return nil, ErrInvalidConversation
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		OwnerID:        in.OwnerID,
		ConversationID: in.ConversationID,
		Text:           text,
	}, nil
}
