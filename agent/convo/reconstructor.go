// Package convo assembles per-turn conversation context.
package convo

import (
	"context"
	"errors"

	"github.com/google/uuid"

	contractx "taskchat/agent/contract"
)

// Reconstructor composes the message history and the owner's task snapshot
// into one context object. Pure read; it never mutates either store.
type Reconstructor struct {
	conversations contractx.ConversationStore
	tasks         contractx.TaskStore
}

func NewReconstructor(conversations contractx.ConversationStore, tasks contractx.TaskStore) (*Reconstructor, error) {
	if conversations == nil {
		return nil, errors.New("conversation store is required")
	}
	if tasks == nil {
		return nil, errors.New("task store is required")
	}
	return &Reconstructor{
		conversations: conversations,
		tasks:         tasks,
	}, nil
}

// Reconstruct returns the full message history for the conversation and the
// owner's complete current task list. A conversation that is absent or
// belongs to another owner yields ErrConversationNotFound either way, so a
// caller can never probe for foreign conversations.
func (r *Reconstructor) Reconstruct(ctx context.Context, conversationID, ownerID uuid.UUID) (*contractx.ConversationContext, error) {
	conv, err := r.conversations.GetConversation(ctx, conversationID, ownerID)
	if err != nil {
		return nil, err
	}

	messages, err := r.conversations.ListMessages(ctx, conv.ID, ownerID)
	if err != nil {
		return nil, err
	}

	// Tasks are user-global, not conversation-scoped.
	tasks, err := r.tasks.ListTasks(ctx, ownerID, nil)
	if err != nil {
		return nil, err
	}

	return &contractx.ConversationContext{
		ConversationID: conv.ID,
		OwnerID:        ownerID,
		Messages:       messages,
		Tasks:          tasks,
	}, nil
}
