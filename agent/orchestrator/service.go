// Package orchestrator turns one user utterance into a deterministic
// sequence of tool invocations plus a synthesized confirmation.
package orchestrator

import (
	"context"
	"errors"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"

	contractx "taskchat/agent/contract"
	nodex "taskchat/agent/nodes"
	toolx "taskchat/agent/tool"
)

var (
	ErrInvalidOwner        = nodex.ErrInvalidOwner
	ErrInvalidConversation = nodex.ErrInvalidConversation
	ErrInvalidMessage      = nodex.ErrInvalidMessage
)

type Config struct {
	// ProviderTimeout bounds the single completion call per turn. A
	// timed-out call degrades into an error reply, never a hung turn.
	ProviderTimeout time.Duration
}

const defaultProviderTimeout = 30 * time.Second

// Orchestrator processes one chat turn end to end on a single logical
// worker: context reconstruction, one provider call, strictly sequential
// tool dispatch, reply synthesis. Turns for the same conversation are not
// serialized against each other.
type Orchestrator struct {
	source contractx.ContextSource
	model  einomodel.ToolCallingChatModel
	tools  contractx.ToolGateway

	graphRunner compose.Runnable[nodex.GraphInput, contractx.TurnResult]

	providerTimeout time.Duration
}

func New(
	source contractx.ContextSource,
	chatModel einomodel.ToolCallingChatModel,
	tools contractx.ToolGateway,
	cfg Config,
) (*Orchestrator, error) {
	if source == nil {
		return nil, errors.New("context source is required")
	}
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}

	toolModel, err := chatModel.WithTools(toolx.Catalog())
	if err != nil {
		return nil, err
	}

	timeout := cfg.ProviderTimeout
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}

	o := &Orchestrator{
		source:          source,
		model:           toolModel,
		tools:           tools,
		providerTimeout: timeout,
	}

	graphRunner, err := o.compileProcessMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// ProcessMessage runs one turn. The owner id must already be resolved by
// the caller's identity layer; it is never taken from the provider.
func (o *Orchestrator) ProcessMessage(
	ctx context.Context,
	ownerID, conversationID uuid.UUID,
	text string,
) (contractx.TurnResult, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		OwnerID:        ownerID,
		ConversationID: conversationID,
		Text:           text,
	})
	if err != nil {
		return contractx.TurnResult{}, err
	}
	return out, nil
}
