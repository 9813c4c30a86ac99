package orchestratornode

import (
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "taskchat/agent/contract"
	promptx "taskchat/agent/prompt"
)

// historyWindow bounds how much conversation history is replayed to the
// provider. Truncation drops the oldest messages first.
const historyWindow = 10

// BuildPrompt assembles the bounded message sequence for the provider:
// fixed system instruction, task snapshot (if any), the most recent
// history oldest-first, then the new user message.
func BuildPrompt(in *GraphState) (*GraphState, error) {
	if in == nil || in.Context == nil {
		return nil, fmt.Errorf("%w: conversation context is missing", contractx.ErrValidation)
	}

	messages := []*schema.Message{
		schema.SystemMessage(promptx.System()),
	}

	if snapshot := promptx.TaskSnapshot(in.Context.Tasks); snapshot != "" {
		messages = append(messages, schema.SystemMessage(snapshot))
	}

	history := in.Context.Messages
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, msg := range history {
		switch msg.Role {
		case contractx.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(msg.Content, nil))
		default:
			messages = append(messages, schema.UserMessage(msg.Content))
		}
	}

	messages = append(messages, schema.UserMessage(in.Text))

	in.Messages = messages
	return in, nil
}
