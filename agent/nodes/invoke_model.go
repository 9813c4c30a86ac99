package orchestratornode

import (
	"context"
	"fmt"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"

	contractx "taskchat/agent/contract"
	toolx "taskchat/agent/tool"
)

// InvokeModel calls the completion provider once with automatic
// tool-choice. A provider failure (timeout, malformed output) is captured
// on the state instead of failing the graph: the turn degrades to an error
// reply but the conversation survives.
func InvokeModel(
	ctx context.Context,
	in *GraphState,
	chatModel einomodel.BaseChatModel,
	timeout time.Duration,
) (*GraphState, error) {
	if in == nil || len(in.Messages) == 0 {
		return nil, fmt.Errorf("%w: prompt messages are missing", contractx.ErrValidation)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	reply, err := chatModel.Generate(ctx, in.Messages)
	if err != nil {
		in.ProviderErr = fmt.Errorf("%w: %v", contractx.ErrProviderUnavailable, err)
		return in, nil
	}
	if reply == nil {
		in.ProviderErr = fmt.Errorf("%w: provider returned no message", contractx.ErrProviderUnavailable)
		return in, nil
	}

	in.ModelReply = reply
	in.Calls = toolx.ParseToolCalls(reply.ToolCalls)
	return in, nil
}
