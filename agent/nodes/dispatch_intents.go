package orchestratornode

import (
	"context"
	"fmt"

	contractx "taskchat/agent/contract"
)

const kindDispatchError = "tool_dispatch_error"

// DispatchIntents executes the parsed tool calls strictly in provider
// order, one at a time. Each dispatch is independent: a failure is recorded
// as that intent's result and the remaining intents still run. The
// authenticated owner is injected as user_id on every intent, overriding
// anything the provider generated.
func DispatchIntents(
	ctx context.Context,
	in *GraphState,
	tools contractx.ToolGateway,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.ProviderErr != nil || len(in.Calls) == 0 {
		return in, nil
	}

	results := make([]contractx.ToolResult, 0, len(in.Calls))
	for _, call := range in.Calls {
		if call.Err != nil {
			results = append(results, contractx.FailureResult(kindDispatchError, call.Err.Error()))
			continue
		}

		intent := call.Intent
		if intent.Args == nil {
			intent.Args = map[string]any{}
		}
		intent.Args["user_id"] = in.OwnerID.String()

		results = append(results, tools.Dispatch(ctx, intent))
	}

	in.Results = results
	return in, nil
}
