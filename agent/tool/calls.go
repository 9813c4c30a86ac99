package tool

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "taskchat/agent/contract"
)

// Call is one provider tool call after interpretation. A call whose name is
// unknown or whose argument JSON does not parse carries Err instead of a
// usable Intent; it still occupies its slot so sibling calls keep their
// order and their outcomes.
type Call struct {
	// Name is the provider's tool name as given, kept even for malformed
	// calls so the turn can report every call it attempted.
	Name   string
	Intent contractx.ToolIntent
	Err    error
}

// ParseToolCalls interprets the provider's raw tool calls in the order
// returned. It never fails the whole batch: a malformed call becomes a
// per-call ErrToolDispatch.
func ParseToolCalls(calls []schema.ToolCall) []Call {
	if len(calls) == 0 {
		return nil
	}

	out := make([]Call, 0, len(calls))
	for _, call := range calls {
		name := strings.TrimSpace(call.Function.Name)
		if name == "" {
			out = append(out, Call{Err: fmt.Errorf("%w: tool call name is empty", contractx.ErrToolDispatch)})
			continue
		}
		if !Known(name) {
			out = append(out, Call{Name: name, Err: fmt.Errorf("%w: unknown tool %q", contractx.ErrToolDispatch, name)})
			continue
		}

		args := map[string]any{}
		rawArgs := strings.TrimSpace(call.Function.Arguments)
		if rawArgs != "" {
			if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
				out = append(out, Call{Name: name, Err: fmt.Errorf("%w: invalid args for tool=%s: %v", contractx.ErrToolDispatch, name, err)})
				continue
			}
		}

		out = append(out, Call{Name: name, Intent: contractx.ToolIntent{Name: name, Args: args}})
	}
	return out
}
