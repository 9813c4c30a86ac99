package orchestratornode

import (
	"fmt"
	"strings"

	contractx "taskchat/agent/contract"
)

const fallbackReply = "I processed your request."

// SynthesizeReply turns the provider output and the per-intent results into
// the final turn outcome. Fragment order is intent order; an unknown result
// shape renders as nothing rather than erroring the turn.
func SynthesizeReply(in *GraphState) (contractx.TurnResult, error) {
	if in == nil {
		return contractx.TurnResult{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if in.ProviderErr != nil {
		return contractx.TurnResult{
			Reply:     fmt.Sprintf("Sorry, I encountered an error processing your request: %v", in.ProviderErr),
			ToolCalls: []string{},
			Tasks:     []contractx.TaskView{},
			Results:   []contractx.ToolResult{},
		}, nil
	}

	if len(in.Calls) == 0 {
		reply := ""
		if in.ModelReply != nil {
			reply = strings.TrimSpace(in.ModelReply.Content)
		}
		if reply == "" {
			reply = fallbackReply
		}
		return contractx.TurnResult{
			Reply:     reply,
			ToolCalls: []string{},
			Tasks:     []contractx.TaskView{},
			Results:   []contractx.ToolResult{},
		}, nil
	}

	fragments := make([]string, 0, len(in.Results)+1)
	if lead := strings.TrimSpace(in.ModelReply.Content); lead != "" {
		fragments = append(fragments, lead)
	}

	toolCalls := make([]string, 0, len(in.Calls))
	for _, call := range in.Calls {
		toolCalls = append(toolCalls, call.Name)
	}

	tasks := make([]contractx.TaskView, 0, len(in.Results))
	for _, result := range in.Results {
		if fragment := renderFragment(result); fragment != "" {
			fragments = append(fragments, fragment)
		}
		switch {
		case result.IsTask():
			tasks = append(tasks, *result.Task)
		case result.IsList():
			tasks = append(tasks, result.List...)
		}
	}

	reply := strings.TrimSpace(strings.Join(fragments, " "))
	if reply == "" {
		reply = fallbackReply
	}

	return contractx.TurnResult{
		Reply:     reply,
		ToolCalls: toolCalls,
		Tasks:     tasks,
		Results:   in.Results,
	}, nil
}

func renderFragment(result contractx.ToolResult) string {
	switch {
	case result.IsFailure():
		return fmt.Sprintf("Error: %s", result.Err.Kind)
	case result.IsTask():
		return fmt.Sprintf("I have %s '%s' for you.", result.Task.Status, result.Task.Title)
	case result.IsList():
		return fmt.Sprintf("You have %d tasks in your list.", len(result.List))
	default:
		return ""
	}
}
