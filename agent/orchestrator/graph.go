package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "taskchat/agent/contract"
	nodex "taskchat/agent/nodes"
)

func (o *Orchestrator) compileProcessMessageGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, contractx.TurnResult], error) {
	graph := compose.NewGraph[nodex.GraphInput, contractx.TurnResult]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("reconstruct_context",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ReconstructContext(ctx, in, o.source)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node reconstruct_context: %w", err)
	}

	if err := graph.AddLambdaNode("build_prompt",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.BuildPrompt(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node build_prompt: %w", err)
	}

	if err := graph.AddLambdaNode("invoke_model",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.InvokeModel(ctx, in, o.model, o.providerTimeout)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node invoke_model: %w", err)
	}

	if err := graph.AddLambdaNode("dispatch_intents",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.DispatchIntents(ctx, in, o.tools)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node dispatch_intents: %w", err)
	}

	if err := graph.AddLambdaNode("synthesize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (contractx.TurnResult, error) {
			return nodex.SynthesizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node synthesize_reply: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "reconstruct_context"},
		{"reconstruct_context", "build_prompt"},
		{"build_prompt", "invoke_model"},
		{"invoke_model", "dispatch_intents"},
		{"dispatch_intents", "synthesize_reply"},
		{"synthesize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.process_message"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
