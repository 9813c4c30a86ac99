package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	contractx "taskchat/agent/contract"
)

type fakeSource struct {
	context *contractx.ConversationContext
	err     error
	calls   int
}

func (f *fakeSource) Reconstruct(ctx context.Context, conversationID, ownerID uuid.UUID) (*contractx.ConversationContext, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	cc := *f.context
	cc.ConversationID = conversationID
	cc.OwnerID = ownerID
	return &cc, nil
}

type fakeChatModel struct {
	reply *schema.Message
	err   error
	delay time.Duration

	calls    int
	lastMsgs []*schema.Message
	tools    []*schema.ToolInfo
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.calls++
	f.lastMsgs = input
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeChatModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	f.tools = tools
	return f, nil
}

type fakeGateway struct {
	results []contractx.ToolResult
	intents []contractx.ToolIntent
}

func (f *fakeGateway) Dispatch(ctx context.Context, intent contractx.ToolIntent) contractx.ToolResult {
	f.intents = append(f.intents, intent)
	idx := len(f.intents) - 1
	if idx >= len(f.results) {
		return contractx.FailureResult("unknown_tool", "no fake result left")
	}
	return f.results[idx]
}

func toolCall(name, args string) schema.ToolCall {
	return schema.ToolCall{
		ID:   "call_" + name,
		Type: "function",
		Function: schema.FunctionCall{
			Name:      name,
			Arguments: args,
		},
	}
}

func newTestOrchestrator(t *testing.T, source contractx.ContextSource, model *fakeChatModel, tools contractx.ToolGateway, cfg Config) *Orchestrator {
	t.Helper()
	o, err := New(source, model, tools, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return o
}

func emptyContext() *contractx.ConversationContext {
	return &contractx.ConversationContext{}
}

func TestProcessMessageInvalidInput(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, &fakeSource{context: emptyContext()}, &fakeChatModel{reply: &schema.Message{Role: schema.Assistant}}, &fakeGateway{}, Config{})

	ownerID := uuid.New()
	conversationID := uuid.New()

	if _, err := o.ProcessMessage(context.Background(), uuid.Nil, conversationID, "hello"); !errors.Is(err, ErrInvalidOwner) {
		t.Fatalf("expected ErrInvalidOwner, got %v", err)
	}
	if _, err := o.ProcessMessage(context.Background(), ownerID, uuid.Nil, "hello"); !errors.Is(err, ErrInvalidConversation) {
		t.Fatalf("expected ErrInvalidConversation, got %v", err)
	}
	if _, err := o.ProcessMessage(context.Background(), ownerID, conversationID, "   "); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestProcessMessageConversationNotFound(t *testing.T) {
	t.Parallel()

	source := &fakeSource{err: contractx.ErrConversationNotFound}
	model := &fakeChatModel{reply: &schema.Message{Role: schema.Assistant}}
	o := newTestOrchestrator(t, source, model, &fakeGateway{}, Config{})

	_, err := o.ProcessMessage(context.Background(), uuid.New(), uuid.New(), "hello")
	if !errors.Is(err, contractx.ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
	if model.calls != 0 {
		t.Fatalf("expected no provider call, got %d", model.calls)
	}
}

func TestProcessMessageAddTaskFlow(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	source := &fakeSource{context: emptyContext()}
	model := &fakeChatModel{
		reply: &schema.Message{
			Role: schema.Assistant,
			ToolCalls: []schema.ToolCall{
				toolCall("add_task", `{"title":"Buy milk","user_id":"someone-else"}`),
			},
		},
	}
	taskID := uuid.New().String()
	tools := &fakeGateway{
		results: []contractx.ToolResult{
			contractx.TaskResult(contractx.TaskView{TaskID: taskID, Status: "created", Title: "Buy milk"}),
		},
	}

	o := newTestOrchestrator(t, source, model, tools, Config{})

	result, err := o.ProcessMessage(context.Background(), ownerID, uuid.New(), "Remind me to buy milk")
	if err != nil {
		t.Fatalf("ProcessMessage() error = %v", err)
	}

	if result.Reply != "I have created 'Buy milk' for you." {
		t.Fatalf("unexpected reply: %q", result.Reply)
	}
	if len(result.ToolCalls) != 1 || result.ToolCalls[0] != "add_task" {
		t.Fatalf("unexpected tool calls: %#v", result.ToolCalls)
	}
	if len(result.Tasks) != 1 || result.Tasks[0].TaskID != taskID {
		t.Fatalf("unexpected tasks: %#v", result.Tasks)
	}

	if len(tools.intents) != 1 {
		t.Fatalf("expected one dispatch, got %d", len(tools.intents))
	}
	if got := tools.intents[0].Args["user_id"]; got != ownerID.String() {
		t.Fatalf("expected injected user_id %q, got %v", ownerID.String(), got)
	}
	if tools.intents[0].Args["title"] != "Buy milk" {
		t.Fatalf("expected title preserved, got %v", tools.intents[0].Args["title"])
	}
	if len(model.tools) == 0 {
		t.Fatal("expected tool catalog bound to the model")
	}
}

func TestProcessMessagePartialFailureKeepsOrder(t *testing.T) {
	t.Parallel()

	source := &fakeSource{context: emptyContext()}
	model := &fakeChatModel{
		reply: &schema.Message{
			Role: schema.Assistant,
			ToolCalls: []schema.ToolCall{
				toolCall("complete_task", `{"task_id":"`+uuid.New().String()+`"}`),
				toolCall("add_task", `{"title":"Walk the dog"}`),
			},
		},
	}
	tools := &fakeGateway{
		results: []contractx.ToolResult{
			contractx.FailureResult("task_not_found", "Task not found or access denied"),
			contractx.TaskResult(contractx.TaskView{TaskID: uuid.New().String(), Status: "created", Title: "Walk the dog"}),
		},
	}

	o := newTestOrchestrator(t, source, model, tools, Config{})

	result, err := o.ProcessMessage(context.Background(), uuid.New(), uuid.New(), "finish the old one and add walking the dog")
	if err != nil {
		t.Fatalf("ProcessMessage() error = %v", err)
	}

	if result.Reply != "Error: task_not_found I have created 'Walk the dog' for you." {
		t.Fatalf("unexpected reply: %q", result.Reply)
	}
	if len(tools.intents) != 2 {
		t.Fatalf("expected both intents dispatched, got %d", len(tools.intents))
	}
	if tools.intents[0].Name != "complete_task" || tools.intents[1].Name != "add_task" {
		t.Fatalf("dispatch order lost: %#v", tools.intents)
	}
	if len(result.Results) != 2 || !result.Results[0].IsFailure() || !result.Results[1].IsTask() {
		t.Fatalf("unexpected results: %#v", result.Results)
	}
}

func TestProcessMessageMalformedCallStillDispatchesSiblings(t *testing.T) {
	t.Parallel()

	source := &fakeSource{context: emptyContext()}
	model := &fakeChatModel{
		reply: &schema.Message{
			Role: schema.Assistant,
			ToolCalls: []schema.ToolCall{
				toolCall("add_task", `{"title": not-json`),
				toolCall("list_tasks", `{}`),
			},
		},
	}
	tools := &fakeGateway{
		results: []contractx.ToolResult{
			contractx.ListResult([]contractx.TaskView{}),
		},
	}

	o := newTestOrchestrator(t, source, model, tools, Config{})

	result, err := o.ProcessMessage(context.Background(), uuid.New(), uuid.New(), "add it and show my list")
	if err != nil {
		t.Fatalf("ProcessMessage() error = %v", err)
	}

	if result.Reply != "Error: tool_dispatch_error You have 0 tasks in your list." {
		t.Fatalf("unexpected reply: %q", result.Reply)
	}
	if len(tools.intents) != 1 || tools.intents[0].Name != "list_tasks" {
		t.Fatalf("expected only list_tasks dispatched, got %#v", tools.intents)
	}
	if len(result.ToolCalls) != 2 || result.ToolCalls[0] != "add_task" || result.ToolCalls[1] != "list_tasks" {
		t.Fatalf("unexpected tool calls: %#v", result.ToolCalls)
	}
}

func TestProcessMessageProviderTimeout(t *testing.T) {
	t.Parallel()

	source := &fakeSource{context: emptyContext()}
	model := &fakeChatModel{
		reply: &schema.Message{Role: schema.Assistant},
		delay: 200 * time.Millisecond,
	}
	tools := &fakeGateway{}

	o := newTestOrchestrator(t, source, model, tools, Config{ProviderTimeout: 10 * time.Millisecond})

	result, err := o.ProcessMessage(context.Background(), uuid.New(), uuid.New(), "hello")
	if err != nil {
		t.Fatalf("ProcessMessage() error = %v", err)
	}

	if !strings.HasPrefix(result.Reply, "Sorry, I encountered an error processing your request:") {
		t.Fatalf("unexpected reply: %q", result.Reply)
	}
	if len(result.ToolCalls) != 0 || len(result.Tasks) != 0 {
		t.Fatalf("expected empty tool calls and tasks, got %#v / %#v", result.ToolCalls, result.Tasks)
	}
	if len(tools.intents) != 0 {
		t.Fatalf("expected no dispatch after provider failure, got %d", len(tools.intents))
	}
}

func TestProcessMessageNoToolCalls(t *testing.T) {
	t.Parallel()

	source := &fakeSource{context: emptyContext()}
	model := &fakeChatModel{
		reply: &schema.Message{Role: schema.Assistant, Content: "Hello! How can I help with your tasks?"},
	}

	o := newTestOrchestrator(t, source, model, &fakeGateway{}, Config{})

	result, err := o.ProcessMessage(context.Background(), uuid.New(), uuid.New(), "hi")
	if err != nil {
		t.Fatalf("ProcessMessage() error = %v", err)
	}
	if result.Reply != "Hello! How can I help with your tasks?" {
		t.Fatalf("unexpected reply: %q", result.Reply)
	}
	if len(result.ToolCalls) != 0 {
		t.Fatalf("expected no tool calls, got %#v", result.ToolCalls)
	}
}

func TestProcessMessageFallbackReply(t *testing.T) {
	t.Parallel()

	source := &fakeSource{context: emptyContext()}
	model := &fakeChatModel{reply: &schema.Message{Role: schema.Assistant, Content: "   "}}

	o := newTestOrchestrator(t, source, model, &fakeGateway{}, Config{})

	result, err := o.ProcessMessage(context.Background(), uuid.New(), uuid.New(), "hmm")
	if err != nil {
		t.Fatalf("ProcessMessage() error = %v", err)
	}
	if result.Reply != "I processed your request." {
		t.Fatalf("unexpected reply: %q", result.Reply)
	}
}

func TestProcessMessageHistoryTruncation(t *testing.T) {
	t.Parallel()

	history := make([]contractx.Message, 0, 12)
	for i := 0; i < 12; i++ {
		role := contractx.RoleUser
		if i%2 == 1 {
			role = contractx.RoleAssistant
		}
		history = append(history, contractx.Message{
			Role:    role,
			Content: "history message " + string(rune('a'+i)),
		})
	}

	source := &fakeSource{context: &contractx.ConversationContext{Messages: history}}
	model := &fakeChatModel{reply: &schema.Message{Role: schema.Assistant, Content: "ok"}}

	o := newTestOrchestrator(t, source, model, &fakeGateway{}, Config{})

	if _, err := o.ProcessMessage(context.Background(), uuid.New(), uuid.New(), "latest"); err != nil {
		t.Fatalf("ProcessMessage() error = %v", err)
	}

	// system + 10 most recent history + new user message
	if len(model.lastMsgs) != 12 {
		t.Fatalf("expected 12 prompt messages, got %d", len(model.lastMsgs))
	}
	for _, msg := range model.lastMsgs {
		if msg.Content == "history message a" || msg.Content == "history message b" {
			t.Fatalf("oldest history leaked into prompt: %q", msg.Content)
		}
	}
	if got := model.lastMsgs[1].Content; got != "history message c" {
		t.Fatalf("expected truncated history to start at third message, got %q", got)
	}
	if last := model.lastMsgs[len(model.lastMsgs)-1]; last.Content != "latest" || last.Role != schema.User {
		t.Fatalf("expected new user message last, got %#v", last)
	}
}

func TestProcessMessageTaskSnapshotInPrompt(t *testing.T) {
	t.Parallel()

	source := &fakeSource{context: &contractx.ConversationContext{
		Tasks: []contractx.Task{
			{Title: "Buy milk", Completed: false},
			{Title: "Ship release", Completed: true},
		},
	}}
	model := &fakeChatModel{reply: &schema.Message{Role: schema.Assistant, Content: "ok"}}

	o := newTestOrchestrator(t, source, model, &fakeGateway{}, Config{})

	if _, err := o.ProcessMessage(context.Background(), uuid.New(), uuid.New(), "what do I have?"); err != nil {
		t.Fatalf("ProcessMessage() error = %v", err)
	}

	// system + snapshot + new user message
	if len(model.lastMsgs) != 3 {
		t.Fatalf("expected 3 prompt messages, got %d", len(model.lastMsgs))
	}
	snapshot := model.lastMsgs[1]
	if snapshot.Role != schema.System {
		t.Fatalf("expected snapshot as system message, got %v", snapshot.Role)
	}
	if !strings.Contains(snapshot.Content, "1. [○] Buy milk") || !strings.Contains(snapshot.Content, "2. [✓] Ship release") {
		t.Fatalf("unexpected snapshot: %q", snapshot.Content)
	}
}
