package convo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	contractx "taskchat/agent/contract"
)

type fakeConversations struct {
	conversation *contractx.Conversation
	messages     []contractx.Message
	getErr       error
	listErr      error
}

func (f *fakeConversations) CreateConversation(ctx context.Context, ownerID uuid.UUID) (*contractx.Conversation, error) {
	return nil, errors.New("not used")
}

func (f *fakeConversations) GetConversation(ctx context.Context, conversationID, ownerID uuid.UUID) (*contractx.Conversation, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.conversation, nil
}

func (f *fakeConversations) ListConversations(ctx context.Context, ownerID uuid.UUID) ([]contractx.Conversation, error) {
	return nil, errors.New("not used")
}

func (f *fakeConversations) ListMessages(ctx context.Context, conversationID, ownerID uuid.UUID) ([]contractx.Message, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.messages, nil
}

func (f *fakeConversations) AppendMessage(ctx context.Context, conversationID, ownerID uuid.UUID, role contractx.Role, content string) (*contractx.Message, error) {
	return nil, errors.New("not used")
}

type fakeTasks struct {
	tasks   []contractx.Task
	listErr error

	lastCompleted *bool
	listCalls     int
}

func (f *fakeTasks) CreateTask(ctx context.Context, ownerID uuid.UUID, title string, description *string) (*contractx.Task, error) {
	return nil, errors.New("not used")
}

func (f *fakeTasks) ListTasks(ctx context.Context, ownerID uuid.UUID, completed *bool) ([]contractx.Task, error) {
	f.listCalls++
	f.lastCompleted = completed
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tasks, nil
}

func (f *fakeTasks) GetTask(ctx context.Context, taskID, ownerID uuid.UUID) (*contractx.Task, error) {
	return nil, errors.New("not used")
}

func (f *fakeTasks) UpdateTask(ctx context.Context, taskID, ownerID uuid.UUID, patch contractx.TaskPatch) (*contractx.Task, error) {
	return nil, errors.New("not used")
}

func (f *fakeTasks) DeleteTask(ctx context.Context, taskID, ownerID uuid.UUID) error {
	return errors.New("not used")
}

func TestReconstructorNilStores(t *testing.T) {
	t.Parallel()

	if _, err := NewReconstructor(nil, &fakeTasks{}); err == nil {
		t.Fatal("expected error for nil conversation store")
	}
	if _, err := NewReconstructor(&fakeConversations{}, nil); err == nil {
		t.Fatal("expected error for nil task store")
	}
}

func TestReconstructAssemblesContext(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	conversationID := uuid.New()
	convos := &fakeConversations{
		conversation: &contractx.Conversation{ID: conversationID, OwnerID: ownerID},
		messages: []contractx.Message{
			{Role: contractx.RoleUser, Content: "add milk"},
			{Role: contractx.RoleAssistant, Content: "I have created 'Buy milk' for you."},
		},
	}
	tasks := &fakeTasks{tasks: []contractx.Task{{Title: "Buy milk", OwnerID: ownerID}}}

	r, err := NewReconstructor(convos, tasks)
	if err != nil {
		t.Fatalf("NewReconstructor() error = %v", err)
	}

	cc, err := r.Reconstruct(context.Background(), conversationID, ownerID)
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}

	if cc.ConversationID != conversationID || cc.OwnerID != ownerID {
		t.Fatalf("unexpected ids: %#v", cc)
	}
	if len(cc.Messages) != 2 || len(cc.Tasks) != 1 {
		t.Fatalf("unexpected context: %#v", cc)
	}
	if tasks.lastCompleted != nil {
		t.Fatal("task snapshot must be unfiltered")
	}
	if tasks.listCalls != 1 {
		t.Fatalf("expected one task listing, got %d", tasks.listCalls)
	}
}

func TestReconstructNotFoundPassesThrough(t *testing.T) {
	t.Parallel()

	convos := &fakeConversations{getErr: contractx.ErrConversationNotFound}
	r, err := NewReconstructor(convos, &fakeTasks{})
	if err != nil {
		t.Fatalf("NewReconstructor() error = %v", err)
	}

	_, err = r.Reconstruct(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, contractx.ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}
