// Package gateway exposes the task-mutation operations as a fixed set of
// named, schema-validated tool operations. Identifier and argument
// validation happens here, before any store round-trip; ownership is then
// enforced again by the store queries themselves.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "taskchat/agent/contract"
	toolx "taskchat/agent/tool"
)

// Failure kinds carried in ToolResult errors.
const (
	KindInvalidUUID     = "invalid_uuid"
	KindValidationError = "validation_error"
	KindTaskNotFound    = "task_not_found"
	KindUnknownTool     = "unknown_tool"
)

// Service dispatches validated tool intents against the task store. All
// five operations are independent and safe to retry individually, except
// add_task which creates a new task on every call.
type Service struct {
	tasks contractx.TaskStore
}

var _ contractx.ToolGateway = (*Service)(nil)

func NewService(tasks contractx.TaskStore) (*Service, error) {
	if tasks == nil {
		return nil, errors.New("task store is required")
	}
	return &Service{tasks: tasks}, nil
}

func (s *Service) Dispatch(ctx context.Context, intent contractx.ToolIntent) contractx.ToolResult {
	var result contractx.ToolResult
	switch intent.Name {
	case toolx.ToolAddTask:
		result = s.addTask(ctx, intent.Args)
	case toolx.ToolListTasks:
		result = s.listTasks(ctx, intent.Args)
	case toolx.ToolCompleteTask:
		result = s.completeTask(ctx, intent.Args)
	case toolx.ToolDeleteTask:
		result = s.deleteTask(ctx, intent.Args)
	case toolx.ToolUpdateTask:
		result = s.updateTask(ctx, intent.Args)
	default:
		result = contractx.FailureResult(KindUnknownTool, fmt.Sprintf("unknown tool %q", intent.Name))
	}

	if result.IsFailure() {
		log.Debug().Str("tool", intent.Name).Str("error", result.Err.Kind).Msg("tool dispatch failed")
	}
	return result
}

func (s *Service) addTask(ctx context.Context, args map[string]any) contractx.ToolResult {
	ownerID, ok := ownerArg(args)
	if !ok {
		return contractx.FailureResult(KindInvalidUUID, "Invalid user_id format")
	}

	title := strings.TrimSpace(stringArg(args, "title"))
	if title == "" {
		return contractx.FailureResult(KindValidationError, "Title is required")
	}
	description := optionalStringArg(args, "description")

	task, err := s.tasks.CreateTask(ctx, ownerID, title, description)
	if err != nil {
		return storeFailure("add_task_failed", err)
	}

	return contractx.TaskResult(contractx.TaskView{
		TaskID:      task.ID.String(),
		Status:      "created",
		Title:       task.Title,
		Description: task.Description,
	})
}

func (s *Service) listTasks(ctx context.Context, args map[string]any) contractx.ToolResult {
	ownerID, ok := ownerArg(args)
	if !ok {
		return contractx.FailureResult(KindInvalidUUID, "Invalid user_id format")
	}

	var completed *bool
	switch status := strings.TrimSpace(stringArg(args, "status")); status {
	case "", "all":
	case "completed":
		v := true
		completed = &v
	case "pending":
		v := false
		completed = &v
	default:
		return contractx.FailureResult(KindValidationError, "Status must be 'all', 'completed', or 'pending'")
	}

	tasks, err := s.tasks.ListTasks(ctx, ownerID, completed)
	if err != nil {
		return storeFailure("list_tasks_failed", err)
	}

	views := make([]contractx.TaskView, 0, len(tasks))
	for _, task := range tasks {
		status := "pending"
		if task.Completed {
			status = "completed"
		}
		views = append(views, contractx.TaskView{
			TaskID:      task.ID.String(),
			Status:      status,
			Title:       task.Title,
			Description: task.Description,
		})
	}
	return contractx.ListResult(views)
}

func (s *Service) completeTask(ctx context.Context, args map[string]any) contractx.ToolResult {
	ownerID, taskID, ok := taskArgs(args)
	if !ok {
		return contractx.FailureResult(KindInvalidUUID, "Invalid user_id or task_id format")
	}

	done := true
	task, err := s.tasks.UpdateTask(ctx, taskID, ownerID, contractx.TaskPatch{Completed: &done})
	if err != nil {
		return storeFailure("complete_task_failed", err)
	}

	return contractx.TaskResult(contractx.TaskView{
		TaskID:      task.ID.String(),
		Status:      "completed",
		Title:       task.Title,
		Description: task.Description,
	})
}

func (s *Service) deleteTask(ctx context.Context, args map[string]any) contractx.ToolResult {
	ownerID, taskID, ok := taskArgs(args)
	if !ok {
		return contractx.FailureResult(KindInvalidUUID, "Invalid user_id or task_id format")
	}

	// Fetch first so the confirmation can name the deleted task.
	task, err := s.tasks.GetTask(ctx, taskID, ownerID)
	if err != nil {
		return storeFailure("delete_task_failed", err)
	}

	if err := s.tasks.DeleteTask(ctx, taskID, ownerID); err != nil {
		return storeFailure("delete_task_failed", err)
	}

	return contractx.TaskResult(contractx.TaskView{
		TaskID:      task.ID.String(),
		Status:      "deleted",
		Title:       task.Title,
		Description: task.Description,
	})
}

func (s *Service) updateTask(ctx context.Context, args map[string]any) contractx.ToolResult {
	ownerID, taskID, ok := taskArgs(args)
	if !ok {
		return contractx.FailureResult(KindInvalidUUID, "Invalid user_id or task_id format")
	}

	title := optionalStringArg(args, "title")
	description := optionalStringArg(args, "description")
	if title == nil && description == nil {
		return contractx.FailureResult(KindValidationError,
			"At least one field (title or description) must be provided for update")
	}

	task, err := s.tasks.UpdateTask(ctx, taskID, ownerID, contractx.TaskPatch{
		Title:       title,
		Description: description,
	})
	if err != nil {
		return storeFailure("update_task_failed", err)
	}

	return contractx.TaskResult(contractx.TaskView{
		TaskID:      task.ID.String(),
		Status:      "updated",
		Title:       task.Title,
		Description: task.Description,
	})
}

func storeFailure(fallbackKind string, err error) contractx.ToolResult {
	switch {
	case errors.Is(err, contractx.ErrTaskNotFound):
		return contractx.FailureResult(KindTaskNotFound, "Task not found or access denied")
	case errors.Is(err, contractx.ErrValidation):
		return contractx.FailureResult(KindValidationError, err.Error())
	default:
		return contractx.FailureResult(fallbackKind, err.Error())
	}
}

func stringArg(args map[string]any, key string) string {
	if raw, ok := args[key]; ok {
		if s, ok := raw.(string); ok {
			return s
		}
	}
	return ""
}

func optionalStringArg(args map[string]any, key string) *string {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil
	}
	return &s
}

func ownerArg(args map[string]any) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(stringArg(args, "user_id")))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func taskArgs(args map[string]any) (ownerID, taskID uuid.UUID, ok bool) {
	ownerID, ok = ownerArg(args)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	taskID, err := uuid.Parse(strings.TrimSpace(stringArg(args, "task_id")))
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	return ownerID, taskID, true
}
