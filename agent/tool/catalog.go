// Package tool declares the fixed task-tool catalog and interprets the
// completion provider's tool calls against it.
package tool

import "github.com/cloudwego/eino/schema"

const (
	ToolAddTask      = "add_task"
	ToolListTasks    = "list_tasks"
	ToolCompleteTask = "complete_task"
	ToolDeleteTask   = "delete_task"
	ToolUpdateTask   = "update_task"
)

// Known reports whether name is one of the five declared tools.
func Known(name string) bool {
	switch name {
	case ToolAddTask, ToolListTasks, ToolCompleteTask, ToolDeleteTask, ToolUpdateTask:
		return true
	default:
		return false
	}
}

// Catalog returns the tool declarations announced to the completion
// provider. The user_id parameter is declared for schema completeness but
// its value is always overwritten with the authenticated owner before
// dispatch; a provider-supplied value never wins.
func Catalog() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolAddTask,
			Desc: "Create a new task for the user",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_id":     {Type: schema.String, Desc: "The user's unique identifier", Required: true},
				"title":       {Type: schema.String, Desc: "The title of the task to create", Required: true},
				"description": {Type: schema.String, Desc: "Optional detailed description of the task"},
			}),
		},
		{
			Name: ToolListTasks,
			Desc: "Get the user's tasks, optionally filtered by completion status",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_id": {Type: schema.String, Desc: "The user's unique identifier", Required: true},
				"status": {
					Type: schema.String,
					Desc: "Filter tasks by completion status (default: all)",
					Enum: []string{"all", "completed", "pending"},
				},
			}),
		},
		{
			Name: ToolCompleteTask,
			Desc: "Mark a task as completed",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_id": {Type: schema.String, Desc: "The user's unique identifier", Required: true},
				"task_id": {Type: schema.String, Desc: "The unique identifier of the task to complete", Required: true},
			}),
		},
		{
			Name: ToolDeleteTask,
			Desc: "Delete a task",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_id": {Type: schema.String, Desc: "The user's unique identifier", Required: true},
				"task_id": {Type: schema.String, Desc: "The unique identifier of the task to delete", Required: true},
			}),
		},
		{
			Name: ToolUpdateTask,
			Desc: "Update the details of a task",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_id":     {Type: schema.String, Desc: "The user's unique identifier", Required: true},
				"task_id":     {Type: schema.String, Desc: "The unique identifier of the task to update", Required: true},
				"title":       {Type: schema.String, Desc: "New title for the task (optional)"},
				"description": {Type: schema.String, Desc: "New description for the task (optional)"},
			}),
		},
	}
}
