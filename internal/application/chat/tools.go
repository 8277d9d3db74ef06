package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/tasktrack/platform/internal/domain"
)

// Tool names the agent is allowed to call, each forwarding to task.Service
// with userID pre-bound so the model can never act outside the caller's
// own tasks.
const (
	toolAddTask             = "add_task"
	toolListTasks           = "list_tasks"
	toolCompleteTask        = "complete_task"
	toolDeleteTask          = "delete_task"
	toolUpdateTask          = "update_task"
	toolBulkUpdateTasks     = "bulk_update_tasks"
	toolSetPriority         = "set_priority"
	toolListTasksByPriority = "list_tasks_by_priority"
)

// toolDefinitions returns the JSON-schema tool declarations sent with every
// message, grounding the model's available actions to exactly the eight
// task operations it is allowed to invoke.
func toolDefinitions() []anthropic.ToolUnionUnionParam {
	str := map[string]any{"type": "string"}
	return []anthropic.ToolUnionUnionParam{
		tool(toolAddTask, "Create a new task for the user.", map[string]any{
			"title":       str,
			"description": str,
			"priority":    map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
		}, "title"),
		tool(toolListTasks, "List the user's tasks, optionally filtered by status.", map[string]any{
			"status": map[string]any{"type": "string", "enum": []string{"all", "pending", "completed"}},
		}),
		tool(toolCompleteTask, "Mark a task complete.", map[string]any{
			"task_id": str,
		}, "task_id"),
		tool(toolDeleteTask, "Delete a task.", map[string]any{
			"task_id": str,
		}, "task_id"),
		tool(toolUpdateTask, "Update a task's title or description. The priority argument is ignored; use set_priority to change priority.", map[string]any{
			"task_id":     str,
			"title":       str,
			"description": str,
			"priority":    map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
		}, "task_id"),
		tool(toolBulkUpdateTasks, "Complete or delete every task matching a status filter.", map[string]any{
			"action":        map[string]any{"type": "string", "enum": []string{"complete", "delete"}},
			"filter_status": map[string]any{"type": "string", "enum": []string{"all", "pending", "completed"}},
		}, "action", "filter_status"),
		tool(toolSetPriority, "Set a task's priority.", map[string]any{
			"task_id":  str,
			"priority": map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
		}, "task_id", "priority"),
		tool(toolListTasksByPriority, "List tasks at a given priority, optionally filtered by status.", map[string]any{
			"priority": map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
			"status":   map[string]any{"type": "string", "enum": []string{"all", "pending", "completed"}},
		}, "priority"),
	}
}

func tool(name, description string, properties map[string]any, required ...string) anthropic.ToolUnionUnionParam {
	return anthropic.ToolParam{
		Name:        anthropic.F(name),
		Description: anthropic.F(description),
		InputSchema: anthropic.F(anthropic.ToolInputSchemaParam{
			Type:       anthropic.F(anthropic.ToolInputSchemaTypeObject),
			Properties: anthropic.F[any](properties),
			Required:   anthropic.F(required),
		}),
	}
}

// TaskTools is the subset of task.Service the agent's tool calls can
// invoke, narrowed to exactly the operations the eight tools above need.
type TaskTools interface {
	Create(ctx context.Context, userID, title, description string, dueDate *time.Time, tags []string) (domain.Task, error)
	ListAll(ctx context.Context, userID string) ([]domain.Task, error)
	Update(ctx context.Context, userID, id string, patch domain.TaskPatch) (domain.Task, error)
	MarkComplete(ctx context.Context, userID, id string) (domain.Task, error)
	Delete(ctx context.Context, userID, id string) error
}

// Dispatcher executes one resolved tool call against TaskTools, with
// userID fixed for the lifetime of a single chat turn.
type Dispatcher struct {
	tasks TaskTools
}

// NewDispatcher wires a Dispatcher against the Task Store.
func NewDispatcher(tasks TaskTools) *Dispatcher {
	return &Dispatcher{tasks: tasks}
}

// Dispatch runs name with input (the tool call's raw JSON arguments) on
// behalf of userID and returns the string to send back as the tool result.
// Errors are returned as plain text too — the model is meant to see and
// recover from a bad task_id, not hear a transport-level failure.
func (d *Dispatcher) Dispatch(ctx context.Context, userID, name string, input json.RawMessage) (string, error) {
	switch name {
	case toolAddTask:
		return d.addTask(ctx, userID, input)
	case toolListTasks:
		return d.listTasks(ctx, userID, input)
	case toolCompleteTask:
		return d.completeTask(ctx, userID, input)
	case toolDeleteTask:
		return d.deleteTask(ctx, userID, input)
	case toolUpdateTask:
		return d.updateTask(ctx, userID, input)
	case toolBulkUpdateTasks:
		return d.bulkUpdateTasks(ctx, userID, input)
	case toolSetPriority:
		return d.setPriority(ctx, userID, input)
	case toolListTasksByPriority:
		return d.listTasksByPriority(ctx, userID, input)
	default:
		return "", fmt.Errorf("chat: unknown tool %q", name)
	}
}

// classifyKeywordPriority maps the agent's free-text priority hint onto
// the closed task priority vocabulary, mirroring the keyword rule the agent's own instructions describe:
// urgent/critical/asap/high -> HIGH, low/minor/optional -> LOW, else MEDIUM.
func classifyKeywordPriority(hint string) domain.TaskPriority {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "high", "urgent", "critical", "asap":
		return domain.PriorityHigh
	case "low", "minor", "optional":
		return domain.PriorityLow
	default:
		return domain.PriorityMedium
	}
}

func (d *Dispatcher) addTask(ctx context.Context, userID string, input json.RawMessage) (string, error) {
	var args struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("chat: decode add_task input: %w", err)
	}
	// Priority is derived from title/due-date (domain.ClassifyPriority), not
	// directly settable; the agent's priority argument is decoded but not
	// used.
	t, err := d.tasks.Create(ctx, userID, args.Title, args.Description, nil, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Created task %q (id=%s, priority=%s)", t.Title, t.ID, t.Priority), nil
}

func (d *Dispatcher) listTasks(ctx context.Context, userID string, input json.RawMessage) (string, error) {
	status := statusFilter(input)
	tasks, err := d.tasks.ListAll(ctx, userID)
	if err != nil {
		return "", err
	}
	return formatTaskList(filterByStatus(tasks, status)), nil
}

func (d *Dispatcher) completeTask(ctx context.Context, userID string, input json.RawMessage) (string, error) {
	var args struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("chat: decode complete_task input: %w", err)
	}
	t, err := d.tasks.MarkComplete(ctx, userID, args.TaskID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Marked %q complete", t.Title), nil
}

func (d *Dispatcher) deleteTask(ctx context.Context, userID string, input json.RawMessage) (string, error) {
	var args struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("chat: decode delete_task input: %w", err)
	}
	if err := d.tasks.Delete(ctx, userID, args.TaskID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Deleted task %s", args.TaskID), nil
}

func (d *Dispatcher) updateTask(ctx context.Context, userID string, input json.RawMessage) (string, error) {
	var args struct {
		TaskID      string  `json:"task_id"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("chat: decode update_task input: %w", err)
	}
	mask := map[domain.TaskPatchField]bool{}
	patch := domain.TaskPatch{Mask: mask}
	if args.Title != nil {
		mask[domain.PatchTitle] = true
		patch.Title = *args.Title
	}
	if args.Description != nil {
		mask[domain.PatchDescription] = true
		patch.Description = *args.Description
	}
	if len(mask) == 0 {
		return "", fmt.Errorf("chat: update_task requires at least one field to change")
	}
	t, err := d.tasks.Update(ctx, userID, args.TaskID, patch)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Updated task %q", t.Title), nil
}

func (d *Dispatcher) bulkUpdateTasks(ctx context.Context, userID string, input json.RawMessage) (string, error) {
	var args struct {
		Action       string `json:"action"`
		FilterStatus string `json:"filter_status"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("chat: decode bulk_update_tasks input: %w", err)
	}
	tasks, err := d.tasks.ListAll(ctx, userID)
	if err != nil {
		return "", err
	}
	targets := filterByStatus(tasks, statusFromString(args.FilterStatus))

	count := 0
	for _, t := range targets {
		switch args.Action {
		case "complete":
			if _, err := d.tasks.MarkComplete(ctx, userID, t.ID); err != nil {
				return "", err
			}
		case "delete":
			if err := d.tasks.Delete(ctx, userID, t.ID); err != nil {
				return "", err
			}
		default:
			return "", fmt.Errorf("chat: unknown bulk action %q", args.Action)
		}
		count++
	}
	verb := "Completed"
	if args.Action == "delete" {
		verb = "Deleted"
	}
	return fmt.Sprintf("%s %d task(s)", verb, count), nil
}

// setPriority has no direct priority field to patch — priority is derived
// from title/due_date (domain.ClassifyPriority) — so it nudges the due_date
// into the window that classifies to the requested tier: ~12h out for
// high, ~3 days out for medium, and clearing the due date for low (absent
// an urgent-keyword title, that classifies LOW).
func (d *Dispatcher) setPriority(ctx context.Context, userID string, input json.RawMessage) (string, error) {
	var args struct {
		TaskID   string `json:"task_id"`
		Priority string `json:"priority"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("chat: decode set_priority input: %w", err)
	}

	mask := map[domain.TaskPatchField]bool{domain.PatchDueDate: true}
	patch := domain.TaskPatch{Mask: mask}
	switch classifyKeywordPriority(args.Priority) {
	case domain.PriorityHigh:
		due := time.Now().UTC().Add(12 * time.Hour)
		patch.DueDate = &due
	case domain.PriorityLow:
		patch.DueDate = nil
	default:
		due := time.Now().UTC().Add(3 * 24 * time.Hour)
		patch.DueDate = &due
	}

	t, err := d.tasks.Update(ctx, userID, args.TaskID, patch)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Task %q now has priority %s", t.Title, t.Priority), nil
}

func (d *Dispatcher) listTasksByPriority(ctx context.Context, userID string, input json.RawMessage) (string, error) {
	var args struct {
		Priority string `json:"priority"`
		Status   string `json:"status"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", fmt.Errorf("chat: decode list_tasks_by_priority input: %w", err)
	}
	tasks, err := d.tasks.ListAll(ctx, userID)
	if err != nil {
		return "", err
	}
	priority := classifyKeywordPriority(args.Priority)
	filtered := filterByStatus(tasks, statusFromString(args.Status))
	var out []domain.Task
	for _, t := range filtered {
		if t.Priority == priority {
			out = append(out, t)
		}
	}
	return formatTaskList(out), nil
}

type statusKind int

const (
	statusAll statusKind = iota
	statusPending
	statusCompleted
)

func statusFilter(input json.RawMessage) statusKind {
	var args struct {
		Status string `json:"status"`
	}
	_ = json.Unmarshal(input, &args)
	return statusFromString(args.Status)
}

func statusFromString(s string) statusKind {
	switch s {
	case "completed":
		return statusCompleted
	case "pending":
		return statusPending
	default:
		return statusAll
	}
}

func filterByStatus(tasks []domain.Task, status statusKind) []domain.Task {
	if status == statusAll {
		return tasks
	}
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if (status == statusCompleted) == t.IsCompleted {
			out = append(out, t)
		}
	}
	return out
}

func formatTaskList(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return "No tasks match."
	}
	var b strings.Builder
	for _, t := range tasks {
		state := "pending"
		if t.IsCompleted {
			state = "completed"
		}
		fmt.Fprintf(&b, "- [%s] %s (id=%s, priority=%s)\n", state, t.Title, t.ID, t.Priority)
	}
	return b.String()
}
