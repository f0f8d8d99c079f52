package domain

import (
	"fmt"
	"time"
)

// TaskPriority represents the priority of an action item
type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "low"
	TaskPriorityMedium   TaskPriority = "medium"
	TaskPriorityHigh     TaskPriority = "high"
	TaskPriorityCritical TaskPriority = "critical"
)

// TaskStatus represents the status of an action item
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Task is an action item, created by the pipeline's extraction stage or
// manually through the API.
type Task struct {
	ID          string
	MeetingID   string
	Title       string
	Description string
	Assignee    string
	DueDate     *time.Time
	Priority    TaskPriority
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CoerceTaskPriority maps an arbitrary priority string to a valid
// TaskPriority, falling back to medium for anything outside the allowed set.
func CoerceTaskPriority(p string) TaskPriority {
	switch TaskPriority(p) {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityCritical:
		return TaskPriority(p)
	}
	return TaskPriorityMedium
}

// ParseDueDate parses an ISO date (YYYY-MM-DD). Returns nil for empty or
// unparseable input; extracted due dates are best-effort.
func ParseDueDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// ValidateTask validates a Task instance
func ValidateTask(t *Task) error {
	if t == nil {
		return fmt.Errorf("task cannot be nil")
	}

	if t.ID == "" {
		return fmt.Errorf("task ID is required")
	}

	if t.MeetingID == "" {
		return fmt.Errorf("task MeetingID is required")
	}

	if t.Title == "" {
		return fmt.Errorf("task Title is required")
	}

	if !isValidTaskPriority(t.Priority) {
		return fmt.Errorf("task Priority is invalid: %s", t.Priority)
	}

	if !isValidTaskStatus(t.Status) {
		return fmt.Errorf("task Status is invalid: %s", t.Status)
	}

	return nil
}

// isValidTaskPriority checks if a TaskPriority is valid
func isValidTaskPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityCritical:
		return true
	}
	return false
}

// isValidTaskStatus checks if a TaskStatus is valid
func isValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}
