package entities

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusPending  TaskStatus = "PENDING"
	TaskStatusAssigned TaskStatus = "ASSIGNED"
	TaskStatusDone     TaskStatus = "DONE"
)

// ParseTaskStatus maps a raw string onto the closed status set,
// case-insensitively. Unknown strings report ok=false.
func ParseTaskStatus(raw string) (TaskStatus, bool) {
	switch TaskStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case TaskStatusPending:
		return TaskStatusPending, true
	case TaskStatusAssigned:
		return TaskStatusAssigned, true
	case TaskStatusDone:
		return TaskStatusDone, true
	default:
		return "", false
	}
}

// Task is owned exclusively by the task service. AssignedUserID is a plain
// identifier into the user service; it is never dereferenced for joins here.
type Task struct {
	TaskID         string
	Title          string
	Description    string
	ImageURL       string
	AssignedUserID string
	Status         TaskStatus
	Deadline       *time.Time
	CreatedAt      time.Time
	Tags           []string
}

func (t Task) ValidateCreate() bool {
	return strings.TrimSpace(t.Title) != ""
}
