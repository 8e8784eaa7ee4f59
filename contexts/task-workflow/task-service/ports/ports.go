package ports

import (
	"context"
	"time"

	"taskhive/contexts/task-workflow/task-service/domain/entities"
)

type TaskFilter struct {
	AssignedUserID string
	Status         entities.TaskStatus
}

type Repository interface {
	CreateTask(ctx context.Context, task entities.Task) error
	UpdateTask(ctx context.Context, task entities.Task) error
	GetTask(ctx context.Context, taskID string) (entities.Task, error)
	// ListTasks returns matches in storage order; sorting is an
	// application concern.
	ListTasks(ctx context.Context, filter TaskFilter) ([]entities.Task, error)
	// DeleteTask removes the record by id. Deleting an absent id is not an
	// error.
	DeleteTask(ctx context.Context, taskID string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// UserRef is the slice of a user profile the task service needs from its
// peer. It is fetched remotely with the caller's own token.
type UserRef struct {
	UserID string
	Email  string
	Role   string
}

// UserDirectory resolves the calling user's profile from the user service.
// Implementations sit behind the resilience wrapper; when the dependency is
// unavailable they surface ErrUserDirectoryUnavailable instead of a raw
// transport failure.
type UserDirectory interface {
	Profile(ctx context.Context, rawToken string) (UserRef, error)
}
