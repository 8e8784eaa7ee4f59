package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhive/contexts/task-workflow/task-service/adapters/memory"
	"taskhive/contexts/task-workflow/task-service/domain/entities"
	domainerrors "taskhive/contexts/task-workflow/task-service/domain/errors"
	"taskhive/internal/shared/token"
)

func TestCreateTaskRequiresAdminRole(t *testing.T) {
	store := memory.NewStore(nil)
	uc := CreateTaskUseCase{Repository: store, Clock: store, IDGen: store}

	_, err := uc.Execute(context.Background(), CreateTaskCommand{
		Title:         "Write onboarding guide",
		Description:   "Cover the first week",
		RequesterRole: string(token.RoleCustomer),
	})
	require.ErrorIs(t, err, domainerrors.ErrAdminRoleRequired)
	assert.Zero(t, store.Count(), "rejected creation must not persist anything")

	_, err = uc.Execute(context.Background(), CreateTaskCommand{
		Title:         "Write onboarding guide",
		Description:   "Cover the first week",
		RequesterRole: "ROLE_SUPERUSER",
	})
	require.ErrorIs(t, err, domainerrors.ErrAdminRoleRequired)
	assert.Zero(t, store.Count())
}

func TestCreateTaskStartsPending(t *testing.T) {
	store := memory.NewStore(nil)
	uc := CreateTaskUseCase{Repository: store, Clock: store, IDGen: store}

	task, err := uc.Execute(context.Background(), CreateTaskCommand{
		Title:         "Write onboarding guide",
		Description:   "Cover the first week",
		Tags:          []string{"docs"},
		RequesterRole: string(token.RoleAdmin),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, task.TaskID)
	assert.Equal(t, entities.TaskStatusPending, task.Status)
	assert.Empty(t, task.AssignedUserID)
	assert.False(t, task.CreatedAt.IsZero())

	stored, err := store.GetTask(context.Background(), task.TaskID)
	require.NoError(t, err)
	assert.Equal(t, task, stored)
}

func TestAssignTaskOverwritesAssignee(t *testing.T) {
	store := memory.NewStore([]entities.Task{{
		TaskID: "task-1",
		Title:  "Triage inbox",
		Status: entities.TaskStatusDone,
	}})
	uc := AssignTaskUseCase{Repository: store}

	// Assignment does not consult the current status, so even a finished
	// task moves back to ASSIGNED.
	task, err := uc.Execute(context.Background(), AssignTaskCommand{TaskID: "task-1", UserID: "user-7"})
	require.NoError(t, err)
	assert.Equal(t, "user-7", task.AssignedUserID)
	assert.Equal(t, entities.TaskStatusAssigned, task.Status)

	task, err = uc.Execute(context.Background(), AssignTaskCommand{TaskID: "task-1", UserID: "user-9"})
	require.NoError(t, err)
	assert.Equal(t, "user-9", task.AssignedUserID)
}

func TestAssignTaskUnknownID(t *testing.T) {
	uc := AssignTaskUseCase{Repository: memory.NewStore(nil)}

	_, err := uc.Execute(context.Background(), AssignTaskCommand{TaskID: "missing", UserID: "user-7"})
	require.ErrorIs(t, err, domainerrors.ErrTaskNotFound)
}

func TestUpdateTaskMergesOnlyProvidedFields(t *testing.T) {
	deadline := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore([]entities.Task{{
		TaskID:      "task-1",
		Title:       "Triage inbox",
		Description: "Daily sweep",
		ImageURL:    "https://img.example/old.png",
		Status:      entities.TaskStatusPending,
	}})
	uc := UpdateTaskUseCase{Repository: store}

	task, err := uc.Execute(context.Background(), UpdateTaskCommand{
		TaskID:   "task-1",
		Title:    "Triage support inbox",
		Status:   "assigned",
		Deadline: &deadline,
	})
	require.NoError(t, err)
	assert.Equal(t, "Triage support inbox", task.Title)
	assert.Equal(t, "Daily sweep", task.Description, "omitted field must survive the merge")
	assert.Equal(t, "https://img.example/old.png", task.ImageURL)
	assert.Equal(t, entities.TaskStatusAssigned, task.Status, "status parsing is case-insensitive")
	require.NotNil(t, task.Deadline)
	assert.True(t, task.Deadline.Equal(deadline))
}

func TestUpdateTaskRejectsUnknownStatus(t *testing.T) {
	store := memory.NewStore([]entities.Task{{
		TaskID: "task-1",
		Title:  "Triage inbox",
		Status: entities.TaskStatusPending,
	}})
	uc := UpdateTaskUseCase{Repository: store}

	_, err := uc.Execute(context.Background(), UpdateTaskCommand{TaskID: "task-1", Status: "ARCHIVED"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidTaskStatus)

	stored, err := store.GetTask(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusPending, stored.Status, "failed update must leave the record untouched")
}

func TestCompleteTaskIsIdempotent(t *testing.T) {
	store := memory.NewStore([]entities.Task{{
		TaskID:         "task-1",
		Title:          "Triage inbox",
		AssignedUserID: "user-7",
		Status:         entities.TaskStatusAssigned,
	}})
	uc := CompleteTaskUseCase{Repository: store}

	task, err := uc.Execute(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusDone, task.Status)

	task, err = uc.Execute(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusDone, task.Status)
}

func TestDeleteTaskAbsentIDSucceeds(t *testing.T) {
	store := memory.NewStore([]entities.Task{{TaskID: "task-1", Title: "Triage inbox"}})
	uc := DeleteTaskUseCase{Repository: store}

	require.NoError(t, uc.Execute(context.Background(), "task-1"))
	assert.Zero(t, store.Count())

	// Deleting the same id again reports success as well.
	require.NoError(t, uc.Execute(context.Background(), "task-1"))
	require.NoError(t, uc.Execute(context.Background(), "never-existed"))
}
