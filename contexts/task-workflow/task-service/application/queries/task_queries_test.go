package queries

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhive/contexts/task-workflow/task-service/adapters/memory"
	"taskhive/contexts/task-workflow/task-service/domain/entities"
	domainerrors "taskhive/contexts/task-workflow/task-service/domain/errors"
)

func seedStore() *memory.Store {
	late := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	early := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return memory.NewStore([]entities.Task{
		{TaskID: "task-1", Title: "Late deadline", AssignedUserID: "user-7", Status: entities.TaskStatusAssigned, Deadline: &late},
		{TaskID: "task-2", Title: "No deadline", AssignedUserID: "user-7", Status: entities.TaskStatusAssigned},
		{TaskID: "task-3", Title: "Early deadline", AssignedUserID: "user-7", Status: entities.TaskStatusDone, Deadline: &early},
		{TaskID: "task-4", Title: "Someone else", AssignedUserID: "user-9", Status: entities.TaskStatusAssigned},
	})
}

func TestListForUserFiltersByAssignee(t *testing.T) {
	uc := QueryUseCase{Repository: seedStore()}

	items, err := uc.ListForUser(context.Background(), ListForUserQuery{UserID: "user-7"})
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, "user-7", item.AssignedUserID)
	}
}

func TestListForUserStatusFilter(t *testing.T) {
	uc := QueryUseCase{Repository: seedStore()}

	items, err := uc.ListForUser(context.Background(), ListForUserQuery{UserID: "user-7", Status: "done"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "task-3", items[0].TaskID)

	_, err = uc.ListForUser(context.Background(), ListForUserQuery{UserID: "user-7", Status: "ARCHIVED"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidTaskStatus)
}

func TestListForUserSortsDeadlineMissingLast(t *testing.T) {
	uc := QueryUseCase{Repository: seedStore()}

	items, err := uc.ListForUser(context.Background(), ListForUserQuery{UserID: "user-7", SortBy: SortByDeadline})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "task-3", items[0].TaskID)
	assert.Equal(t, "task-1", items[1].TaskID)
	assert.Equal(t, "task-2", items[2].TaskID, "tasks without a deadline sort last")
}

func TestListForUserUnknownSortKeepsStorageOrder(t *testing.T) {
	uc := QueryUseCase{Repository: seedStore()}

	items, err := uc.ListForUser(context.Background(), ListForUserQuery{UserID: "user-7", SortBy: "priority"})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "task-1", items[0].TaskID)
	assert.Equal(t, "task-2", items[1].TaskID)
	assert.Equal(t, "task-3", items[2].TaskID)
}

func TestListAllStatusFilter(t *testing.T) {
	uc := QueryUseCase{Repository: seedStore()}

	items, err := uc.ListAll(context.Background(), ListAllQuery{})
	require.NoError(t, err)
	assert.Len(t, items, 4)

	items, err = uc.ListAll(context.Background(), ListAllQuery{Status: "Assigned"})
	require.NoError(t, err)
	assert.Len(t, items, 3)

	_, err = uc.ListAll(context.Background(), ListAllQuery{Status: "nope"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidTaskStatus)
}

func TestGetTaskUnknownID(t *testing.T) {
	uc := QueryUseCase{Repository: seedStore()}

	_, err := uc.GetTask(context.Background(), "missing")
	require.ErrorIs(t, err, domainerrors.ErrTaskNotFound)
}
