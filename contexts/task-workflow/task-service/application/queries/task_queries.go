package queries

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"taskhive/contexts/task-workflow/task-service/application"
	"taskhive/contexts/task-workflow/task-service/domain/entities"
	domainerrors "taskhive/contexts/task-workflow/task-service/domain/errors"
	"taskhive/contexts/task-workflow/task-service/ports"
)

const (
	SortByDeadline  = "deadline"
	SortByCreatedAt = "createdAt"
)

type ListForUserQuery struct {
	UserID string
	Status string
	SortBy string
}

type ListAllQuery struct {
	Status string
}

type QueryUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (uc QueryUseCase) GetTask(ctx context.Context, taskID string) (entities.Task, error) {
	return uc.Repository.GetTask(ctx, strings.TrimSpace(taskID))
}

// ListForUser returns tasks assigned to the user, optionally filtered by
// exact status and sorted ascending by deadline or createdAt with missing
// values ordered last. Any other sort key preserves storage order.
func (uc QueryUseCase) ListForUser(ctx context.Context, query ListForUserQuery) ([]entities.Task, error) {
	filter := ports.TaskFilter{AssignedUserID: strings.TrimSpace(query.UserID)}
	if status, err := parseStatusFilter(query.Status); err != nil {
		return nil, err
	} else {
		filter.Status = status
	}

	items, err := uc.Repository.ListTasks(ctx, filter)
	if err != nil {
		return nil, err
	}
	sortTasks(items, strings.TrimSpace(query.SortBy))

	application.ResolveLogger(uc.Logger).Debug("tasks listed for user",
		"event", "task_list_for_user",
		"module", "task-workflow/task-service",
		"layer", "application",
		"user_id", query.UserID,
		"count", len(items),
	)
	return items, nil
}

func (uc QueryUseCase) ListAll(ctx context.Context, query ListAllQuery) ([]entities.Task, error) {
	filter := ports.TaskFilter{}
	if status, err := parseStatusFilter(query.Status); err != nil {
		return nil, err
	} else {
		filter.Status = status
	}
	return uc.Repository.ListTasks(ctx, filter)
}

func parseStatusFilter(raw string) (entities.TaskStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	status, ok := entities.ParseTaskStatus(raw)
	if !ok {
		return "", domainerrors.ErrInvalidTaskStatus
	}
	return status, nil
}

func sortTasks(items []entities.Task, sortBy string) {
	switch sortBy {
	case SortByDeadline:
		sort.SliceStable(items, func(i, j int) bool {
			left, right := items[i].Deadline, items[j].Deadline
			if left == nil {
				return false
			}
			if right == nil {
				return true
			}
			return left.Before(*right)
		})
	case SortByCreatedAt:
		sort.SliceStable(items, func(i, j int) bool {
			left, right := items[i].CreatedAt, items[j].CreatedAt
			if left.IsZero() {
				return false
			}
			if right.IsZero() {
				return true
			}
			return left.Before(right)
		})
	}
}
