package commands

import (
	"context"
	"log/slog"
	"strings"

	"taskhive/contexts/task-workflow/task-service/application"
	"taskhive/contexts/task-workflow/task-service/domain/entities"
	"taskhive/contexts/task-workflow/task-service/ports"
)

type AssignTaskCommand struct {
	TaskID string
	UserID string
}

type AssignTaskUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

// Execute assigns unconditionally: the current status is not consulted, so
// re-assigning a DONE task is permitted and repeating the same assignment is
// a no-op on observable state.
func (uc AssignTaskUseCase) Execute(ctx context.Context, cmd AssignTaskCommand) (entities.Task, error) {
	task, err := uc.Repository.GetTask(ctx, strings.TrimSpace(cmd.TaskID))
	if err != nil {
		return entities.Task{}, err
	}

	task.AssignedUserID = strings.TrimSpace(cmd.UserID)
	task.Status = entities.TaskStatusAssigned
	if err := uc.Repository.UpdateTask(ctx, task); err != nil {
		return entities.Task{}, err
	}

	application.ResolveLogger(uc.Logger).Info("task assigned",
		"event", "task_assigned",
		"module", "task-workflow/task-service",
		"layer", "application",
		"task_id", task.TaskID,
		"user_id", task.AssignedUserID,
	)
	return task, nil
}
