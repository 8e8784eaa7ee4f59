package commands

import (
	"context"
	"log/slog"
	"strings"

	"taskhive/contexts/task-workflow/task-service/application"
	"taskhive/contexts/task-workflow/task-service/domain/entities"
	"taskhive/contexts/task-workflow/task-service/ports"
)

type CompleteTaskUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

// Execute marks the task DONE unconditionally. Re-completing an already DONE
// task yields the same observable state, which is what makes the submission
// service's retry-free remote completion safe.
func (uc CompleteTaskUseCase) Execute(ctx context.Context, taskID string) (entities.Task, error) {
	task, err := uc.Repository.GetTask(ctx, strings.TrimSpace(taskID))
	if err != nil {
		return entities.Task{}, err
	}

	task.Status = entities.TaskStatusDone
	if err := uc.Repository.UpdateTask(ctx, task); err != nil {
		return entities.Task{}, err
	}

	application.ResolveLogger(uc.Logger).Info("task completed",
		"event", "task_completed",
		"module", "task-workflow/task-service",
		"layer", "application",
		"task_id", task.TaskID,
	)
	return task, nil
}
