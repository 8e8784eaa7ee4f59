package commands

import (
	"context"
	"log/slog"
	"strings"

	"taskhive/contexts/task-workflow/task-service/application"
	"taskhive/contexts/task-workflow/task-service/ports"
)

type DeleteTaskUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

// Execute removes the task by id. An existence lookup runs first but its
// not-found result is discarded, so deleting an absent id still reports
// success.
func (uc DeleteTaskUseCase) Execute(ctx context.Context, taskID string) error {
	taskID = strings.TrimSpace(taskID)

	if _, err := uc.Repository.GetTask(ctx, taskID); err != nil {
		application.ResolveLogger(uc.Logger).Debug("deleting task that was not found",
			"event", "task_delete_missing",
			"module", "task-workflow/task-service",
			"layer", "application",
			"task_id", taskID,
		)
	}

	if err := uc.Repository.DeleteTask(ctx, taskID); err != nil {
		return err
	}

	application.ResolveLogger(uc.Logger).Info("task deleted",
		"event", "task_deleted",
		"module", "task-workflow/task-service",
		"layer", "application",
		"task_id", taskID,
	)
	return nil
}
