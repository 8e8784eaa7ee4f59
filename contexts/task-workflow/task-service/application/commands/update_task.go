package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"taskhive/contexts/task-workflow/task-service/application"
	"taskhive/contexts/task-workflow/task-service/domain/entities"
	domainerrors "taskhive/contexts/task-workflow/task-service/domain/errors"
	"taskhive/contexts/task-workflow/task-service/ports"
)

// UpdateTaskCommand is a sparse patch: only non-empty scalar fields are
// merged into the stored record.
type UpdateTaskCommand struct {
	TaskID      string
	Title       string
	ImageURL    string
	Description string
	Status      string
	Deadline    *time.Time
	// RequesterID is recorded for logging only. Ownership is deliberately
	// not checked: any authenticated caller reaching this operation may
	// modify any task.
	RequesterID string
}

type UpdateTaskUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (uc UpdateTaskUseCase) Execute(ctx context.Context, cmd UpdateTaskCommand) (entities.Task, error) {
	task, err := uc.Repository.GetTask(ctx, strings.TrimSpace(cmd.TaskID))
	if err != nil {
		return entities.Task{}, err
	}

	if title := strings.TrimSpace(cmd.Title); title != "" {
		task.Title = title
	}
	if imageURL := strings.TrimSpace(cmd.ImageURL); imageURL != "" {
		task.ImageURL = imageURL
	}
	if description := strings.TrimSpace(cmd.Description); description != "" {
		task.Description = description
	}
	if rawStatus := strings.TrimSpace(cmd.Status); rawStatus != "" {
		status, ok := entities.ParseTaskStatus(rawStatus)
		if !ok {
			return entities.Task{}, domainerrors.ErrInvalidTaskStatus
		}
		task.Status = status
	}
	if cmd.Deadline != nil {
		task.Deadline = cmd.Deadline
	}

	if err := uc.Repository.UpdateTask(ctx, task); err != nil {
		return entities.Task{}, err
	}

	application.ResolveLogger(uc.Logger).Info("task updated",
		"event", "task_updated",
		"module", "task-workflow/task-service",
		"layer", "application",
		"task_id", task.TaskID,
		"requester_id", cmd.RequesterID,
	)
	return task, nil
}
