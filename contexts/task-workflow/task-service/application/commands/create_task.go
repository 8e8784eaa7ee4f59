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
	"taskhive/internal/shared/token"
)

type CreateTaskCommand struct {
	Title         string
	Description   string
	ImageURL      string
	Deadline      *time.Time
	Tags          []string
	RequesterRole string
}

type CreateTaskUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc CreateTaskUseCase) Execute(ctx context.Context, cmd CreateTaskCommand) (entities.Task, error) {
	logger := application.ResolveLogger(uc.Logger)

	// Role check is an exhaustive match over the closed role set; anything
	// that is not the admin role is rejected before any write happens.
	role, ok := token.ParseRole(cmd.RequesterRole)
	if !ok || role != token.RoleAdmin {
		logger.Warn("unauthorized task creation attempt",
			"event", "task_create_rejected",
			"module", "task-workflow/task-service",
			"layer", "application",
			"requester_role", cmd.RequesterRole,
		)
		return entities.Task{}, domainerrors.ErrAdminRoleRequired
	}

	task := entities.Task{
		Title:       strings.TrimSpace(cmd.Title),
		Description: strings.TrimSpace(cmd.Description),
		ImageURL:    strings.TrimSpace(cmd.ImageURL),
		Deadline:    cmd.Deadline,
		Tags:        append([]string(nil), cmd.Tags...),
	}
	if !task.ValidateCreate() {
		return entities.Task{}, domainerrors.ErrInvalidTaskInput
	}

	taskID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Task{}, err
	}
	task.TaskID = taskID
	task.Status = entities.TaskStatusPending
	task.CreatedAt = uc.Clock.Now().UTC()

	if err := uc.Repository.CreateTask(ctx, task); err != nil {
		return entities.Task{}, err
	}

	logger.Info("task created",
		"event", "task_created",
		"module", "task-workflow/task-service",
		"layer", "application",
		"task_id", task.TaskID,
	)
	return task, nil
}
