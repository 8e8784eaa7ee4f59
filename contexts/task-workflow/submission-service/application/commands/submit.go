package commands

import (
	"context"
	"log/slog"
	"strings"

	"taskhive/contexts/task-workflow/submission-service/application"
	"taskhive/contexts/task-workflow/submission-service/domain/entities"
	domainerrors "taskhive/contexts/task-workflow/submission-service/domain/errors"
	"taskhive/contexts/task-workflow/submission-service/ports"
)

type SubmitCommand struct {
	TaskID     string
	GithubLink string
	UserID     string
	// RawToken is the caller's own token, forwarded verbatim on the remote
	// existence check. The submission service never mints tokens.
	RawToken string
}

type SubmitUseCase struct {
	Repository ports.Repository
	Tasks      ports.TaskDirectory
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Execute checks the referenced task remotely before writing anything. The
// check and the write are two independent network operations with no
// transaction around them; a retried submit creates a duplicate record.
func (uc SubmitUseCase) Execute(ctx context.Context, cmd SubmitCommand) (entities.Submission, error) {
	logger := application.ResolveLogger(uc.Logger)

	submission := entities.Submission{
		TaskID:     strings.TrimSpace(cmd.TaskID),
		GithubLink: strings.TrimSpace(cmd.GithubLink),
		UserID:     strings.TrimSpace(cmd.UserID),
	}
	if !submission.ValidateSubmit() {
		return entities.Submission{}, domainerrors.ErrInvalidSubmissionInput
	}

	_, found, err := uc.Tasks.GetTask(ctx, submission.TaskID, cmd.RawToken)
	if err != nil {
		return entities.Submission{}, err
	}
	if !found {
		logger.Warn("submission rejected for unknown task",
			"event", "submission_rejected",
			"module", "task-workflow/submission-service",
			"layer", "application",
			"task_id", submission.TaskID,
		)
		return entities.Submission{}, domainerrors.ErrTaskNotFound
	}

	submissionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Submission{}, err
	}
	submission.SubmissionID = submissionID
	submission.Status = entities.SubmissionStatusPending
	submission.SubmissionTime = uc.Clock.Now().UTC()

	if err := uc.Repository.CreateSubmission(ctx, submission); err != nil {
		return entities.Submission{}, err
	}

	logger.Info("submission created",
		"event", "submission_created",
		"module", "task-workflow/submission-service",
		"layer", "application",
		"submission_id", submission.SubmissionID,
		"task_id", submission.TaskID,
	)
	return submission, nil
}
