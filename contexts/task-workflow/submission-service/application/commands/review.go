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

type ReviewCommand struct {
	SubmissionID string
	// StatusText is parsed case-insensitively into the closed status set.
	StatusText string
	RawToken   string
}

type ReviewUseCase struct {
	Repository ports.Repository
	Tasks      ports.TaskDirectory
	Logger     *slog.Logger
}

// Execute records the review verdict locally. When the verdict is ACCEPTED
// a remote task completion is triggered, but its outcome is not awaited for
// correctness: the local write persists whether the remote call succeeds,
// fails, or times out. There is no compensation path.
func (uc ReviewUseCase) Execute(ctx context.Context, cmd ReviewCommand) (entities.Submission, error) {
	logger := application.ResolveLogger(uc.Logger)

	submission, err := uc.Repository.GetSubmission(ctx, strings.TrimSpace(cmd.SubmissionID))
	if err != nil {
		return entities.Submission{}, err
	}

	status, ok := entities.ParseSubmissionStatus(cmd.StatusText)
	if !ok {
		return entities.Submission{}, domainerrors.ErrInvalidSubmissionStatus
	}

	if status == entities.SubmissionStatusAccepted {
		if err := uc.Tasks.CompleteTask(ctx, submission.TaskID, cmd.RawToken); err != nil {
			// Local durability wins over cross-service consistency.
			logger.Warn("remote task completion failed, acceptance persists anyway",
				"event", "task_completion_degraded",
				"module", "task-workflow/submission-service",
				"layer", "application",
				"submission_id", submission.SubmissionID,
				"task_id", submission.TaskID,
				"error", err,
			)
		}
	}

	submission.Status = status
	if err := uc.Repository.UpdateSubmission(ctx, submission); err != nil {
		return entities.Submission{}, err
	}

	logger.Info("submission reviewed",
		"event", "submission_reviewed",
		"module", "task-workflow/submission-service",
		"layer", "application",
		"submission_id", submission.SubmissionID,
		"status", string(status),
	)
	return submission, nil
}
