package queries

import (
	"context"
	"log/slog"
	"strings"

	"taskhive/contexts/task-workflow/submission-service/application"
	"taskhive/contexts/task-workflow/submission-service/domain/entities"
	"taskhive/contexts/task-workflow/submission-service/ports"
)

type QueryUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (uc QueryUseCase) GetSubmission(ctx context.Context, submissionID string) (entities.Submission, error) {
	return uc.Repository.GetSubmission(ctx, strings.TrimSpace(submissionID))
}

func (uc QueryUseCase) ListAll(ctx context.Context) ([]entities.Submission, error) {
	return uc.Repository.ListSubmissions(ctx, ports.SubmissionFilter{})
}

// ListByTask is a full scan filtered by exact task id equality.
func (uc QueryUseCase) ListByTask(ctx context.Context, taskID string) ([]entities.Submission, error) {
	items, err := uc.Repository.ListSubmissions(ctx, ports.SubmissionFilter{TaskID: strings.TrimSpace(taskID)})
	if err != nil {
		return nil, err
	}
	application.ResolveLogger(uc.Logger).Debug("submissions listed for task",
		"event", "submission_list_for_task",
		"module", "task-workflow/submission-service",
		"layer", "application",
		"task_id", taskID,
		"count", len(items),
	)
	return items, nil
}

func (uc QueryUseCase) ListByUser(ctx context.Context, userID string) ([]entities.Submission, error) {
	return uc.Repository.ListSubmissions(ctx, ports.SubmissionFilter{UserID: strings.TrimSpace(userID)})
}
