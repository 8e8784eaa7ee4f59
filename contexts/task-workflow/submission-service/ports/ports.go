package ports

import (
	"context"
	"time"

	"taskhive/contexts/task-workflow/submission-service/domain/entities"
)

// SubmissionFilter narrows listings. TaskID filtering is a full scan with
// exact equality; no secondary index is assumed of the storage layer.
type SubmissionFilter struct {
	TaskID string
	UserID string
}

type Repository interface {
	CreateSubmission(ctx context.Context, submission entities.Submission) error
	UpdateSubmission(ctx context.Context, submission entities.Submission) error
	GetSubmission(ctx context.Context, submissionID string) (entities.Submission, error)
	// ListSubmissions returns matches in storage order.
	ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]entities.Submission, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// TaskRef is the slice of a task the submission service needs from its peer.
type TaskRef struct {
	TaskID string
	Status string
}

// TaskDirectory is the remote contract against the task service. Both calls
// forward the caller's original token unchanged and run behind the shared
// resilience wrapper.
//
// GetTask reports found=false when the task service answered and knows no
// such task; that is a business outcome, not a transport failure. Transport
// failures and an open circuit surface as ErrTaskDirectoryUnavailable.
type TaskDirectory interface {
	GetTask(ctx context.Context, taskID, rawToken string) (TaskRef, bool, error)
	CompleteTask(ctx context.Context, taskID, rawToken string) error
}
