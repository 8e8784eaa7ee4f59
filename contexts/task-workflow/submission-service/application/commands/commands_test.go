package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhive/contexts/task-workflow/submission-service/adapters/memory"
	"taskhive/contexts/task-workflow/submission-service/domain/entities"
	domainerrors "taskhive/contexts/task-workflow/submission-service/domain/errors"
	"taskhive/contexts/task-workflow/submission-service/ports"
)

// fakeTaskDirectory records remote interactions instead of crossing the
// network.
type fakeTaskDirectory struct {
	knownTasks  map[string]bool
	lookupErr   error
	completeErr error

	completedTaskIDs []string
	forwardedTokens  []string
}

func (f *fakeTaskDirectory) GetTask(_ context.Context, taskID, rawToken string) (ports.TaskRef, bool, error) {
	f.forwardedTokens = append(f.forwardedTokens, rawToken)
	if f.lookupErr != nil {
		return ports.TaskRef{}, false, f.lookupErr
	}
	if !f.knownTasks[taskID] {
		return ports.TaskRef{}, false, nil
	}
	return ports.TaskRef{TaskID: taskID, Status: "ASSIGNED"}, true, nil
}

func (f *fakeTaskDirectory) CompleteTask(_ context.Context, taskID, rawToken string) error {
	f.completedTaskIDs = append(f.completedTaskIDs, taskID)
	f.forwardedTokens = append(f.forwardedTokens, rawToken)
	return f.completeErr
}

func TestSubmitCreatesPendingRecord(t *testing.T) {
	store := memory.NewStore(nil)
	tasks := &fakeTaskDirectory{knownTasks: map[string]bool{"task-1": true}}
	uc := SubmitUseCase{Repository: store, Tasks: tasks, Clock: store, IDGen: store}

	submission, err := uc.Execute(context.Background(), SubmitCommand{
		TaskID:     "task-1",
		GithubLink: "https://github.com/acme/solution",
		UserID:     "user-7",
		RawToken:   "caller-token",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, submission.SubmissionID)
	assert.Equal(t, entities.SubmissionStatusPending, submission.Status)
	assert.False(t, submission.SubmissionTime.IsZero())
	assert.Equal(t, []string{"caller-token"}, tasks.forwardedTokens, "token must be forwarded verbatim")
	assert.Equal(t, 1, store.Count())
}

func TestSubmitUnknownTaskPersistsNothing(t *testing.T) {
	store := memory.NewStore(nil)
	tasks := &fakeTaskDirectory{knownTasks: map[string]bool{}}
	uc := SubmitUseCase{Repository: store, Tasks: tasks, Clock: store, IDGen: store}

	_, err := uc.Execute(context.Background(), SubmitCommand{
		TaskID:     "nonexistent-id",
		GithubLink: "https://github.com/acme/solution",
		UserID:     "user-7",
	})
	require.ErrorIs(t, err, domainerrors.ErrTaskNotFound)
	assert.Zero(t, store.Count(), "failed existence check must not write")
}

func TestSubmitDegradedLookupSurfacesUnavailable(t *testing.T) {
	store := memory.NewStore(nil)
	tasks := &fakeTaskDirectory{lookupErr: domainerrors.ErrTaskDirectoryUnavailable}
	uc := SubmitUseCase{Repository: store, Tasks: tasks, Clock: store, IDGen: store}

	_, err := uc.Execute(context.Background(), SubmitCommand{
		TaskID:     "task-1",
		GithubLink: "https://github.com/acme/solution",
		UserID:     "user-7",
	})
	require.ErrorIs(t, err, domainerrors.ErrTaskDirectoryUnavailable)
	assert.Zero(t, store.Count())
}

func TestReviewAcceptedTriggersRemoteCompletion(t *testing.T) {
	store := memory.NewStore([]entities.Submission{{
		SubmissionID: "sub-1",
		TaskID:       "task-1",
		Status:       entities.SubmissionStatusPending,
	}})
	tasks := &fakeTaskDirectory{}
	uc := ReviewUseCase{Repository: store, Tasks: tasks}

	// Casing of the verdict does not matter.
	submission, err := uc.Execute(context.Background(), ReviewCommand{
		SubmissionID: "sub-1",
		StatusText:   "accepted",
		RawToken:     "reviewer-token",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.SubmissionStatusAccepted, submission.Status)
	assert.Equal(t, []string{"task-1"}, tasks.completedTaskIDs, "exactly one remote completion")
}

func TestReviewRejectedSkipsRemoteCompletion(t *testing.T) {
	store := memory.NewStore([]entities.Submission{{
		SubmissionID: "sub-1",
		TaskID:       "task-1",
		Status:       entities.SubmissionStatusPending,
	}})
	tasks := &fakeTaskDirectory{}
	uc := ReviewUseCase{Repository: store, Tasks: tasks}

	submission, err := uc.Execute(context.Background(), ReviewCommand{SubmissionID: "sub-1", StatusText: "REJECTED"})
	require.NoError(t, err)
	assert.Equal(t, entities.SubmissionStatusRejected, submission.Status)
	assert.Empty(t, tasks.completedTaskIDs)
}

func TestReviewUnknownStatusLeavesRecordUntouched(t *testing.T) {
	store := memory.NewStore([]entities.Submission{{
		SubmissionID: "sub-1",
		TaskID:       "task-1",
		Status:       entities.SubmissionStatusPending,
	}})
	tasks := &fakeTaskDirectory{}
	uc := ReviewUseCase{Repository: store, Tasks: tasks}

	_, err := uc.Execute(context.Background(), ReviewCommand{SubmissionID: "sub-1", StatusText: "bogus"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidSubmissionStatus)
	assert.Empty(t, tasks.completedTaskIDs)

	stored, err := store.GetSubmission(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, entities.SubmissionStatusPending, stored.Status)
}

func TestReviewAcceptancePersistsDespiteRemoteFailure(t *testing.T) {
	store := memory.NewStore([]entities.Submission{{
		SubmissionID: "sub-1",
		TaskID:       "task-1",
		Status:       entities.SubmissionStatusPending,
	}})
	tasks := &fakeTaskDirectory{completeErr: errors.New("task service down")}
	uc := ReviewUseCase{Repository: store, Tasks: tasks}

	submission, err := uc.Execute(context.Background(), ReviewCommand{SubmissionID: "sub-1", StatusText: "ACCEPTED"})
	require.NoError(t, err, "local acceptance is durable regardless of the remote outcome")
	assert.Equal(t, entities.SubmissionStatusAccepted, submission.Status)

	stored, err := store.GetSubmission(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, entities.SubmissionStatusAccepted, stored.Status)
}

func TestReviewUnknownSubmission(t *testing.T) {
	uc := ReviewUseCase{Repository: memory.NewStore(nil), Tasks: &fakeTaskDirectory{}}

	_, err := uc.Execute(context.Background(), ReviewCommand{SubmissionID: "missing", StatusText: "ACCEPTED"})
	require.ErrorIs(t, err, domainerrors.ErrSubmissionNotFound)
}
