package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"taskhive/contexts/task-workflow/submission-service/application/commands"
	"taskhive/contexts/task-workflow/submission-service/application/queries"
	"taskhive/contexts/task-workflow/submission-service/domain/entities"
	httptransport "taskhive/contexts/task-workflow/submission-service/transport/http"
)

type Handler struct {
	Submit  commands.SubmitUseCase
	Review  commands.ReviewUseCase
	Queries queries.QueryUseCase
	Logger  *slog.Logger
}

func (h Handler) SubmitHandler(
	ctx context.Context,
	rawToken string,
	req httptransport.SubmitRequest,
) (httptransport.GetSubmissionResponse, error) {
	submission, err := h.Submit.Execute(ctx, commands.SubmitCommand{
		TaskID:     req.TaskID,
		GithubLink: req.GithubLink,
		UserID:     req.UserID,
		RawToken:   rawToken,
	})
	if err != nil {
		return httptransport.GetSubmissionResponse{}, err
	}
	return httptransport.GetSubmissionResponse{Submission: mapSubmission(submission)}, nil
}

func (h Handler) ReviewHandler(
	ctx context.Context,
	rawToken string,
	submissionID string,
	req httptransport.ReviewRequest,
) (httptransport.GetSubmissionResponse, error) {
	submission, err := h.Review.Execute(ctx, commands.ReviewCommand{
		SubmissionID: submissionID,
		StatusText:   req.Status,
		RawToken:     rawToken,
	})
	if err != nil {
		return httptransport.GetSubmissionResponse{}, err
	}
	return httptransport.GetSubmissionResponse{Submission: mapSubmission(submission)}, nil
}

func (h Handler) GetSubmissionHandler(ctx context.Context, submissionID string) (httptransport.GetSubmissionResponse, error) {
	submission, err := h.Queries.GetSubmission(ctx, submissionID)
	if err != nil {
		return httptransport.GetSubmissionResponse{}, err
	}
	return httptransport.GetSubmissionResponse{Submission: mapSubmission(submission)}, nil
}

func (h Handler) ListAllHandler(ctx context.Context) (httptransport.ListSubmissionsResponse, error) {
	items, err := h.Queries.ListAll(ctx)
	if err != nil {
		return httptransport.ListSubmissionsResponse{}, err
	}
	return httptransport.ListSubmissionsResponse{Items: mapSubmissions(items)}, nil
}

func (h Handler) ListByTaskHandler(ctx context.Context, taskID string) (httptransport.ListSubmissionsResponse, error) {
	items, err := h.Queries.ListByTask(ctx, taskID)
	if err != nil {
		return httptransport.ListSubmissionsResponse{}, err
	}
	return httptransport.ListSubmissionsResponse{Items: mapSubmissions(items)}, nil
}

func (h Handler) ListByUserHandler(ctx context.Context, userID string) (httptransport.ListSubmissionsResponse, error) {
	items, err := h.Queries.ListByUser(ctx, userID)
	if err != nil {
		return httptransport.ListSubmissionsResponse{}, err
	}
	return httptransport.ListSubmissionsResponse{Items: mapSubmissions(items)}, nil
}

func mapSubmission(item entities.Submission) httptransport.SubmissionDTO {
	dto := httptransport.SubmissionDTO{
		ID:         item.SubmissionID,
		TaskID:     item.TaskID,
		GithubLink: item.GithubLink,
		Status:     string(item.Status),
		UserID:     item.UserID,
	}
	if !item.SubmissionTime.IsZero() {
		dto.SubmissionTime = item.SubmissionTime.Format(time.RFC3339)
	}
	return dto
}

func mapSubmissions(items []entities.Submission) []httptransport.SubmissionDTO {
	result := make([]httptransport.SubmissionDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapSubmission(item))
	}
	return result
}
