package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"taskhive/contexts/task-workflow/task-service/application/commands"
	"taskhive/contexts/task-workflow/task-service/application/queries"
	"taskhive/contexts/task-workflow/task-service/domain/entities"
	"taskhive/contexts/task-workflow/task-service/ports"
	httptransport "taskhive/contexts/task-workflow/task-service/transport/http"
)

type Handler struct {
	CreateTask   commands.CreateTaskUseCase
	AssignTask   commands.AssignTaskUseCase
	UpdateTask   commands.UpdateTaskUseCase
	CompleteTask commands.CompleteTaskUseCase
	DeleteTask   commands.DeleteTaskUseCase
	Queries      queries.QueryUseCase
	Users        ports.UserDirectory
	Logger       *slog.Logger
}

// CreateTaskHandler resolves the caller's profile remotely (token forwarded
// verbatim) and runs the admin check against the remotely fetched role.
func (h Handler) CreateTaskHandler(
	ctx context.Context,
	rawToken string,
	req httptransport.CreateTaskRequest,
) (httptransport.GetTaskResponse, error) {
	user, err := h.Users.Profile(ctx, rawToken)
	if err != nil {
		return httptransport.GetTaskResponse{}, err
	}

	task, err := h.CreateTask.Execute(ctx, commands.CreateTaskCommand{
		Title:         req.Title,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		Deadline:      req.Deadline,
		Tags:          req.Tags,
		RequesterRole: user.Role,
	})
	if err != nil {
		return httptransport.GetTaskResponse{}, err
	}
	return httptransport.GetTaskResponse{Task: mapTask(task)}, nil
}

func (h Handler) GetTaskHandler(ctx context.Context, taskID string) (httptransport.GetTaskResponse, error) {
	task, err := h.Queries.GetTask(ctx, taskID)
	if err != nil {
		return httptransport.GetTaskResponse{}, err
	}
	return httptransport.GetTaskResponse{Task: mapTask(task)}, nil
}

// ListMyTasksHandler lists tasks assigned to the calling user, resolved from
// the forwarded token.
func (h Handler) ListMyTasksHandler(
	ctx context.Context,
	rawToken string,
	status string,
	sortBy string,
) (httptransport.ListTasksResponse, error) {
	user, err := h.Users.Profile(ctx, rawToken)
	if err != nil {
		return httptransport.ListTasksResponse{}, err
	}

	items, err := h.Queries.ListForUser(ctx, queries.ListForUserQuery{
		UserID: user.UserID,
		Status: status,
		SortBy: sortBy,
	})
	if err != nil {
		return httptransport.ListTasksResponse{}, err
	}
	return httptransport.ListTasksResponse{Items: mapTasks(items)}, nil
}

func (h Handler) ListAllTasksHandler(ctx context.Context, status string) (httptransport.ListTasksResponse, error) {
	items, err := h.Queries.ListAll(ctx, queries.ListAllQuery{Status: status})
	if err != nil {
		return httptransport.ListTasksResponse{}, err
	}
	return httptransport.ListTasksResponse{Items: mapTasks(items)}, nil
}

func (h Handler) AssignTaskHandler(ctx context.Context, taskID, userID string) (httptransport.GetTaskResponse, error) {
	task, err := h.AssignTask.Execute(ctx, commands.AssignTaskCommand{TaskID: taskID, UserID: userID})
	if err != nil {
		return httptransport.GetTaskResponse{}, err
	}
	return httptransport.GetTaskResponse{Task: mapTask(task)}, nil
}

func (h Handler) UpdateTaskHandler(
	ctx context.Context,
	rawToken string,
	taskID string,
	req httptransport.UpdateTaskRequest,
) (httptransport.GetTaskResponse, error) {
	user, err := h.Users.Profile(ctx, rawToken)
	if err != nil {
		return httptransport.GetTaskResponse{}, err
	}

	task, err := h.UpdateTask.Execute(ctx, commands.UpdateTaskCommand{
		TaskID:      taskID,
		Title:       req.Title,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		Status:      req.Status,
		Deadline:    req.Deadline,
		RequesterID: user.UserID,
	})
	if err != nil {
		return httptransport.GetTaskResponse{}, err
	}
	return httptransport.GetTaskResponse{Task: mapTask(task)}, nil
}

func (h Handler) CompleteTaskHandler(ctx context.Context, taskID string) (httptransport.GetTaskResponse, error) {
	task, err := h.CompleteTask.Execute(ctx, taskID)
	if err != nil {
		return httptransport.GetTaskResponse{}, err
	}
	return httptransport.GetTaskResponse{Task: mapTask(task)}, nil
}

func (h Handler) DeleteTaskHandler(ctx context.Context, taskID string) error {
	return h.DeleteTask.Execute(ctx, taskID)
}

func mapTask(item entities.Task) httptransport.TaskDTO {
	dto := httptransport.TaskDTO{
		ID:             item.TaskID,
		Title:          item.Title,
		Description:    item.Description,
		ImageURL:       item.ImageURL,
		AssignedUserID: item.AssignedUserID,
		Status:         string(item.Status),
		CreatedAt:      item.CreatedAt.Format(time.RFC3339),
		Tags:           item.Tags,
	}
	if item.Deadline != nil {
		dto.Deadline = item.Deadline.Format(time.RFC3339)
	}
	return dto
}

func mapTasks(items []entities.Task) []httptransport.TaskDTO {
	result := make([]httptransport.TaskDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapTask(item))
	}
	return result
}
