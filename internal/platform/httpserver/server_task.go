package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	taskservice "taskhive/contexts/task-workflow/task-service"
	taskdomainerrors "taskhive/contexts/task-workflow/task-service/domain/errors"
	taskhttp "taskhive/contexts/task-workflow/task-service/transport/http"
	"taskhive/internal/shared/token"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// TaskServer fronts the task service. Every route is protected.
type TaskServer struct {
	router   chi.Router
	logger   *slog.Logger
	addr     string
	tasks    taskservice.Module
	validate *validator.Validate
}

func NewTaskServer(tasks taskservice.Module, authority *token.Authority, logger *slog.Logger, addr string) *TaskServer {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8082"
	}

	s := &TaskServer{
		router:   chi.NewRouter(),
		logger:   logger,
		addr:     addr,
		tasks:    tasks,
		validate: validator.New(),
	}

	s.router.Use(NewGate(authority, GatePolicy{
		ProtectedPrefixes: []string{"/api/tasks"},
	}))
	s.registerRoutes()
	return s
}

func (s *TaskServer) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"service", "task-service",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.router)
}

func (s *TaskServer) Router() http.Handler {
	return s.router
}

func (s *TaskServer) registerRoutes() {
	s.router.Post("/api/tasks", s.handleCreateTask)
	s.router.Get("/api/tasks", s.handleListAllTasks)
	s.router.Get("/api/tasks/my", s.handleListMyTasks)
	s.router.Get("/api/tasks/{task_id}", s.handleGetTask)
	s.router.Put("/api/tasks/{task_id}", s.handleUpdateTask)
	s.router.Put("/api/tasks/{task_id}/assign/{user_id}", s.handleAssignTask)
	s.router.Put("/api/tasks/{task_id}/complete", s.handleCompleteTask)
	s.router.Delete("/api/tasks/{task_id}", s.handleDeleteTask)
}

func (s *TaskServer) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskhttp.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body is not valid json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	resp, err := s.tasks.Handler.CreateTaskHandler(r.Context(), RawTokenFrom(r.Context()), req)
	if err != nil {
		writeTaskDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *TaskServer) handleGetTask(w http.ResponseWriter, r *http.Request) {
	resp, err := s.tasks.Handler.GetTaskHandler(r.Context(), chi.URLParam(r, "task_id"))
	if err != nil {
		writeTaskDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *TaskServer) handleListAllTasks(w http.ResponseWriter, r *http.Request) {
	resp, err := s.tasks.Handler.ListAllTasksHandler(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeTaskDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *TaskServer) handleListMyTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.tasks.Handler.ListMyTasksHandler(
		r.Context(),
		RawTokenFrom(r.Context()),
		query.Get("status"),
		query.Get("sortBy"),
	)
	if err != nil {
		// Bulk reads degrade to an empty page when the user directory is
		// down; mutations never get this treatment.
		if errors.Is(err, taskdomainerrors.ErrUserDirectoryUnavailable) {
			s.logger.Warn("task listing degraded",
				"event", "task_listing_degraded",
				"module", "internal/platform/httpserver",
				"layer", "platform",
			)
			writeJSON(w, http.StatusOK, taskhttp.ListTasksResponse{Items: []taskhttp.TaskDTO{}})
			return
		}
		writeTaskDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *TaskServer) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	resp, err := s.tasks.Handler.AssignTaskHandler(
		r.Context(),
		chi.URLParam(r, "task_id"),
		chi.URLParam(r, "user_id"),
	)
	if err != nil {
		writeTaskDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *TaskServer) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req taskhttp.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body is not valid json")
		return
	}

	resp, err := s.tasks.Handler.UpdateTaskHandler(
		r.Context(),
		RawTokenFrom(r.Context()),
		chi.URLParam(r, "task_id"),
		req,
	)
	if err != nil {
		writeTaskDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *TaskServer) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	resp, err := s.tasks.Handler.CompleteTaskHandler(r.Context(), chi.URLParam(r, "task_id"))
	if err != nil {
		writeTaskDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *TaskServer) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Handler.DeleteTaskHandler(r.Context(), chi.URLParam(r, "task_id")); err != nil {
		writeTaskDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeTaskDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, taskdomainerrors.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "task_not_found", err.Error())
	case errors.Is(err, taskdomainerrors.ErrAdminRoleRequired):
		writeError(w, http.StatusForbidden, "admin_role_required", err.Error())
	case errors.Is(err, taskdomainerrors.ErrInvalidTaskStatus):
		writeError(w, http.StatusBadRequest, "invalid_task_status", err.Error())
	case errors.Is(err, taskdomainerrors.ErrInvalidTaskInput):
		writeError(w, http.StatusBadRequest, "invalid_task_input", err.Error())
	case errors.Is(err, taskdomainerrors.ErrUserDirectoryUnavailable):
		writeError(w, http.StatusServiceUnavailable, "user_service_unavailable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
