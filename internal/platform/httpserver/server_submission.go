package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	submissionservice "taskhive/contexts/task-workflow/submission-service"
	submissiondomainerrors "taskhive/contexts/task-workflow/submission-service/domain/errors"
	submissionhttp "taskhive/contexts/task-workflow/submission-service/transport/http"
	"taskhive/internal/shared/token"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// SubmissionServer fronts the submission service. Every route is protected.
type SubmissionServer struct {
	router      chi.Router
	logger      *slog.Logger
	addr        string
	submissions submissionservice.Module
	validate    *validator.Validate
}

func NewSubmissionServer(
	submissions submissionservice.Module,
	authority *token.Authority,
	logger *slog.Logger,
	addr string,
) *SubmissionServer {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8083"
	}

	s := &SubmissionServer{
		router:      chi.NewRouter(),
		logger:      logger,
		addr:        addr,
		submissions: submissions,
		validate:    validator.New(),
	}

	s.router.Use(NewGate(authority, GatePolicy{
		ProtectedPrefixes: []string{"/api/submissions"},
	}))
	s.registerRoutes()
	return s
}

func (s *SubmissionServer) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"service", "submission-service",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.router)
}

func (s *SubmissionServer) Router() http.Handler {
	return s.router
}

func (s *SubmissionServer) registerRoutes() {
	s.router.Post("/api/submissions", s.handleSubmit)
	s.router.Get("/api/submissions", s.handleListAll)
	s.router.Get("/api/submissions/task/{task_id}", s.handleListByTask)
	s.router.Get("/api/submissions/user/{user_id}", s.handleListByUser)
	s.router.Get("/api/submissions/{submission_id}", s.handleGetSubmission)
	s.router.Put("/api/submissions/{submission_id}/review", s.handleReview)
}

func (s *SubmissionServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submissionhttp.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body is not valid json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	resp, err := s.submissions.Handler.SubmitHandler(r.Context(), RawTokenFrom(r.Context()), req)
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *SubmissionServer) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	resp, err := s.submissions.Handler.GetSubmissionHandler(r.Context(), chi.URLParam(r, "submission_id"))
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *SubmissionServer) handleListAll(w http.ResponseWriter, r *http.Request) {
	resp, err := s.submissions.Handler.ListAllHandler(r.Context())
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *SubmissionServer) handleListByTask(w http.ResponseWriter, r *http.Request) {
	resp, err := s.submissions.Handler.ListByTaskHandler(r.Context(), chi.URLParam(r, "task_id"))
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *SubmissionServer) handleListByUser(w http.ResponseWriter, r *http.Request) {
	resp, err := s.submissions.Handler.ListByUserHandler(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleReview takes the verdict from the status query parameter, falling
// back to a JSON body for clients that prefer one.
func (s *SubmissionServer) handleReview(w http.ResponseWriter, r *http.Request) {
	req := submissionhttp.ReviewRequest{Status: strings.TrimSpace(r.URL.Query().Get("status"))}
	if req.Status == "" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "status query parameter or json body required")
			return
		}
	}

	resp, err := s.submissions.Handler.ReviewHandler(
		r.Context(),
		RawTokenFrom(r.Context()),
		chi.URLParam(r, "submission_id"),
		req,
	)
	if err != nil {
		writeSubmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeSubmissionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, submissiondomainerrors.ErrSubmissionNotFound):
		writeError(w, http.StatusNotFound, "submission_not_found", err.Error())
	case errors.Is(err, submissiondomainerrors.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "task_not_found", err.Error())
	case errors.Is(err, submissiondomainerrors.ErrInvalidSubmissionStatus):
		writeError(w, http.StatusBadRequest, "invalid_submission_status", err.Error())
	case errors.Is(err, submissiondomainerrors.ErrInvalidSubmissionInput):
		writeError(w, http.StatusBadRequest, "invalid_submission_input", err.Error())
	case errors.Is(err, submissiondomainerrors.ErrTaskDirectoryUnavailable):
		writeError(w, http.StatusServiceUnavailable, "task_service_unavailable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
