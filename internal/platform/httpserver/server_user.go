package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	userservice "taskhive/contexts/identity-access/user-service"
	userdomainerrors "taskhive/contexts/identity-access/user-service/domain/errors"
	userhttp "taskhive/contexts/identity-access/user-service/transport/http"
	"taskhive/internal/shared/resilience"
	"taskhive/internal/shared/token"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// UserServer fronts the user service. Signup and signin are public; profile
// and user lookups sit behind the gate. The auth endpoints run inside a
// breaker whose fallback is a structured "temporarily unavailable" response,
// never a partial write.
type UserServer struct {
	router   chi.Router
	logger   *slog.Logger
	addr     string
	users    userservice.Module
	validate *validator.Validate
	guard    *resilience.Breaker
}

func NewUserServer(users userservice.Module, authority *token.Authority, guard resilience.Config, logger *slog.Logger, addr string) *UserServer {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8081"
	}

	s := &UserServer{
		router:   chi.NewRouter(),
		logger:   logger,
		addr:     addr,
		users:    users,
		validate: validator.New(),
		guard:    resilience.NewBreaker("user-auth", guard, logger),
	}

	s.router.Use(NewGate(authority, GatePolicy{
		PublicPrefixes:    []string{"/auth/"},
		ProtectedPrefixes: []string{"/api/users"},
	}))
	s.registerRoutes()
	return s
}

func (s *UserServer) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"service", "user-service",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.router)
}

func (s *UserServer) Router() http.Handler {
	return s.router
}

func (s *UserServer) registerRoutes() {
	s.router.Post("/auth/signup", s.handleSignUp)
	s.router.Post("/auth/signin", s.handleSignIn)

	s.router.Get("/api/users/profile", s.handleProfile)
	s.router.Get("/api/users", s.handleListUsers)
	s.router.Get("/api/users/{user_id}", s.handleGetUser)
}

func (s *UserServer) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req userhttp.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body is not valid json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	var resp userhttp.AuthResponse
	err := s.guarded(r, func(ctx context.Context) error {
		var callErr error
		resp, callErr = s.users.Handler.SignUpHandler(ctx, req)
		return callErr
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, resp)
	case isUserDomainError(err):
		writeUserDomainError(w, err)
	default:
		writeAuthFallback(w)
	}
}

func (s *UserServer) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req userhttp.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body is not valid json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	var resp userhttp.AuthResponse
	err := s.guarded(r, func(ctx context.Context) error {
		var callErr error
		resp, callErr = s.users.Handler.SignInHandler(ctx, req)
		return callErr
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case isUserDomainError(err):
		writeUserDomainError(w, err)
	default:
		writeAuthFallback(w)
	}
}

func (s *UserServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "missing bearer token")
		return
	}

	var resp userhttp.GetUserResponse
	err := s.guarded(r, func(ctx context.Context) error {
		var callErr error
		resp, callErr = s.users.Handler.ProfileHandler(ctx, identity.Subject)
		return callErr
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case isUserDomainError(err):
		writeUserDomainError(w, err)
	default:
		writeError(w, http.StatusServiceUnavailable, "user_service_unavailable", "profile is temporarily unavailable")
	}
}

func (s *UserServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	resp, err := s.users.Handler.GetUserHandler(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		writeUserDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *UserServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	resp, err := s.users.Handler.ListUsersHandler(r.Context())
	if err != nil {
		writeUserDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// guarded runs call through the auth breaker. Domain outcomes are answers,
// not failures, and are carried out of the breaker without counting
// against it.
func (s *UserServer) guarded(r *http.Request, call func(ctx context.Context) error) error {
	var domainErr error
	err := s.guard.Execute(r.Context(), func(ctx context.Context) error {
		if callErr := call(ctx); callErr != nil {
			if isUserDomainError(callErr) {
				domainErr = callErr
				return nil
			}
			return callErr
		}
		return nil
	})
	if err != nil {
		return err
	}
	return domainErr
}

func isUserDomainError(err error) bool {
	return errors.Is(err, userdomainerrors.ErrUserNotFound) ||
		errors.Is(err, userdomainerrors.ErrEmailTaken) ||
		errors.Is(err, userdomainerrors.ErrInvalidCredentials) ||
		errors.Is(err, userdomainerrors.ErrInvalidUserInput)
}

func writeAuthFallback(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, userhttp.AuthResponse{
		Message: "authentication is temporarily unavailable, please try again later",
		Status:  false,
	})
}

func writeUserDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, userdomainerrors.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, userdomainerrors.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, userdomainerrors.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, userdomainerrors.ErrInvalidUserInput):
		writeError(w, http.StatusBadRequest, "invalid_user_input", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
