package httpadapter

import (
	"context"
	"log/slog"

	"taskhive/contexts/identity-access/user-service/application"
	"taskhive/contexts/identity-access/user-service/domain/entities"
	httptransport "taskhive/contexts/identity-access/user-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) SignUpHandler(ctx context.Context, req httptransport.SignUpRequest) (httptransport.AuthResponse, error) {
	result, err := h.Service.SignUp(ctx, application.SignUpCommand{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Mobile:   req.Mobile,
	})
	if err != nil {
		return httptransport.AuthResponse{}, err
	}
	return httptransport.AuthResponse{
		Jwt:     result.Token,
		Message: "Register Success",
		Status:  true,
	}, nil
}

func (h Handler) SignInHandler(ctx context.Context, req httptransport.SignInRequest) (httptransport.AuthResponse, error) {
	result, err := h.Service.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return httptransport.AuthResponse{}, err
	}
	return httptransport.AuthResponse{
		Jwt:     result.Token,
		Message: "Login success",
		Status:  true,
	}, nil
}

// ProfileHandler resolves the caller from the verified token subject.
func (h Handler) ProfileHandler(ctx context.Context, subject string) (httptransport.GetUserResponse, error) {
	user, err := h.Service.ProfileByEmail(ctx, subject)
	if err != nil {
		return httptransport.GetUserResponse{}, err
	}
	return httptransport.GetUserResponse{User: mapUser(user)}, nil
}

func (h Handler) GetUserHandler(ctx context.Context, userID string) (httptransport.GetUserResponse, error) {
	user, err := h.Service.GetUserByID(ctx, userID)
	if err != nil {
		return httptransport.GetUserResponse{}, err
	}
	return httptransport.GetUserResponse{User: mapUser(user)}, nil
}

func (h Handler) ListUsersHandler(ctx context.Context) (httptransport.ListUsersResponse, error) {
	users, err := h.Service.ListUsers(ctx)
	if err != nil {
		return httptransport.ListUsersResponse{}, err
	}
	items := make([]httptransport.UserDTO, 0, len(users))
	for _, user := range users {
		items = append(items, mapUser(user))
	}
	return httptransport.ListUsersResponse{Items: items}, nil
}

// mapUser never copies the password hash into a response.
func mapUser(item entities.User) httptransport.UserDTO {
	return httptransport.UserDTO{
		ID:             item.UserID,
		FullName:       item.FullName,
		Email:          item.Email,
		Role:           string(item.Role),
		Mobile:         item.Mobile,
		CompletedTasks: item.CompletedTasks,
	}
}
