package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"taskhive/contexts/identity-access/user-service/domain/entities"
	domainerrors "taskhive/contexts/identity-access/user-service/domain/errors"
	"taskhive/contexts/identity-access/user-service/ports"
	"taskhive/internal/shared/token"
)

type SignUpCommand struct {
	FullName string
	Email    string
	Password string
	Role     string
	Mobile   string
}

// AuthResult pairs the stored user with the freshly minted assertion.
type AuthResult struct {
	User  entities.User
	Token string
}

type Service struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Tokens     ports.TokenMinter
	Logger     *slog.Logger
}

func (s Service) SignUp(ctx context.Context, cmd SignUpCommand) (AuthResult, error) {
	logger := ResolveLogger(s.Logger)

	email := strings.TrimSpace(cmd.Email)
	password := cmd.Password
	if email == "" || password == "" || strings.TrimSpace(cmd.FullName) == "" {
		return AuthResult{}, domainerrors.ErrInvalidUserInput
	}

	if _, err := s.Repository.GetUserByEmail(ctx, email); err == nil {
		return AuthResult{}, domainerrors.ErrEmailTaken
	} else if !errors.Is(err, domainerrors.ErrUserNotFound) {
		return AuthResult{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, err
	}

	role := token.RoleCustomer
	if parsed, ok := token.ParseRole(cmd.Role); ok {
		role = parsed
	}

	userID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return AuthResult{}, err
	}

	user := entities.User{
		UserID:       userID,
		FullName:     strings.TrimSpace(cmd.FullName),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Mobile:       strings.TrimSpace(cmd.Mobile),
		CreatedAt:    s.now(),
	}
	if err := s.Repository.CreateUser(ctx, user); err != nil {
		return AuthResult{}, err
	}

	minted, err := s.Tokens.Generate(user.Email, user.Role)
	if err != nil {
		return AuthResult{}, err
	}

	logger.Info("user signed up",
		"event", "user_signed_up",
		"module", "identity-access/user-service",
		"layer", "application",
		"user_id", user.UserID,
	)
	return AuthResult{User: user, Token: minted}, nil
}

func (s Service) SignIn(ctx context.Context, email, password string) (AuthResult, error) {
	logger := ResolveLogger(s.Logger)

	user, err := s.Repository.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return AuthResult{}, domainerrors.ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, domainerrors.ErrInvalidCredentials
	}

	minted, err := s.Tokens.Generate(user.Email, user.Role)
	if err != nil {
		return AuthResult{}, err
	}

	logger.Info("user signed in",
		"event", "user_signed_in",
		"module", "identity-access/user-service",
		"layer", "application",
		"user_id", user.UserID,
	)
	return AuthResult{User: user, Token: minted}, nil
}

// ProfileByEmail resolves the user behind a verified token subject.
func (s Service) ProfileByEmail(ctx context.Context, email string) (entities.User, error) {
	return s.Repository.GetUserByEmail(ctx, strings.TrimSpace(email))
}

func (s Service) GetUserByID(ctx context.Context, userID string) (entities.User, error) {
	return s.Repository.GetUserByID(ctx, strings.TrimSpace(userID))
}

func (s Service) ListUsers(ctx context.Context) ([]entities.User, error) {
	return s.Repository.ListUsers(ctx)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
