package ports

import (
	"context"
	"time"

	"taskhive/contexts/identity-access/user-service/domain/entities"
	"taskhive/internal/shared/token"
)

type Repository interface {
	CreateUser(ctx context.Context, user entities.User) error
	// GetUserByEmail matches exactly; email comparison is case-sensitive.
	GetUserByEmail(ctx context.Context, email string) (entities.User, error)
	GetUserByID(ctx context.Context, userID string) (entities.User, error)
	ListUsers(ctx context.Context) ([]entities.User, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// TokenMinter mints identity assertions after signup or signin.
// Satisfied by the shared token.Authority.
type TokenMinter interface {
	Generate(subject string, roles ...token.Role) (string, error)
}
