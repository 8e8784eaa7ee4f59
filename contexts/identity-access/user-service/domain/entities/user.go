package entities

import (
	"strings"
	"time"

	"taskhive/internal/shared/token"
)

// User is owned exclusively by the user service. Peer services hold user ids
// only and resolve details through remote lookups, never through joins.
type User struct {
	UserID         string
	FullName       string
	Email          string
	PasswordHash   string
	Role           token.Role
	Mobile         string
	CompletedTasks []string
	CreatedAt      time.Time
}

func (u User) ValidateCreate() bool {
	return strings.TrimSpace(u.FullName) != "" &&
		strings.TrimSpace(u.Email) != "" &&
		strings.TrimSpace(u.PasswordHash) != ""
}
