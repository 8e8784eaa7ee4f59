package errors

import "errors"

var (
	ErrTaskNotFound             = errors.New("task not found")
	ErrAdminRoleRequired        = errors.New("only admins can create tasks")
	ErrInvalidTaskStatus        = errors.New("invalid task status")
	ErrInvalidTaskInput         = errors.New("invalid task input")
	ErrUserDirectoryUnavailable = errors.New("user service unavailable")
)
