package errors

import "errors"

var (
	ErrSubmissionNotFound       = errors.New("submission not found")
	ErrTaskNotFound             = errors.New("task not found")
	ErrInvalidSubmissionStatus  = errors.New("invalid submission status")
	ErrInvalidSubmissionInput   = errors.New("invalid submission input")
	ErrTaskDirectoryUnavailable = errors.New("task service unavailable")
)
