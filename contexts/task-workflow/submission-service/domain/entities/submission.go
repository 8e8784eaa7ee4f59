package entities

import (
	"strings"
	"time"
)

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "PENDING"
	SubmissionStatusAccepted SubmissionStatus = "ACCEPTED"
	SubmissionStatusRejected SubmissionStatus = "REJECTED"
)

// ParseSubmissionStatus maps a raw string onto the closed status set,
// case-insensitively. Unknown strings report ok=false.
func ParseSubmissionStatus(raw string) (SubmissionStatus, bool) {
	switch SubmissionStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case SubmissionStatusPending:
		return SubmissionStatusPending, true
	case SubmissionStatusAccepted:
		return SubmissionStatusAccepted, true
	case SubmissionStatusRejected:
		return SubmissionStatusRejected, true
	default:
		return "", false
	}
}

// Submission is owned exclusively by the submission service. TaskID is a
// soft reference into the task service: it is checked remotely when the
// submission is created and never again afterward, so a submission can
// outlive its task.
type Submission struct {
	SubmissionID   string
	TaskID         string
	GithubLink     string
	Status         SubmissionStatus
	UserID         string
	SubmissionTime time.Time
}

func (s Submission) ValidateSubmit() bool {
	return strings.TrimSpace(s.TaskID) != "" && strings.TrimSpace(s.GithubLink) != ""
}
