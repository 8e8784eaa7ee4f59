package http

type SubmitRequest struct {
	TaskID     string `json:"taskId" validate:"required"`
	GithubLink string `json:"githubLink" validate:"required,url"`
	UserID     string `json:"userId" validate:"required"`
}

type ReviewRequest struct {
	Status string `json:"status" validate:"required"`
}

type SubmissionDTO struct {
	ID             string `json:"id"`
	TaskID         string `json:"taskId"`
	GithubLink     string `json:"githubLink"`
	Status         string `json:"status"`
	UserID         string `json:"userId"`
	SubmissionTime string `json:"submissionTime,omitempty"`
}

type GetSubmissionResponse struct {
	Submission SubmissionDTO `json:"submission"`
}

type ListSubmissionsResponse struct {
	Items []SubmissionDTO `json:"items"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
