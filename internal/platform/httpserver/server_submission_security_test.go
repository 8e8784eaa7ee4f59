package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	submissionservice "taskhive/contexts/task-workflow/submission-service"
	submissionports "taskhive/contexts/task-workflow/submission-service/ports"
	"taskhive/internal/shared/token"
)

// stubTaskDirectory answers task lookups without a live task service.
type stubTaskDirectory struct {
	knownTasks map[string]bool
}

func (s stubTaskDirectory) GetTask(_ context.Context, taskID, _ string) (submissionports.TaskRef, bool, error) {
	if !s.knownTasks[taskID] {
		return submissionports.TaskRef{}, false, nil
	}
	return submissionports.TaskRef{TaskID: taskID, Status: "ASSIGNED"}, true, nil
}

func (s stubTaskDirectory) CompleteTask(context.Context, string, string) error {
	return nil
}

func newTestSubmissionServer(knownTasks map[string]bool) (*SubmissionServer, *token.Authority) {
	authority := token.NewAuthority("test-secret", time.Hour)
	module := submissionservice.NewInMemoryModule(nil, stubTaskDirectory{knownTasks: knownTasks}, slog.Default())
	return NewSubmissionServer(module, authority, slog.Default(), ":0"), authority
}

func TestSubmitRequiresToken(t *testing.T) {
	server, _ := newTestSubmissionServer(map[string]bool{"task-1": true})
	body := []byte(`{"taskId":"task-1","githubLink":"https://github.com/acme/solution","userId":"user-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSubmitUnknownTaskReturnsNotFound(t *testing.T) {
	server, authority := newTestSubmissionServer(map[string]bool{})
	minted, err := authority.Generate("caller@example.com", token.RoleCustomer)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	body := []byte(`{"taskId":"nonexistent-id","githubLink":"https://github.com/acme/solution","userId":"user-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+minted)

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestReviewRejectsUnknownStatus(t *testing.T) {
	server, authority := newTestSubmissionServer(map[string]bool{"task-1": true})
	minted, err := authority.Generate("caller@example.com", token.RoleAdmin)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	// Create a submission first.
	body := []byte(`{"taskId":"task-1","githubLink":"https://github.com/acme/solution","userId":"user-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+minted)
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("submit failed: %d body=%s", rr.Code, rr.Body.String())
	}

	var created struct {
		Submission struct {
			ID string `json:"id"`
		} `json:"submission"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/submissions/"+created.Submission.ID+"/review?status=bogus", nil)
	req.Header.Set("Authorization", "Bearer "+minted)
	rr = httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestReviewUnknownSubmissionReturnsNotFound(t *testing.T) {
	server, authority := newTestSubmissionServer(map[string]bool{})
	minted, err := authority.Generate("caller@example.com", token.RoleAdmin)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/submissions/missing-id/review?status=ACCEPTED", nil)
	req.Header.Set("Authorization", "Bearer "+minted)

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}
