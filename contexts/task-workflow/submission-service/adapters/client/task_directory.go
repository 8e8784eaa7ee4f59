// Package client holds the submission service's outbound HTTP adapters.
// Every call here crosses a service boundary and therefore runs through the
// shared resilience wrapper, forwarding the caller's token unchanged.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	domainerrors "taskhive/contexts/task-workflow/submission-service/domain/errors"
	"taskhive/contexts/task-workflow/submission-service/ports"
	"taskhive/internal/platform/discovery"
	"taskhive/internal/shared/resilience"
	"taskhive/internal/shared/token"
)

const taskServiceName = "task-service"

type TaskDirectory struct {
	httpClient *http.Client
	resolver   discovery.Resolver
	breaker    *resilience.Breaker
	logger     *slog.Logger
}

func NewTaskDirectory(
	httpClient *http.Client,
	resolver discovery.Resolver,
	breaker *resilience.Breaker,
	logger *slog.Logger,
) *TaskDirectory {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskDirectory{
		httpClient: httpClient,
		resolver:   resolver,
		breaker:    breaker,
		logger:     logger,
	}
}

// GetTask looks up the task by id. A 404 from the task service is a business
// answer, not a dependency failure: it reports found=false without counting
// toward the breaker. Open circuit, timeout, or transport failure surface as
// ErrTaskDirectoryUnavailable.
func (d *TaskDirectory) GetTask(ctx context.Context, taskID, rawToken string) (ports.TaskRef, bool, error) {
	var ref ports.TaskRef
	var found bool

	err := d.breaker.Execute(ctx, func(callCtx context.Context) error {
		base, err := d.resolver.Resolve(taskServiceName)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(callCtx, http.MethodGet, base+"/api/tasks/"+taskID, nil)
		if err != nil {
			return err
		}
		req.Header.Set(token.HeaderName, "Bearer "+token.StripBearer(rawToken))

		resp, err := d.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			var body struct {
				Task struct {
					ID     string `json:"id"`
					Status string `json:"status"`
				} `json:"task"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return err
			}
			ref = ports.TaskRef{TaskID: body.Task.ID, Status: body.Task.Status}
			found = true
			return nil
		case resp.StatusCode == http.StatusNotFound:
			// The dependency answered; the task simply does not exist.
			return nil
		case resp.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("task service returned %d", resp.StatusCode)
		default:
			return nil
		}
	})
	if err != nil {
		d.logger.Warn("task lookup degraded",
			"event", "task_lookup_degraded",
			"module", "task-workflow/submission-service",
			"layer", "adapters",
			"task_id", taskID,
			"error", err,
		)
		return ports.TaskRef{}, false, domainerrors.ErrTaskDirectoryUnavailable
	}
	return ref, found, nil
}

// CompleteTask marks the task DONE on the task service. The caller treats
// failure as degradation, never as a reason to roll anything back.
func (d *TaskDirectory) CompleteTask(ctx context.Context, taskID, rawToken string) error {
	err := d.breaker.Execute(ctx, func(callCtx context.Context) error {
		base, err := d.resolver.Resolve(taskServiceName)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(callCtx, http.MethodPut, base+"/api/tasks/"+taskID+"/complete", nil)
		if err != nil {
			return err
		}
		req.Header.Set(token.HeaderName, "Bearer "+token.StripBearer(rawToken))

		resp, err := d.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("task service returned %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		return domainerrors.ErrTaskDirectoryUnavailable
	}
	return nil
}
