// Package client holds the task service's outbound HTTP adapters.
// Every call here crosses a service boundary and therefore runs through the
// shared resilience wrapper, forwarding the caller's token unchanged.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	domainerrors "taskhive/contexts/task-workflow/task-service/domain/errors"
	"taskhive/contexts/task-workflow/task-service/ports"
	"taskhive/internal/platform/discovery"
	"taskhive/internal/shared/resilience"
	"taskhive/internal/shared/token"
)

const userServiceName = "user-service"

type UserDirectory struct {
	httpClient *http.Client
	resolver   discovery.Resolver
	breaker    *resilience.Breaker
	logger     *slog.Logger
}

func NewUserDirectory(
	httpClient *http.Client,
	resolver discovery.Resolver,
	breaker *resilience.Breaker,
	logger *slog.Logger,
) *UserDirectory {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserDirectory{
		httpClient: httpClient,
		resolver:   resolver,
		breaker:    breaker,
		logger:     logger,
	}
}

// Profile fetches the calling user's profile from the user service.
// The declared fallback for this call site is the service-unavailable
// signal: an open circuit, a timeout, or a transport failure all surface as
// ErrUserDirectoryUnavailable, never as a raw error.
func (d *UserDirectory) Profile(ctx context.Context, rawToken string) (ports.UserRef, error) {
	var ref ports.UserRef
	var rejected bool

	err := d.breaker.Execute(ctx, func(callCtx context.Context) error {
		base, err := d.resolver.Resolve(userServiceName)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(callCtx, http.MethodGet, base+"/api/users/profile", nil)
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
				User struct {
					ID    string `json:"id"`
					Email string `json:"email"`
					Role  string `json:"role"`
				} `json:"user"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return err
			}
			ref = ports.UserRef{
				UserID: body.User.ID,
				Email:  body.User.Email,
				Role:   body.User.Role,
			}
			return nil
		case resp.StatusCode >= http.StatusInternalServerError:
			// Server-side failure counts toward the breaker.
			return fmt.Errorf("user service returned %d", resp.StatusCode)
		default:
			// The dependency answered; the request itself was rejected.
			rejected = true
			return nil
		}
	})
	if err != nil {
		d.logger.Warn("user profile lookup degraded",
			"event", "user_profile_lookup_degraded",
			"module", "task-workflow/task-service",
			"layer", "adapters",
			"error", err,
		)
		return ports.UserRef{}, domainerrors.ErrUserDirectoryUnavailable
	}
	if rejected {
		return ports.UserRef{}, domainerrors.ErrUserDirectoryUnavailable
	}
	return ref, nil
}
