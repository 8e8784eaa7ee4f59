package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	userservice "taskhive/contexts/identity-access/user-service"
	usermemory "taskhive/contexts/identity-access/user-service/adapters/memory"
	userentities "taskhive/contexts/identity-access/user-service/domain/entities"
	"taskhive/internal/shared/resilience"
	"taskhive/internal/shared/token"
)

func newTestUserServer() (*UserServer, *token.Authority) {
	authority := token.NewAuthority("test-secret", time.Hour)
	module := userservice.NewInMemoryModule(nil, authority, slog.Default())
	return NewUserServer(module, authority, resilience.Config{}, slog.Default(), ":0"), authority
}

type failingUserRepository struct{}

func (failingUserRepository) CreateUser(context.Context, userentities.User) error {
	return errors.New("connection refused")
}

func (failingUserRepository) GetUserByEmail(context.Context, string) (userentities.User, error) {
	return userentities.User{}, errors.New("connection refused")
}

func (failingUserRepository) GetUserByID(context.Context, string) (userentities.User, error) {
	return userentities.User{}, errors.New("connection refused")
}

func (failingUserRepository) ListUsers(context.Context) ([]userentities.User, error) {
	return nil, errors.New("connection refused")
}

func TestSignUpFallsBackWhenStorageIsDown(t *testing.T) {
	authority := token.NewAuthority("test-secret", time.Hour)
	store := usermemory.NewStore(nil)
	module := userservice.NewModule(userservice.Dependencies{
		Repository: failingUserRepository{},
		Clock:      store,
		IDGen:      store,
		Tokens:     authority,
		Logger:     slog.Default(),
	})
	server := NewUserServer(module, authority, resilience.Config{FailureThreshold: 1, Cooldown: time.Minute}, slog.Default(), ":0")

	body := []byte(`{"fullName":"Alice Example","email":"alice@example.com","password":"s3cret-pass"}`)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)

		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("attempt %d: expected 503, got %d body=%s", i, rr.Code, rr.Body.String())
		}
		var resp struct {
			Message string `json:"message"`
			Status  bool   `json:"status"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("attempt %d: decode fallback body: %v", i, err)
		}
		if resp.Status || resp.Message == "" {
			t.Fatalf("attempt %d: expected structured fallback, got %+v", i, resp)
		}
	}
}

func TestSignUpIsPublic(t *testing.T) {
	server, _ := newTestUserServer()
	body := []byte(`{"fullName":"Alice Example","email":"alice@example.com","password":"s3cret-pass"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestProfileRequiresToken(t *testing.T) {
	server, _ := newTestUserServer()
	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestProfileRejectsGarbageToken(t *testing.T) {
	server, _ := newTestUserServer()
	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestProfileWithMintedToken(t *testing.T) {
	server, authority := newTestUserServer()

	signup := []byte(`{"fullName":"Alice Example","email":"alice@example.com","password":"s3cret-pass"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(signup))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d body=%s", rr.Code, rr.Body.String())
	}

	minted, err := authority.Generate("alice@example.com", token.RoleCustomer)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	req.Header.Set("Authorization", "Bearer "+minted)
	rr = httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}
