package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	userservice "taskhive/contexts/identity-access/user-service"
	usermemory "taskhive/contexts/identity-access/user-service/adapters/memory"
	userpostgres "taskhive/contexts/identity-access/user-service/adapters/postgres"
	submissionservice "taskhive/contexts/task-workflow/submission-service"
	submissionclient "taskhive/contexts/task-workflow/submission-service/adapters/client"
	submissionmemory "taskhive/contexts/task-workflow/submission-service/adapters/memory"
	submissionpostgres "taskhive/contexts/task-workflow/submission-service/adapters/postgres"
	submissionports "taskhive/contexts/task-workflow/submission-service/ports"
	taskservice "taskhive/contexts/task-workflow/task-service"
	taskclient "taskhive/contexts/task-workflow/task-service/adapters/client"
	taskmemory "taskhive/contexts/task-workflow/task-service/adapters/memory"
	taskpostgres "taskhive/contexts/task-workflow/task-service/adapters/postgres"
	taskports "taskhive/contexts/task-workflow/task-service/ports"
	"taskhive/internal/platform/config"
	"taskhive/internal/platform/db"
	"taskhive/internal/platform/discovery"
	"taskhive/internal/platform/gateway"
	"taskhive/internal/platform/httpserver"
	"taskhive/internal/shared/resilience"
	"taskhive/internal/shared/token"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type server interface {
	Start() error
}

type App struct {
	server   server
	registry *discovery.Registry
	postgres *db.Postgres
	logger   *slog.Logger
}

func (a *App) Run(ctx context.Context) error {
	if a.registry != nil {
		a.registry.Start(ctx)
	}
	if a.logger != nil {
		a.logger.Info("app started",
			"event", "bootstrap_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *App) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func BuildUserService() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "user-service")
	authority := token.NewAuthority(cfg.JWTSecret, cfg.TokenTTL)

	var module userservice.Module
	var pg *db.Postgres
	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		module = userservice.NewModule(userservice.Dependencies{
			Repository: userpostgres.NewRepository(pg.DB, logger),
			Clock:      userpostgres.SystemClock{},
			IDGen:      userpostgres.UUIDGenerator{},
			Tokens:     authority,
			Logger:     logger,
		})
	} else {
		logger.Warn("no postgres dsn configured, using in-memory store",
			"event", "bootstrap_memory_fallback",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		store := usermemory.NewStore(nil)
		module = userservice.NewModule(userservice.Dependencies{
			Repository: store,
			Clock:      store,
			IDGen:      store,
			Tokens:     authority,
			Logger:     logger,
		})
	}

	return &App{
		server:   httpserver.NewUserServer(module, authority, breakerConfig(cfg), logger, normalizeAddr(cfg.HTTPPort)),
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildTaskService() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "task-service")
	authority := token.NewAuthority(cfg.JWTSecret, cfg.TokenTTL)

	registry := newRegistry(cfg, logger)
	users := taskclient.NewUserDirectory(
		&http.Client{Timeout: cfg.BreakerCallTimeout},
		registry,
		resilience.NewBreaker("user-service", breakerConfig(cfg), logger),
		logger,
	)

	repo, clock, idGen, pg, err := taskStorage(cfg, logger)
	if err != nil {
		return nil, err
	}
	module := taskservice.NewModule(taskservice.Dependencies{
		Repository: repo,
		Clock:      clock,
		IDGen:      idGen,
		Users:      users,
		Logger:     logger,
	})

	return &App{
		server:   httpserver.NewTaskServer(module, authority, logger, normalizeAddr(cfg.HTTPPort)),
		registry: registry,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildSubmissionService() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "submission-service")
	authority := token.NewAuthority(cfg.JWTSecret, cfg.TokenTTL)

	registry := newRegistry(cfg, logger)
	tasks := submissionclient.NewTaskDirectory(
		&http.Client{Timeout: cfg.BreakerCallTimeout},
		registry,
		resilience.NewBreaker("task-service", breakerConfig(cfg), logger),
		logger,
	)

	repo, clock, idGen, pg, err := submissionStorage(cfg, logger)
	if err != nil {
		return nil, err
	}
	module := submissionservice.NewModule(submissionservice.Dependencies{
		Repository: repo,
		Clock:      clock,
		IDGen:      idGen,
		Tasks:      tasks,
		Logger:     logger,
	})

	return &App{
		server:   httpserver.NewSubmissionServer(module, authority, logger, normalizeAddr(cfg.HTTPPort)),
		registry: registry,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildGateway() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "gateway")

	registry := newRegistry(cfg, logger)
	return &App{
		server:   gateway.New(gateway.DefaultRoutes(), registry, logger, normalizeAddr(cfg.HTTPPort)),
		registry: registry,
		logger:   logger,
	}, nil
}

// newRegistry builds a registry whose source re-reads the environment, so
// address changes land on the next background refresh.
func newRegistry(cfg config.Config, logger *slog.Logger) *discovery.Registry {
	registry := discovery.NewRegistry(func(context.Context) (discovery.Table, error) {
		fresh, err := config.Load()
		if err != nil {
			return nil, err
		}
		return discovery.Table{
			"user-service":       fresh.UserServiceURL,
			"task-service":       fresh.TaskServiceURL,
			"submission-service": fresh.SubmissionServiceURL,
		}, nil
	}, cfg.DiscoveryRefreshInterval, logger)
	_ = registry.Refresh(context.Background())
	return registry
}

func breakerConfig(cfg config.Config) resilience.Config {
	return resilience.Config{
		FailureThreshold: cfg.BreakerFailureThreshold,
		Cooldown:         cfg.BreakerCooldown,
		CallTimeout:      cfg.BreakerCallTimeout,
	}
}

func taskStorage(cfg config.Config, logger *slog.Logger) (taskports.Repository, taskports.Clock, taskports.IDGenerator, *db.Postgres, error) {
	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err := db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return taskpostgres.NewRepository(pg.DB, logger), taskpostgres.SystemClock{}, taskpostgres.UUIDGenerator{}, pg, nil
	}
	logger.Warn("no postgres dsn configured, using in-memory store",
		"event", "bootstrap_memory_fallback",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	store := taskmemory.NewStore(nil)
	return store, store, store, nil, nil
}

func submissionStorage(cfg config.Config, logger *slog.Logger) (submissionports.Repository, submissionports.Clock, submissionports.IDGenerator, *db.Postgres, error) {
	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err := db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return submissionpostgres.NewRepository(pg.DB, logger), submissionpostgres.SystemClock{}, submissionpostgres.UUIDGenerator{}, pg, nil
	}
	logger.Warn("no postgres dsn configured, using in-memory store",
		"event", "bootstrap_memory_fallback",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	store := submissionmemory.NewStore(nil)
	return store, store, store, nil, nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
