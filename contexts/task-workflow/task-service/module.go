package taskservice

import (
	"log/slog"

	httpadapter "taskhive/contexts/task-workflow/task-service/adapters/http"
	"taskhive/contexts/task-workflow/task-service/adapters/memory"
	"taskhive/contexts/task-workflow/task-service/application/commands"
	"taskhive/contexts/task-workflow/task-service/application/queries"
	"taskhive/contexts/task-workflow/task-service/domain/entities"
	"taskhive/contexts/task-workflow/task-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Users      ports.UserDirectory
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			CreateTask: commands.CreateTaskUseCase{
				Repository: deps.Repository,
				Clock:      deps.Clock,
				IDGen:      deps.IDGen,
				Logger:     deps.Logger,
			},
			AssignTask: commands.AssignTaskUseCase{
				Repository: deps.Repository,
				Logger:     deps.Logger,
			},
			UpdateTask: commands.UpdateTaskUseCase{
				Repository: deps.Repository,
				Logger:     deps.Logger,
			},
			CompleteTask: commands.CompleteTaskUseCase{
				Repository: deps.Repository,
				Logger:     deps.Logger,
			},
			DeleteTask: commands.DeleteTaskUseCase{
				Repository: deps.Repository,
				Logger:     deps.Logger,
			},
			Queries: queries.QueryUseCase{
				Repository: deps.Repository,
				Logger:     deps.Logger,
			},
			Users:  deps.Users,
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Task, users ports.UserDirectory, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		IDGen:      store,
		Users:      users,
		Logger:     logger,
	})
	module.Store = store
	return module
}
