package submissionservice

import (
	"log/slog"

	httpadapter "taskhive/contexts/task-workflow/submission-service/adapters/http"
	"taskhive/contexts/task-workflow/submission-service/adapters/memory"
	"taskhive/contexts/task-workflow/submission-service/application/commands"
	"taskhive/contexts/task-workflow/submission-service/application/queries"
	"taskhive/contexts/task-workflow/submission-service/domain/entities"
	"taskhive/contexts/task-workflow/submission-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Tasks      ports.TaskDirectory
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Submit: commands.SubmitUseCase{
				Repository: deps.Repository,
				Tasks:      deps.Tasks,
				Clock:      deps.Clock,
				IDGen:      deps.IDGen,
				Logger:     deps.Logger,
			},
			Review: commands.ReviewUseCase{
				Repository: deps.Repository,
				Tasks:      deps.Tasks,
				Logger:     deps.Logger,
			},
			Queries: queries.QueryUseCase{
				Repository: deps.Repository,
				Logger:     deps.Logger,
			},
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Submission, tasks ports.TaskDirectory, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		IDGen:      store,
		Tasks:      tasks,
		Logger:     logger,
	})
	module.Store = store
	return module
}
