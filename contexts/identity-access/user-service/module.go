package userservice

import (
	"log/slog"

	httpadapter "taskhive/contexts/identity-access/user-service/adapters/http"
	"taskhive/contexts/identity-access/user-service/adapters/memory"
	"taskhive/contexts/identity-access/user-service/application"
	"taskhive/contexts/identity-access/user-service/domain/entities"
	"taskhive/contexts/identity-access/user-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Tokens     ports.TokenMinter
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Tokens:     deps.Tokens,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.User, tokens ports.TokenMinter, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		IDGen:      store,
		Tokens:     tokens,
		Logger:     logger,
	})
	module.Store = store
	return module
}
